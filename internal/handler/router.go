package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/usermgmt/backend/internal/model"
	"github.com/usermgmt/backend/internal/service"
)

type RouterDeps struct {
	Gate        *service.TokenGate
	Auth        *AuthHandler
	Users       *UserHandler
	Tenants     *TenantHandler
	Logger      *slog.Logger
	CORSOrigins []string
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(d.Logger), CORSMiddleware(d.CORSOrigins, true))

	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/openapi.json", OpenAPIDoc)

	auth := router.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
		auth.GET("/self", AuthMiddleware(d.Gate), d.Auth.Self)
		auth.POST("/refresh", RefreshMiddleware(d.Gate), d.Auth.Refresh)
		auth.POST("/logout", RefreshMiddleware(d.Gate), d.Auth.Logout)
	}

	admin := router.Group("/", AuthMiddleware(d.Gate), RequireRoles(model.RoleAdmin))
	{
		admin.POST("/users", d.Users.CreateUser)
		admin.GET("/users", d.Users.ListUsers)
		admin.GET("/users/:id", d.Users.GetUser)
		admin.PATCH("/users/:id", d.Users.UpdateUser)
		admin.DELETE("/users/:id", d.Users.DeleteUser)

		admin.POST("/tenants", d.Tenants.CreateTenant)
		admin.GET("/tenants", d.Tenants.ListTenants)
		admin.GET("/tenants/:id", d.Tenants.GetTenant)
		admin.PATCH("/tenants/:id", d.Tenants.UpdateTenant)
		admin.DELETE("/tenants/:id", d.Tenants.DeleteTenant)
	}

	return router
}
