package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/usermgmt/backend/internal/model"
	"github.com/usermgmt/backend/internal/service"
	"github.com/usermgmt/backend/internal/token"
)

const (
	authUserKey      = "auth_user"
	refreshClaimsKey = "refresh_claims"
	loggerKey        = "logger"

	requestIDHeader = "X-Request-ID"
)

// AuthMiddleware accepts the access token from the Authorization header or
// the access token cookie.
func AuthMiddleware(gate *service.TokenGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		user, err := gate.Access(accessTokenFrom(c))
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func accessTokenFrom(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	cookie, _ := c.Cookie(accessTokenCookie)
	return cookie
}

// RefreshMiddleware admits a request only when its refresh token cookie is
// valid and still present in the ledger.
func RefreshMiddleware(gate *service.TokenGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(refreshTokenCookie)
		claims, err := gate.Refresh(c.Request.Context(), raw)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(refreshClaimsKey, claims)
		c.Next()
	}
}

// RequireRoles must run after AuthMiddleware.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil {
			writeError(c, service.ErrUnauthorized)
			return
		}
		if err := service.Authorize(user.Role, roles...); err != nil {
			writeError(c, err)
			return
		}
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

func getRefreshClaims(c *gin.Context) *token.Claims {
	if value, ok := c.Get(refreshClaimsKey); ok {
		if claims, ok := value.(*token.Claims); ok {
			return claims
		}
	}
	return nil
}

// RequestLogger tags every request with an id and logs it once it finishes.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		reqLog := log.With("request_id", requestID)
		c.Set(loggerKey, reqLog)

		c.Next()

		reqLog.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

func requestLogger(c *gin.Context) *slog.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if log, ok := value.(*slog.Logger); ok {
			return log
		}
	}
	return slog.Default()
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
