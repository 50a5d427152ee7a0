package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usermgmt/backend/internal/model"
)

// Ping godoc
// @Summary 헬스체크
// @Tags health
// @Produce json
// @Success 200 {object} model.PingResponse
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// Root godoc
// @Summary 루트 엔드포인트
// @Tags health
// @Produce json
// @Success 200 {object} model.RootResponse
// @Router / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Status:  "ok",
		Message: "User management API server is running",
	})
}
