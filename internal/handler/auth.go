package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usermgmt/backend/internal/model"
	"github.com/usermgmt/backend/internal/service"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// CookieConfig controls how session tokens are delivered.
type CookieConfig struct {
	Domain        string
	Secure        bool
	AccessMaxAge  int
	RefreshMaxAge int
}

type AuthHandler struct {
	svc     *service.AuthService
	cookies CookieConfig
}

func NewAuthHandler(svc *service.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies}
}

// Register godoc
// @Summary Register a new user
// @Description Creates the user and starts a session. Tokens are delivered as cookies.
// @Description The optional role is not restricted: anyone can register as admin.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "User profile and password"
// @Success 201 {object} model.IDResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := bindRequest(c, &req); err != nil {
		writeError(c, err)
		return
	}

	session, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setSessionCookies(c, session)
	c.JSON(http.StatusCreated, model.IDResponse{ID: session.User.ID})
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.IDResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := bindRequest(c, &req); err != nil {
		writeError(c, err)
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setSessionCookies(c, session)
	c.JSON(http.StatusOK, model.IDResponse{ID: session.User.ID})
}

// Self godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /auth/self [get]
func (h *AuthHandler) Self(c *gin.Context) {
	authUser := GetAuthUser(c)
	if authUser == nil {
		writeError(c, service.ErrUnauthorized)
		return
	}

	user, err := h.svc.Self(c.Request.Context(), authUser.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Refresh godoc
// @Summary Refresh the session
// @Description Uses the refreshToken cookie. The old refresh token is revoked.
// @Tags auth
// @Produce json
// @Success 200 {object} model.IDResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims := getRefreshClaims(c)
	if claims == nil {
		writeError(c, service.ErrUnauthorized)
		return
	}

	session, err := h.svc.Refresh(c.Request.Context(), claims)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setSessionCookies(c, session)
	c.JSON(http.StatusOK, model.IDResponse{ID: session.User.ID})
}

// Logout godoc
// @Summary Logout
// @Description Revokes the refresh token and clears both cookies.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := getRefreshClaims(c)
	if claims == nil {
		writeError(c, service.ErrUnauthorized)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
		writeError(c, err)
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, session *service.Session) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, session.AccessToken, h.cookies.AccessMaxAge, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(refreshTokenCookie, session.RefreshToken, h.cookies.RefreshMaxAge, "/", h.cookies.Domain, h.cookies.Secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
}
