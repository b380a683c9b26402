package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/mjpos/backend/internal/application/identity"
	"github.com/mjpos/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	BaseHandler
	auth *appidentity.AuthService
}

func NewAuthHandler(auth *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates a staff member and issues an access token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req appidentity.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout revokes the presented token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateUser registers a staff account
// POST /api/v1/users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req appidentity.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.auth.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
