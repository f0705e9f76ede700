package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/middleware"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/service"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// AuthHandler handles admin login/logout and session checks.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, 400, "Invalid request data")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Code)
	if err == utils.ErrInvalidAdminCode {
		utils.Fail(c, 401, "Invalid admin code")
		return
	}
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	utils.OK(c, gin.H{"message": "Admin login successful", "token": token})
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.BearerToken(c); token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			respondError(c, err, "Logout failed")
			return
		}
	}
	utils.OKMessage(c, "Logged out successfully")
}

// SessionCheck handles GET /admin/session-check.
func (h *AuthHandler) SessionCheck(c *gin.Context) {
	isAdmin := false
	if token := middleware.BearerToken(c); token != "" {
		isAdmin = h.authService.Verify(c.Request.Context(), token)
	}
	utils.OK(c, gin.H{"is_admin": isAdmin})
}
