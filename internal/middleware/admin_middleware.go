package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/service"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// AdminMiddleware gates mutation endpoints behind a live admin session.
// The token travels as a Bearer header; handlers read the verified flag from
// the request context instead of any process-wide state.
type AdminMiddleware struct {
	authService *service.AuthService
}

// NewAdminMiddleware constructs an AdminMiddleware.
func NewAdminMiddleware(authService *service.AuthService) *AdminMiddleware {
	return &AdminMiddleware{authService: authService}
}

// Handle rejects requests without a live admin session with 403.
func (m *AdminMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" || !m.authService.Verify(c.Request.Context(), token) {
			utils.Fail(c, 403, "Unauthorized")
			c.Abort()
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header, or returns
// empty when the header is missing or malformed.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
