package utils

import "github.com/gin-gonic/gin"

// The storefront speaks a flat JSON dialect: every response carries "success"
// plus endpoint-specific fields at the top level. These helpers keep handlers
// from re-spelling the envelope.

// OK writes a success response, merging extra fields into the body.
func OK(c *gin.Context, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(200, body)
}

// OKMessage writes a success response with only a message.
func OKMessage(c *gin.Context, message string) {
	c.JSON(200, gin.H{"success": true, "message": message})
}

// Fail writes an error response with the given HTTP status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
