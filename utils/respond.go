package utils

import "github.com/gin-gonic/gin"

// RespondWithError writes the standard error body used across all handlers.
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
