package response

import "github.com/gin-gonic/gin"

// Success writes {"message": ..., <fields>}.
func Success(c *gin.Context, statusCode int, message string, fields gin.H) {
	body := gin.H{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

func ErrorWithDetails(c *gin.Context, statusCode int, message string, errors []string) {
	c.JSON(statusCode, gin.H{
		"message": message,
		"errors":  errors,
	})
}

func Abort(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"message": message})
}
