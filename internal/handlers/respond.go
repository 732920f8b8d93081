package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// writeJSON indents the body when the caller passes pretty=true.
func writeJSON(c *gin.Context, body any) {
	if c.Query("pretty") == "true" {
		c.IndentedJSON(http.StatusOK, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func writeError(c *gin.Context, status int, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}
