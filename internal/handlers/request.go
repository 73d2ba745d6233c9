package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/brainfuel/backend/internal/middleware"
	"github.com/brainfuel/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// parseID reads a positive numeric path parameter. On failure it writes a 400
// and returns false.
func parseID(c *gin.Context, name, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid "+what+" id")
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body into dest. An empty body leaves dest at
// its zero value. On failure it writes the error response and returns false.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	err := c.ShouldBindJSON(dest)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return true
	case middleware.IsBodyTooLarge(err):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
	default:
		response.BadRequest(c, "Invalid JSON body")
	}
	return false
}
