package response

import (
	"errors"
	"net/http"

	"github.com/brainfuel/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// genericServerMessage is returned for unexpected failures outside debug mode.
const genericServerMessage = "Internal server error"

// AppError represents a structured application error with HTTP status.
type AppError struct {
	HTTPStatus int                    // HTTP status code (e.g. 400, 404, 500)
	Message    string                 // Human-readable error message
	Details    map[string]interface{} // Extra fields merged into the error body
}

func (e *AppError) Error() string {
	return e.Message
}

// With returns a copy of e carrying an extra body field.
func (e *AppError) With(key string, value interface{}) *AppError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &AppError{HTTPStatus: e.HTTPStatus, Message: e.Message, Details: details}
}

// Pre-defined error constructors

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

// NewConflict reports a duplicate unique key. The public API has always
// answered these with 400, so the status stays 400.
func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

// --- Gin response helpers ---

// Success sends a 200 OK response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error sends an error response. If err is an *AppError, its status and
// details are used; otherwise the error is logged and a 500 is returned.
// The underlying message is only exposed in debug mode.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		body := gin.H{"error": appErr.Message}
		for k, v := range appErr.Details {
			body[k] = v
		}
		c.JSON(appErr.HTTPStatus, body)
		return
	}

	logger.FromContext(c).Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")

	msg := genericServerMessage
	if gin.Mode() == gin.DebugMode {
		msg = err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// Convenience error response functions

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}
