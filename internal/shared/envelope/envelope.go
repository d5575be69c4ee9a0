// Package envelope implements the uniform API response shape
// {success, data, message, statusCode} used by every endpoint.
package envelope

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the wire format shared by success and failure responses.
type Envelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// OK writes a success envelope with the given payload and message.
func OK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{
		Success:    true,
		Data:       data,
		Message:    message,
		StatusCode: status,
	})
}

// Fail writes a failure envelope with a human-readable message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{
		Success:    false,
		Data:       nil,
		Message:    message,
		StatusCode: status,
	})
}

// BadRequest is shorthand for a 400 failure.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized is shorthand for a 401 failure.
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden is shorthand for a 403 failure.
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

// NotFound is shorthand for a 404 failure.
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}
