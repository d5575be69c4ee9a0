package envelope

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorMapper translates an application error into an HTTP status and message.
// The boolean reports whether the mapper recognized the error.
type ErrorMapper func(err error) (status int, message string, ok bool)

// Responder maps application errors to failure envelopes through a mapper
// chain, falling back to a 500 when no mapper recognizes the error.
type Responder struct {
	mappers []ErrorMapper
}

// NewResponder builds a responder from the given mapper chain.
func NewResponder(mappers ...ErrorMapper) *Responder {
	return &Responder{mappers: mappers}
}

// AddMapper appends a mapper to the chain.
func (r *Responder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// Error writes the failure envelope for err.
func (r *Responder) Error(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if mapper == nil {
			continue
		}
		if status, message, ok := mapper(err); ok {
			Fail(c, status, message)
			return
		}
	}
	Fail(c, http.StatusInternalServerError, err.Error())
}
