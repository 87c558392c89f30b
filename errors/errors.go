package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the generic application error, carrying a user-safe message and
// the http status it should be answered with
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("message: %v, status: %v", e.Message, e.Status)
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	InActiveUserError      = errors.New("user is inactive")
)

// GetUniqueContraintError maps a postgres unique-violation to a friendly 400
func GetUniqueContraintError(err error) *Error {
	if strings.Contains(err.Error(), "email") {
		return New("user with this email already exists", http.StatusBadRequest)
	}
	if strings.Contains(err.Error(), "username") {
		return New("user with this username already exists", http.StatusBadRequest)
	}
	return New(err.Error(), http.StatusBadRequest)
}

// ErrorHandler responds to rate-limited requests
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": "Too many requests. Try again in " + time.Until(info.ResetTime).String(),
		"status":  http.StatusTooManyRequests,
	})
}
