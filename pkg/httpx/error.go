package httpx

import (
	"log"
	"net/http"
	"time"

	"edumee-backend/internal/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope every failed request returns.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// WriteError aborts the request with the envelope for err. Errors outside the
// apperror taxonomy are logged and reported as a bare 500.
func WriteError(c *gin.Context, err error) {
	status := apperror.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	Abort(c, status, apperror.Message(err))
}

// BindError reports a request body or query that failed validation.
func BindError(c *gin.Context, err error) {
	Abort(c, http.StatusBadRequest, err.Error())
}

// Abort writes the envelope with an explicit status and message.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Path:       c.Request.URL.Path,
		Method:     c.Request.Method,
		Error:      http.StatusText(status),
		Message:    message,
	})
}
