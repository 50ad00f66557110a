package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		// validation and state conflicts are both user-correctable
		return http.StatusBadRequest
	}
}

// Respond writes a BusinessError with its mapped status. Anything else is
// reported as an internal error under fallbackCode.
func Respond(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	if be, ok := AsBusiness(err); ok {
		msg := be.Message
		if msg == "" {
			msg = be.Code
		}
		Write(c, StatusFor(be.Kind), be.Code, msg)
		return
	}
	if IsRetryable(err) {
		_ = c.Error(err)
		Write(c, http.StatusConflict, "concurrent_update", "Operação concorrente em andamento. Tente novamente.")
		return
	}
	_ = c.Error(err)
	Internal(c, fallbackCode, fallbackMessage)
}
