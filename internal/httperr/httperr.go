package httperr

import (
	"errors"
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

// WriteError traduz a taxonomia do engine para status HTTP.
func WriteError(c *gin.Context, err error) {
	var e Error
	if !errors.As(err, &e) {
		Internal(c, "internal_error", "unexpected error")
		return
	}

	switch e.Kind {
	case KindValidation:
		Write(c, http.StatusBadRequest, e.Code, "")
	case KindConflict:
		Write(c, http.StatusConflict, e.Code, "")
	case KindNotFound:
		Write(c, http.StatusNotFound, e.Code, "")
	case KindForbidden:
		// não vaza existência do recurso
		Write(c, http.StatusNotFound, "not_found", "")
	case KindTransient:
		Write(c, http.StatusServiceUnavailable, e.Code, "")
	default:
		Internal(c, "internal_error", "unexpected error")
	}
}
