package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bitebabe_admin/internal/service"
)

// errorStatus 业务错误到 HTTP 状态码的映射
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConfirmRequired), errors.Is(err, service.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnsupportedImage),
		errors.Is(err, service.ErrEmptySource),
		errors.Is(err, service.ErrMissingRemote):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrAuthNotConfigured):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := errorStatus(err)
	c.JSON(status, gin.H{"code": status, "message": err.Error()})
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}
