package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vanpos-system/internal/apperr"
)

// Helper functions
func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   message,
	})
}

// failFromErr maps a domain error kind onto an HTTP status.
func failFromErr(c *gin.Context, err error) {
	var code int
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		code = http.StatusNotFound
	case apperr.KindDuplicateKey:
		code = http.StatusConflict
	case apperr.KindValidation, apperr.KindInsufficientStock,
		apperr.KindQuantityExceeded, apperr.KindInvalidOperation:
		code = http.StatusBadRequest
	default:
		code = http.StatusInternalServerError
	}
	fail(c, code, err.Error())
}

func parseIDParam(c *gin.Context, param string) (int64, error) {
	return strconv.ParseInt(c.Param(param), 10, 64)
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}
