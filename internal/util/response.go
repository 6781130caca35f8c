package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the data payload of the uniform success envelope.
type Response map[string]interface{}

// Business codes carried alongside the HTTP status.
const (
	CodeOK            = 0
	CodeInvalidParam  = 40001
	CodeAuth          = 40101
	CodePolicyBlocked = 40301
	CodeNotFound      = 40401
	CodeRateLimited   = 42901
	CodeServerErr     = 50001
	CodeExternalErr   = 50201
)

// Success writes the uniform success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes the uniform error envelope. msg must be human-readable;
// internal details belong in the log, not here.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}
