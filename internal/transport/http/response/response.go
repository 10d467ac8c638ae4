package response

import "github.com/gin-gonic/gin"

const (
	CodeBadRequest         = 40000
	CodeUsernameExists     = 40001
	CodeSelfEvaluation     = 40002
	CodeUnauthorized       = 40100
	CodeInvalidCredentials = 40101
	CodeInactiveUser       = 40102
	CodeForbidden          = 40300
	CodeUserNotFound       = 40401
	CodePostNotFound       = 40402
	CodeEvaluationNotFound = 40403
	CodeInternalServer     = 50000
)

// ErrorBody carries the error text under "detail", where API clients read it.
type ErrorBody struct {
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

type StatusBody struct {
	Status string `json:"status"`
}

// OK writes data as the bare response body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Status(c *gin.Context) {
	c.JSON(200, StatusBody{Status: "ok"})
}

func Error(c *gin.Context, httpStatus, code int, detail string) {
	c.JSON(httpStatus, ErrorBody{
		Code:   code,
		Detail: detail,
	})
}

// Unauthorized answers 401 with the bearer challenge header and stops the chain.
func Unauthorized(c *gin.Context, code int, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	Error(c, 401, code, detail)
	c.Abort()
}
