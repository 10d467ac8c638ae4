package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/transport/http/response"
)

// writeServiceError maps core errors onto status codes. Unknown errors become 500 with fallback as detail.
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrUsernameExists):
		response.Error(c, http.StatusBadRequest, response.CodeUsernameExists, err.Error())
	case errors.Is(err, app.ErrSelfEvaluation):
		response.Error(c, http.StatusBadRequest, response.CodeSelfEvaluation, err.Error())
	case errors.Is(err, app.ErrInvalidCredential):
		response.Unauthorized(c, response.CodeInvalidCredentials, err.Error())
	case errors.Is(err, app.ErrInactiveUser):
		response.Unauthorized(c, response.CodeInactiveUser, err.Error())
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	case errors.Is(err, app.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
	case errors.Is(err, app.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, response.CodePostNotFound, err.Error())
	case errors.Is(err, app.ErrEvaluationNotFound):
		response.Error(c, http.StatusNotFound, response.CodeEvaluationNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

func parsePostID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid post id")
		return 0, false
	}
	return uint(id), true
}

func parsePage(c *gin.Context) (offset, limit int, ok bool) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid offset")
		return 0, 0, false
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid limit")
		return 0, 0, false
	}
	return offset, limit, true
}
