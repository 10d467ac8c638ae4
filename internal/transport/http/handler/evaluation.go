package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/observability"
	"postboard/internal/transport/http/middleware"
	"postboard/internal/transport/http/response"
)

type EvaluationHandler struct {
	evaluationService *app.EvaluationService
}

func NewEvaluationHandler(evaluationService *app.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// Upsert handles POST /posts/:id/like?is_like=bool. A missing is_like means like.
func (h *EvaluationHandler) Upsert(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "not authenticated")
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	like, err := strconv.ParseBool(c.DefaultQuery("is_like", "true"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid is_like")
		return
	}

	result, err := h.evaluationService.Upsert(c.Request.Context(), user.ID, postID, like)
	if err != nil {
		writeServiceError(c, err, "evaluate post failed")
		return
	}

	kind := "dislike"
	if like {
		kind = "like"
	}
	observability.Evaluations.WithLabelValues(kind).Inc()
	response.OK(c, result)
}

func (h *EvaluationHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "not authenticated")
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	if err := h.evaluationService.Delete(c.Request.Context(), user.ID, postID); err != nil {
		writeServiceError(c, err, "delete evaluation failed")
		return
	}

	observability.Evaluations.WithLabelValues("removed").Inc()
	response.Status(c)
}

// Counts handles GET /posts/:id/likes.
func (h *EvaluationHandler) Counts(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	counts, err := h.evaluationService.Counts(c.Request.Context(), postID)
	if err != nil {
		writeServiceError(c, err, "count evaluations failed")
		return
	}
	response.OK(c, counts)
}
