package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/transport/http/middleware"
	"postboard/internal/transport/http/response"
)

type PostHandler struct {
	postService *app.PostService
}

type PostRequest struct {
	Description string `json:"description" binding:"required,max=10000"`
}

func NewPostHandler(postService *app.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "not authenticated")
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := h.postService.Create(c.Request.Context(), user.ID, req.Description)
	if err != nil {
		writeServiceError(c, err, "create post failed")
		return
	}
	response.OK(c, post)
}

// ListOwn lists the caller's own posts.
func (h *PostHandler) ListOwn(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "not authenticated")
		return
	}
	h.listByOwner(c, user.Username)
}

func (h *PostHandler) ListByUser(c *gin.Context) {
	h.listByOwner(c, c.Param("username"))
}

func (h *PostHandler) listByOwner(c *gin.Context, username string) {
	offset, limit, ok := parsePage(c)
	if !ok {
		return
	}

	posts, err := h.postService.ListByOwner(c.Request.Context(), username, offset, limit)
	if err != nil {
		writeServiceError(c, err, "list posts failed")
		return
	}
	response.OK(c, posts)
}

func (h *PostHandler) Feed(c *gin.Context) {
	offset, limit, ok := parsePage(c)
	if !ok {
		return
	}

	posts, err := h.postService.ListFeed(c.Request.Context(), offset, limit)
	if err != nil {
		writeServiceError(c, err, "list feed failed")
		return
	}
	response.OK(c, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), postID)
	if err != nil {
		writeServiceError(c, err, "fetch post failed")
		return
	}
	response.OK(c, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "not authenticated")
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := h.postService.Edit(c.Request.Context(), user.ID, postID, req.Description)
	if err != nil {
		writeServiceError(c, err, "update post failed")
		return
	}
	response.OK(c, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "not authenticated")
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), user.ID, postID); err != nil {
		writeServiceError(c, err, "delete post failed")
		return
	}
	response.Status(c)
}
