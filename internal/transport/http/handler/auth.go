package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/observability"
	"postboard/internal/transport/http/middleware"
	"postboard/internal/transport/http/response"
)

type AuthHandler struct {
	authService     *app.AuthService
	activityService *app.ActivityService
}

type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=64"`
	FullName string  `json:"fullname" binding:"max=128"`
	Password *string `json:"password" binding:"required"`
}

// TokenRequest is the OAuth2 password-grant form.
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func NewAuthHandler(authService *app.AuthService, activityService *app.ActivityService) *AuthHandler {
	return &AuthHandler{authService: authService, activityService: activityService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		FullName: req.FullName,
		Password: *req.Password,
	})
	if err != nil {
		writeServiceError(c, err, "register failed")
		return
	}

	response.OK(c, user)
}

func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCredential):
			observability.LoginAttempts.WithLabelValues("invalid").Inc()
		case errors.Is(err, app.ErrInactiveUser):
			observability.LoginAttempts.WithLabelValues("inactive").Inc()
		default:
			observability.LoginAttempts.WithLabelValues("error").Inc()
		}
		writeServiceError(c, err, "login failed")
		return
	}

	observability.LoginAttempts.WithLabelValues("ok").Inc()
	response.OK(c, TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   int64(result.ExpiresIn.Seconds()),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "not authenticated")
		return
	}
	response.OK(c, user)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.authService.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeServiceError(c, err, "fetch user failed")
		return
	}
	response.OK(c, user)
}

func (h *AuthHandler) Activity(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "not authenticated")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid limit")
		return
	}

	activities, err := h.activityService.ListForUser(c.Request.Context(), user.ID, limit)
	if err != nil {
		writeServiceError(c, err, "list activity failed")
		return
	}
	response.OK(c, activities)
}
