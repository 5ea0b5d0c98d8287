package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storeapi/backend/internal/model"
	"github.com/storeapi/backend/internal/token"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Confirm(ctx context.Context, confirmationToken string) error
	ResolveCurrentUser(ctx context.Context, bearer string) (*model.User, error)
}

type AuthHandler struct {
	svc           AuthService
	publicBaseURL string
}

// NewAuthHandler builds confirmation links from publicBaseURL, or from the
// request's scheme and host when it is empty.
func NewAuthHandler(svc AuthService, publicBaseURL string) *AuthHandler {
	return &AuthHandler{svc: svc, publicBaseURL: publicBaseURL}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an unconfirmed account and returns its confirmation link.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Username, email and password"
// @Success 201 {object} model.RegisterResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidInput(c)
		return
	}

	confirmation, err := h.svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeAuthError(c, err, token.KindConfirmation)
		return
	}

	c.JSON(http.StatusCreated, model.RegisterResponse{
		Detail:          "User created. Please confirm your email.",
		ConfirmationURL: h.baseURL(c) + "/confirm/" + confirmation,
	})
}

// Token godoc
// @Summary Issue an access token
// @Description OAuth2 password form; username carries the email.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} model.TokenResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req model.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		writeInvalidInput(c)
		return
	}

	accessToken, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeAuthError(c, err, token.KindAccess)
		return
	}

	c.JSON(http.StatusOK, model.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// Confirm godoc
// @Summary Confirm an email address
// @Tags auth
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} model.DetailResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /confirm/{token} [get]
func (h *AuthHandler) Confirm(c *gin.Context) {
	if err := h.svc.Confirm(c.Request.Context(), c.Param("token")); err != nil {
		writeAuthError(c, err, token.KindConfirmation)
		return
	}
	c.JSON(http.StatusOK, model.DetailResponse{Detail: "User confirmed successfully"})
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		writeUnauthorized(c, "Not authenticated")
		return
	}
	c.JSON(http.StatusOK, model.NewUserResponse(user))
}

func (h *AuthHandler) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	// only the first hop and only the two schemes a link can use
	proto, _, _ := strings.Cut(c.GetHeader("X-Forwarded-Proto"), ",")
	switch proto = strings.ToLower(strings.TrimSpace(proto)); proto {
	case "http", "https":
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
