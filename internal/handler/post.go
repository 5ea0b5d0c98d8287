package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storeapi/backend/internal/model"
)

type PostService interface {
	CreatePost(ctx context.Context, user *model.User, body string) (*model.Post, error)
	ListPosts(ctx context.Context, sorting model.PostSorting) ([]model.PostWithLikes, error)
	GetPostWithComments(ctx context.Context, postID int64) (*model.PostWithComments, error)
	ListComments(ctx context.Context, postID int64) ([]model.Comment, error)
	CreateComment(ctx context.Context, user *model.User, postID int64, body string) (*model.Comment, error)
	LikePost(ctx context.Context, user *model.User, postID int64) (*model.Like, error)
}

type PostHandler struct {
	svc PostService
}

func NewPostHandler(svc PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreatePost godoc
// @Summary Create a post
// @Tags post
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PostRequest true "Post body"
// @Success 201 {object} model.Post
// @Failure 401 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /post [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidInput(c)
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), GetAuthUser(c), req.Body)
	if err != nil {
		writePostError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ListPosts godoc
// @Summary List posts with like counts
// @Tags post
// @Produce json
// @Param sorting query string false "new, old or most_likes" default(new)
// @Success 200 {array} model.PostWithLikes
// @Failure 422 {object} model.ErrorResponse
// @Router /post [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	sorting := model.PostSorting(c.DefaultQuery("sorting", string(model.SortNew)))
	posts, err := h.svc.ListPosts(c.Request.Context(), sorting)
	if err != nil {
		writePostError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a post with its comments
// @Tags post
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.PostWithComments
// @Failure 404 {object} model.ErrorResponse
// @Router /post/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := idParam(c)
	if !ok {
		return
	}

	post, err := h.svc.GetPostWithComments(c.Request.Context(), postID)
	if err != nil {
		writePostError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListComments godoc
// @Summary List comments on a post
// @Tags post
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} model.Comment
// @Router /post/{id}/comment [get]
func (h *PostHandler) ListComments(c *gin.Context) {
	postID, ok := idParam(c)
	if !ok {
		return
	}

	comments, err := h.svc.ListComments(c.Request.Context(), postID)
	if err != nil {
		writePostError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment godoc
// @Summary Comment on a post
// @Tags post
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CommentRequest true "Comment"
// @Success 201 {object} model.Comment
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /comment [post]
func (h *PostHandler) CreateComment(c *gin.Context) {
	var req model.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidInput(c)
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), GetAuthUser(c), req.PostID, req.Body)
	if err != nil {
		writePostError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// LikePost godoc
// @Summary Like a post
// @Tags post
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.LikeRequest true "Post to like"
// @Success 201 {object} model.Like
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /like [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	var req model.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidInput(c)
		return
	}

	like, err := h.svc.LikePost(c.Request.Context(), GetAuthUser(c), req.PostID)
	if err != nil {
		writePostError(c, err)
		return
	}
	c.JSON(http.StatusCreated, like)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeInvalidInput(c)
		return 0, false
	}
	return id, true
}
