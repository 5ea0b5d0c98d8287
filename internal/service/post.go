package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/storeapi/backend/internal/db"
	"github.com/storeapi/backend/internal/logger"
	"github.com/storeapi/backend/internal/model"
)

type PostRepo interface {
	CreatePost(ctx context.Context, userID int64, body string) (*model.Post, error)
	ListPosts(ctx context.Context, sorting model.PostSorting) ([]model.PostWithLikes, error)
	GetPostWithLikes(ctx context.Context, postID int64) (*model.PostWithLikes, error)
	PostExists(ctx context.Context, postID int64) (bool, error)
	CreateComment(ctx context.Context, userID, postID int64, body string) (*model.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]model.Comment, error)
	CreateLike(ctx context.Context, userID, postID int64) (*model.Like, error)
}

type PostService struct {
	repo   PostRepo
	logger *logger.Logger
}

func NewPostService(repo PostRepo, logger *logger.Logger) *PostService {
	return &PostService{repo: repo, logger: logger}
}

func (s *PostService) CreatePost(ctx context.Context, user *model.User, body string) (*model.Post, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrInvalidInput
	}
	post, err := s.repo.CreatePost(ctx, user.ID, body)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("post created", "post_id", post.ID, "user_id", user.ID)
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, sorting model.PostSorting) ([]model.PostWithLikes, error) {
	if sorting == "" {
		sorting = model.SortNew
	}
	if !sorting.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListPosts(ctx, sorting)
}

// GetPostWithComments returns the post, its like count and its comments.
func (s *PostService) GetPostWithComments(ctx context.Context, postID int64) (*model.PostWithComments, error) {
	post, err := s.repo.GetPostWithLikes(ctx, postID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &model.PostWithComments{Post: *post, Comments: comments}, nil
}

func (s *PostService) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	return s.repo.ListComments(ctx, postID)
}

func (s *PostService) CreateComment(ctx context.Context, user *model.User, postID int64, body string) (*model.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comment, err := s.repo.CreateComment(ctx, user.ID, postID, body)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *PostService) LikePost(ctx context.Context, user *model.User, postID int64) (*model.Like, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	like, err := s.repo.CreateLike(ctx, user.ID, postID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return like, nil
}

func (s *PostService) requirePost(ctx context.Context, postID int64) error {
	ok, err := s.repo.PostExists(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}
