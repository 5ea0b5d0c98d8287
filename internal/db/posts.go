package db

import (
	"context"
	"fmt"

	"github.com/storeapi/backend/internal/model"
)

const selectPostsWithLikes = `
	SELECT p.id, p.body, p.user_id, COUNT(l.id) AS likes
	FROM posts p
	LEFT JOIN likes l ON l.post_id = p.id
`

var postOrderBy = map[model.PostSorting]string{
	model.SortNew:       `ORDER BY p.id DESC`,
	model.SortOld:       `ORDER BY p.id ASC`,
	model.SortMostLikes: `ORDER BY likes DESC, p.id DESC`,
}

func (db *Postgres) CreatePost(ctx context.Context, userID int64, body string) (*model.Post, error) {
	query := `
		INSERT INTO posts (body, user_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, body, user_id
	`
	var p model.Post
	if err := db.DB.QueryRowContext(ctx, query, body, userID).Scan(&p.ID, &p.Body, &p.UserID); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &p, nil
}

func (db *Postgres) ListPosts(ctx context.Context, sorting model.PostSorting) ([]model.PostWithLikes, error) {
	orderBy, ok := postOrderBy[sorting]
	if !ok {
		return nil, fmt.Errorf("unsupported sorting: %s", sorting)
	}
	query := selectPostsWithLikes + ` GROUP BY p.id ` + orderBy

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	list := []model.PostWithLikes{}
	for rows.Next() {
		var p model.PostWithLikes
		if err := rows.Scan(&p.ID, &p.Body, &p.UserID, &p.Likes); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (db *Postgres) GetPostWithLikes(ctx context.Context, postID int64) (*model.PostWithLikes, error) {
	query := selectPostsWithLikes + ` WHERE p.id = $1 GROUP BY p.id`

	var p model.PostWithLikes
	err := db.DB.QueryRowContext(ctx, query, postID).Scan(&p.ID, &p.Body, &p.UserID, &p.Likes)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &p, nil
}

func (db *Postgres) PostExists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := db.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check post: %w", err)
	}
	return exists, nil
}

// CreateComment returns ErrNotFound when the post does not exist.
func (db *Postgres) CreateComment(ctx context.Context, userID, postID int64, body string) (*model.Comment, error) {
	query := `
		INSERT INTO comments (body, post_id, user_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, body, post_id, user_id
	`
	var c model.Comment
	err := db.DB.QueryRowContext(ctx, query, body, postID, userID).Scan(&c.ID, &c.Body, &c.PostID, &c.UserID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &c, nil
}

func (db *Postgres) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	query := `
		SELECT id, body, post_id, user_id
		FROM comments
		WHERE post_id = $1
		ORDER BY id ASC
	`
	rows, err := db.DB.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	list := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Body, &c.PostID, &c.UserID); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CreateLike returns ErrNotFound when the post does not exist.
func (db *Postgres) CreateLike(ctx context.Context, userID, postID int64) (*model.Like, error) {
	query := `
		INSERT INTO likes (post_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, post_id, user_id
	`
	var l model.Like
	err := db.DB.QueryRowContext(ctx, query, postID, userID).Scan(&l.ID, &l.PostID, &l.UserID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create like: %w", err)
	}
	return &l, nil
}
