package model

type PostRequest struct {
	Body string `json:"body" binding:"required"`
}

type Post struct {
	ID     int64  `json:"id"`
	Body   string `json:"body"`
	UserID int64  `json:"user_id"`
}

type PostWithLikes struct {
	Post
	Likes int64 `json:"likes"`
}

type CommentRequest struct {
	Body   string `json:"body" binding:"required"`
	PostID int64  `json:"post_id" binding:"required"`
}

type Comment struct {
	ID     int64  `json:"id"`
	Body   string `json:"body"`
	PostID int64  `json:"post_id"`
	UserID int64  `json:"user_id"`
}

type PostWithComments struct {
	Post     PostWithLikes `json:"post"`
	Comments []Comment     `json:"comments"`
}

type LikeRequest struct {
	PostID int64 `json:"post_id" binding:"required"`
}

type Like struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}

// PostSorting is the order GET /post returns posts in.
type PostSorting string

const (
	SortNew       PostSorting = "new"
	SortOld       PostSorting = "old"
	SortMostLikes PostSorting = "most_likes"
)

func (s PostSorting) Valid() bool {
	switch s {
	case SortNew, SortOld, SortMostLikes:
		return true
	}
	return false
}
