package dto

import (
	"time"

	"github.com/9778060/socialapi/internal/domain"
)

// -------- Requests --------

type CreatePostRequest struct {
	Body string `json:"body" validate:"required"`
}

func (r *CreatePostRequest) Validate() error { return check(r) }

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required"`
}

func (r *CreateCommentRequest) Validate() error { return check(r) }

// -------- Views --------

type PostView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int64     `json:"likes"`
}

type CommentView struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type PostDetailView struct {
	Post     PostView      `json:"post"`
	Comments []CommentView `json:"comments"`
}

type LikeView struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}

func NewPostView(p domain.PostWithLikes) PostView {
	return PostView{
		ID:        p.ID,
		UserID:    p.UserID,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		Likes:     p.Likes,
	}
}

func NewCommentView(c domain.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func NewCommentViews(cs []domain.Comment) []CommentView {
	out := make([]CommentView, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCommentView(c))
	}
	return out
}
