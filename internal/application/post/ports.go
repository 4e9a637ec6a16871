package post

import (
	"context"

	"github.com/9778060/socialapi/internal/domain"
)

// PostRepo abstracts post storage so the service can be unit tested
// without a database.
type PostRepo interface {
	Create(ctx context.Context, p domain.Post) (domain.Post, error)
	// GetWithLikes returns post_not_found when no row matches.
	GetWithLikes(ctx context.Context, id int64) (domain.PostWithLikes, error)
	ListWithLikes(ctx context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error)

	CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]domain.Comment, error)

	CreateLike(ctx context.Context, l domain.PostLike) (domain.PostLike, error)
}
