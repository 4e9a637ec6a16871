package post

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/9778060/socialapi/internal/domain"
)

// Service implements the posting surface: posts, comments and likes. All
// writes require an already-resolved principal; the transport layer is
// responsible for authenticating it.
type Service struct {
	posts PostRepo
	lg    zerolog.Logger
}

func NewService(posts PostRepo, lg zerolog.Logger) *Service {
	return &Service{posts: posts, lg: lg}
}

// PostDetail is a single post with its like count and comments.
type PostDetail struct {
	Post     domain.PostWithLikes
	Comments []domain.Comment
}

func (s *Service) CreatePost(ctx context.Context, user domain.User, body string) (domain.Post, error) {
	if strings.TrimSpace(body) == "" {
		return domain.Post{}, domain.ErrMissingField("body")
	}

	created, err := s.posts.Create(ctx, domain.Post{UserID: user.ID, Body: body})
	if err != nil {
		return domain.Post{}, err
	}

	s.lg.Info().Int64("post_id", created.ID).Int64("user_id", user.ID).Msg("post created")
	return created, nil
}

func (s *Service) ListPosts(ctx context.Context, sorting string) ([]domain.PostWithLikes, error) {
	if sorting == "" {
		sorting = string(domain.SortNew)
	}
	if !domain.ValidSorting(sorting) {
		return nil, domain.ErrInvalidField("sorting", "must be one of new, old, most_likes")
	}
	return s.posts.ListWithLikes(ctx, domain.PostSorting(sorting))
}

func (s *Service) GetPost(ctx context.Context, id int64) (PostDetail, error) {
	p, err := s.posts.GetWithLikes(ctx, id)
	if err != nil {
		return PostDetail{}, err
	}
	comments, err := s.posts.ListComments(ctx, id)
	if err != nil {
		return PostDetail{}, err
	}
	return PostDetail{Post: p, Comments: comments}, nil
}

func (s *Service) CreateComment(ctx context.Context, user domain.User, postID int64, body string) (domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return domain.Comment{}, domain.ErrMissingField("body")
	}
	if _, err := s.posts.GetWithLikes(ctx, postID); err != nil {
		return domain.Comment{}, err
	}

	return s.posts.CreateComment(ctx, domain.Comment{PostID: postID, UserID: user.ID, Body: body})
}

func (s *Service) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	return s.posts.ListComments(ctx, postID)
}

func (s *Service) LikePost(ctx context.Context, user domain.User, postID int64) (domain.PostLike, error) {
	if _, err := s.posts.GetWithLikes(ctx, postID); err != nil {
		return domain.PostLike{}, err
	}
	return s.posts.CreateLike(ctx, domain.PostLike{PostID: postID, UserID: user.ID})
}
