package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/9778060/socialapi/internal/domain"
)

type PostRepo struct {
	db *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

// ---------- post.PostRepo ----------

func (r *PostRepo) Create(ctx context.Context, p domain.Post) (domain.Post, error) {
	const q = `
INSERT INTO posts (user_id, body)
VALUES ($1, $2)
RETURNING id, user_id, body, created_at;
`
	var out domain.Post
	err := r.db.QueryRowContext(ctx, q, p.UserID, p.Body).Scan(
		&out.ID,
		&out.UserID,
		&out.Body,
		&out.CreatedAt,
	)
	if err != nil {
		return domain.Post{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *PostRepo) GetWithLikes(ctx context.Context, id int64) (domain.PostWithLikes, error) {
	const q = `
SELECT p.id, p.user_id, p.body, p.created_at, COUNT(l.id) AS likes
FROM posts p
LEFT JOIN likes l ON l.post_id = p.id
WHERE p.id = $1
GROUP BY p.id;
`
	var out domain.PostWithLikes
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&out.ID,
		&out.UserID,
		&out.Body,
		&out.CreatedAt,
		&out.Likes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PostWithLikes{}, domain.ErrPostNotFound()
		}
		return domain.PostWithLikes{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

// orderClause maps a validated sorting to SQL. The sorting value never comes
// from the client directly; the service validates it first.
func orderClause(sorting domain.PostSorting) string {
	switch sorting {
	case domain.SortOld:
		return "p.id ASC"
	case domain.SortMostLikes:
		return "likes DESC, p.id DESC"
	default:
		return "p.id DESC"
	}
}

func (r *PostRepo) ListWithLikes(ctx context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error) {
	q := `
SELECT p.id, p.user_id, p.body, p.created_at, COUNT(l.id) AS likes
FROM posts p
LEFT JOIN likes l ON l.post_id = p.id
GROUP BY p.id
ORDER BY ` + orderClause(sorting) + `;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.PostWithLikes, 0)
	for rows.Next() {
		var p domain.PostWithLikes
		if err := rows.Scan(&p.ID, &p.UserID, &p.Body, &p.CreatedAt, &p.Likes); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *PostRepo) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	const q = `
INSERT INTO comments (post_id, user_id, body)
VALUES ($1, $2, $3)
RETURNING id, post_id, user_id, body, created_at;
`
	var out domain.Comment
	err := r.db.QueryRowContext(ctx, q, c.PostID, c.UserID, c.Body).Scan(
		&out.ID,
		&out.PostID,
		&out.UserID,
		&out.Body,
		&out.CreatedAt,
	)
	if err != nil {
		return domain.Comment{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *PostRepo) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	const q = `
SELECT id, post_id, user_id, body, created_at
FROM comments
WHERE post_id = $1
ORDER BY id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, postID)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Body, &c.CreatedAt); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *PostRepo) CreateLike(ctx context.Context, l domain.PostLike) (domain.PostLike, error) {
	const q = `
INSERT INTO likes (post_id, user_id)
VALUES ($1, $2)
RETURNING id, post_id, user_id;
`
	var out domain.PostLike
	err := r.db.QueryRowContext(ctx, q, l.PostID, l.UserID).Scan(
		&out.ID,
		&out.PostID,
		&out.UserID,
	)
	if err != nil {
		return domain.PostLike{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
