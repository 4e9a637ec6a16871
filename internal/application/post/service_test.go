package post

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/9778060/socialapi/internal/domain"
)

type fakePostRepo struct {
	mu sync.Mutex

	posts    map[int64]domain.Post
	comments map[int64][]domain.Comment
	likes    map[int64][]domain.PostLike
	nextID   int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:    map[int64]domain.Post{},
		comments: map[int64][]domain.Comment{},
		likes:    map[int64][]domain.PostLike{},
	}
}

func (f *fakePostRepo) Create(ctx context.Context, p domain.Post) (domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakePostRepo) GetWithLikes(ctx context.Context, id int64) (domain.PostWithLikes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.posts[id]
	if !ok {
		return domain.PostWithLikes{}, domain.ErrPostNotFound()
	}
	return domain.PostWithLikes{Post: p, Likes: int64(len(f.likes[id]))}, nil
}

func (f *fakePostRepo) ListWithLikes(ctx context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.PostWithLikes, 0, len(f.posts))
	for id, p := range f.posts {
		out = append(out, domain.PostWithLikes{Post: p, Likes: int64(len(f.likes[id]))})
	}
	switch sorting {
	case domain.SortOld:
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	case domain.SortMostLikes:
		sort.Slice(out, func(i, j int) bool { return out[i].Likes > out[j].Likes })
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	}
	return out, nil
}

func (f *fakePostRepo) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	f.comments[c.PostID] = append(f.comments[c.PostID], c)
	return c, nil
}

func (f *fakePostRepo) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Comment(nil), f.comments[postID]...), nil
}

func (f *fakePostRepo) CreateLike(ctx context.Context, l domain.PostLike) (domain.PostLike, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	l.ID = f.nextID
	f.likes[l.PostID] = append(f.likes[l.PostID], l)
	return l, nil
}

func newTestService(repo *fakePostRepo) *Service {
	return NewService(repo, zerolog.Nop())
}

var alice = domain.User{ID: 1, Email: "alice@test.com", Confirmed: true}

func TestCreatePost(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakePostRepo())
	p, err := svc.CreatePost(context.Background(), alice, "hello")
	if err != nil {
		t.Fatalf("create err: %v", err)
	}
	if p.ID == 0 || p.UserID != alice.ID || p.Body != "hello" {
		t.Fatalf("unexpected post: %+v", p)
	}
}

func TestCreatePost_EmptyBody(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakePostRepo())
	_, err := svc.CreatePost(context.Background(), alice, "   ")
	if !domain.Is(err, "missing_field") {
		t.Fatalf("expected missing_field, got %v", err)
	}
}

func TestListPosts_Sorting(t *testing.T) {
	t.Parallel()

	repo := newFakePostRepo()
	svc := newTestService(repo)

	p1, _ := svc.CreatePost(context.Background(), alice, "first")
	p2, _ := svc.CreatePost(context.Background(), alice, "second")
	p3, _ := svc.CreatePost(context.Background(), alice, "third")
	if _, err := svc.LikePost(context.Background(), alice, p2.ID); err != nil {
		t.Fatalf("like err: %v", err)
	}

	newFirst, err := svc.ListPosts(context.Background(), "new")
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if newFirst[0].ID != p3.ID {
		t.Fatalf("new: expected %d first, got %d", p3.ID, newFirst[0].ID)
	}

	oldFirst, err := svc.ListPosts(context.Background(), "old")
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if oldFirst[0].ID != p1.ID {
		t.Fatalf("old: expected %d first, got %d", p1.ID, oldFirst[0].ID)
	}

	liked, err := svc.ListPosts(context.Background(), "most_likes")
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if liked[0].ID != p2.ID || liked[0].Likes != 1 {
		t.Fatalf("most_likes: expected %d with 1 like first, got %+v", p2.ID, liked[0])
	}
}

func TestListPosts_DefaultSorting(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakePostRepo())
	if _, err := svc.ListPosts(context.Background(), ""); err != nil {
		t.Fatalf("empty sorting must default, got %v", err)
	}
}

func TestListPosts_InvalidSorting(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakePostRepo())
	_, err := svc.ListPosts(context.Background(), "hot")
	if !domain.Is(err, "invalid_field") {
		t.Fatalf("expected invalid_field, got %v", err)
	}
}

func TestGetPost_WithCommentsAndLikes(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakePostRepo())
	p, _ := svc.CreatePost(context.Background(), alice, "hello")
	if _, err := svc.CreateComment(context.Background(), alice, p.ID, "nice"); err != nil {
		t.Fatalf("comment err: %v", err)
	}
	if _, err := svc.LikePost(context.Background(), alice, p.ID); err != nil {
		t.Fatalf("like err: %v", err)
	}

	detail, err := svc.GetPost(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get err: %v", err)
	}
	if detail.Post.ID != p.ID || detail.Post.Likes != 1 {
		t.Fatalf("unexpected post: %+v", detail.Post)
	}
	if len(detail.Comments) != 1 || detail.Comments[0].Body != "nice" {
		t.Fatalf("unexpected comments: %+v", detail.Comments)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakePostRepo())
	_, err := svc.GetPost(context.Background(), 42)
	if !domain.Is(err, "post_not_found") {
		t.Fatalf("expected post_not_found, got %v", err)
	}
}

func TestCreateComment_UnknownPost(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakePostRepo())
	_, err := svc.CreateComment(context.Background(), alice, 42, "nice")
	if !domain.Is(err, "post_not_found") {
		t.Fatalf("expected post_not_found, got %v", err)
	}
}

func TestLikePost_UnknownPost(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakePostRepo())
	_, err := svc.LikePost(context.Background(), alice, 42)
	if !domain.Is(err, "post_not_found") {
		t.Fatalf("expected post_not_found, got %v", err)
	}
}
