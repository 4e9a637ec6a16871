package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/9778060/socialapi/internal/application/auth"
	"github.com/9778060/socialapi/internal/application/media"
	"github.com/9778060/socialapi/internal/application/post"
	"github.com/9778060/socialapi/internal/domain"
	"github.com/9778060/socialapi/internal/infrastructure/memory"
	"github.com/9778060/socialapi/internal/infrastructure/security"
	"github.com/9778060/socialapi/internal/transport/http/middleware"
	"github.com/9778060/socialapi/internal/transport/http/response"
	"github.com/9778060/socialapi/internal/transport/http/router"
)

// -------------------------
// Test wiring (pure unit)
// -------------------------

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]domain.User{}}
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.User{}, domain.ErrUserExists()
	}
	r.nextID++
	u.ID = r.nextID
	r.byEmail[u.Email] = u
	return u, nil
}

func (r *fakeUserRepo) SetConfirmed(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.Confirmed = true
	r.byEmail[email] = u
	return nil
}

type fakePostRepo struct {
	mu       sync.Mutex
	posts    map[int64]domain.Post
	comments map[int64][]domain.Comment
	likes    map[int64]int64
	nextID   int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:    map[int64]domain.Post{},
		comments: map[int64][]domain.Comment{},
		likes:    map[int64]int64{},
	}
}

func (r *fakePostRepo) Create(ctx context.Context, p domain.Post) (domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.posts[p.ID] = p
	return p, nil
}

func (r *fakePostRepo) GetWithLikes(ctx context.Context, id int64) (domain.PostWithLikes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return domain.PostWithLikes{}, domain.ErrPostNotFound()
	}
	return domain.PostWithLikes{Post: p, Likes: r.likes[id]}, nil
}

func (r *fakePostRepo) ListWithLikes(ctx context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.PostWithLikes, 0, len(r.posts))
	for id, p := range r.posts {
		out = append(out, domain.PostWithLikes{Post: p, Likes: r.likes[id]})
	}
	return out, nil
}

func (r *fakePostRepo) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	r.comments[c.PostID] = append(r.comments[c.PostID], c)
	return c, nil
}

func (r *fakePostRepo) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Comment(nil), r.comments[postID]...), nil
}

func (r *fakePostRepo) CreateLike(ctx context.Context, l domain.PostLike) (domain.PostLike, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l.ID = r.nextID
	r.likes[l.PostID]++
	return l, nil
}

type fakeObjectStore struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (s *fakeObjectStore) Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://files.test/" + key, nil
}

type testEnv struct {
	handler http.Handler
	codec   *security.TokenCodec
	users   *fakeUserRepo
	posts   *fakePostRepo
	store   *fakeObjectStore
	authSvc *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	lg := zerolog.Nop()
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	store := &fakeObjectStore{}
	codec := security.NewTokenCodec("test-secret", "socialapi")

	authSvc := auth.NewService(users, security.NewBcryptHasher(4), codec, memory.NewNoopPublisher(lg), auth.Config{
		AccessTTL:      5 * time.Minute,
		ConfirmTTL:     5 * time.Minute,
		ConfirmBaseURL: "http://localhost:8080/confirm?token=",
	}, lg)

	h, err := router.New(router.Deps{
		Health: NewHealthHandler(nil),
		Auth:   NewAuthHandler(authSvc),
		Post:   NewPostHandler(post.NewService(posts, lg)),
		File:   NewFileHandler(media.NewService(store, lg)),
		AuthMW: middleware.Auth(authSvc, response.WriteError),
		Base:   []func(http.Handler) http.Handler{middleware.RequestID},
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	return &testEnv{handler: h, codec: codec, users: users, posts: posts, store: store, authSvc: authSvc}
}

func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s", string(raw))
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil && headers["Content-Type"] == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns its id.
func (e *testEnv) register(t *testing.T, email, password string) int64 {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/register", mustJSONBody(t, map[string]string{
		"email": email, "password": password,
	}), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		ID int64 `json:"id"`
	}
	mustReadJSON(t, rec.Body, &out)
	return out.ID
}

// confirm flips the account via the confirm endpoint with a real token.
func (e *testEnv) confirm(t *testing.T, email string) {
	t.Helper()
	token, err := e.codec.Issue(email, auth.PurposeConfirmation, time.Minute)
	if err != nil {
		t.Fatalf("issue confirmation token: %v", err)
	}
	rec := e.do(t, http.MethodGet, "/confirm/"+token, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d body=%s", rec.Code, rec.Body.String())
	}
}

// login returns a bearer token for the account.
func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/login", mustJSONBody(t, map[string]string{
		"email": email, "password": password,
	}), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	mustReadJSON(t, rec.Body, &out)
	return out.AccessToken
}

func errCode(t *testing.T, body io.Reader) string {
	t.Helper()
	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	mustReadJSON(t, body, &out)
	return out.Error.Code
}
