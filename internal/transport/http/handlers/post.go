package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/9778060/socialapi/internal/application/post"
	"github.com/9778060/socialapi/internal/domain"
	"github.com/9778060/socialapi/internal/transport/http/dto"
	"github.com/9778060/socialapi/internal/transport/http/middleware"
	"github.com/9778060/socialapi/internal/transport/http/response"
)

type PostHandler struct {
	svc *post.Service
}

func NewPostHandler(svc *post.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.CreatePostRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	p, err := h.svc.CreatePost(r.Context(), u, req.Body)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, dto.NewPostView(domain.PostWithLikes{Post: p}))
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context(), r.URL.Query().Get("sorting"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	views := make([]dto.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, dto.NewPostView(p))
	}
	response.OK(w, views)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	detail, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.PostDetailView{
		Post:     dto.NewPostView(detail.Post),
		Comments: dto.NewCommentViews(detail.Comments),
	})
}

func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.CreateComment(r.Context(), u, id, req.Body)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, dto.NewCommentView(c))
}

func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	comments, err := h.svc.ListComments(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewCommentViews(comments))
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	l, err := h.svc.LikePost(r.Context(), u, id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, dto.LikeView{ID: l.ID, PostID: l.PostID, UserID: l.UserID})
}
