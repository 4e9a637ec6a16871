package handlers

import (
	"fmt"
	"net/http"

	"github.com/9778060/socialapi/internal/application/media"
	"github.com/9778060/socialapi/internal/domain"
	"github.com/9778060/socialapi/internal/transport/http/dto"
	"github.com/9778060/socialapi/internal/transport/http/middleware"
	"github.com/9778060/socialapi/internal/transport/http/response"
)

// maxUploadBytes caps multipart memory buffering; larger parts spill to disk.
const maxUploadBytes = 32 << 20

type FileHandler struct {
	svc *media.Service
}

func NewFileHandler(svc *media.Service) *FileHandler {
	return &FileHandler{svc: svc}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.WriteError(w, r, domain.ErrInvalidField("file", "invalid multipart body"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.WriteError(w, r, domain.ErrMissingField("file"))
		return
	}
	defer file.Close()

	url, err := h.svc.Upload(r.Context(), u, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, dto.UploadResponse{
		Detail:  fmt.Sprintf("Successfully uploaded %s", header.Filename),
		FileURL: url,
	})
}
