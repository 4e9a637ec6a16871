package media

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/9778060/socialapi/internal/domain"
)

// ObjectStore abstracts the blob backend; the S3 client implements it.
type ObjectStore interface {
	// Put stores the object under key and returns its public URL.
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

type Service struct {
	store ObjectStore
	lg    zerolog.Logger
}

func NewService(store ObjectStore, lg zerolog.Logger) *Service {
	return &Service{store: store, lg: lg}
}

// Upload stores a user supplied file and returns its URL. The filename is
// flattened to its base name so clients cannot steer the object key.
func (s *Service) Upload(ctx context.Context, user domain.User, filename string, contentType string, body io.Reader) (string, error) {
	name := sanitizeName(filename)
	if name == "" {
		return "", domain.ErrMissingField("file")
	}

	url, err := s.store.Put(ctx, name, contentType, body)
	if err != nil {
		s.lg.Error().Err(err).Str("file", name).Int64("user_id", user.ID).Msg("upload failed")
		return "", domain.ErrUploadFailed(err)
	}

	s.lg.Info().Str("file", name).Int64("user_id", user.ID).Msg("file uploaded")
	return url, nil
}

func sanitizeName(filename string) string {
	name := strings.TrimSpace(filename)
	// strip any path components, whichever separator the client used
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
