package handlers

import (
	"strconv"

	"github.com/9778060/socialapi/internal/domain"
)

func isCode(err error, code string) bool { return domain.Is(err, code) }

func domainTokenInvalid() error { return domain.ErrTokenInvalid() }

// parseID parses a positive int64 route parameter.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidField("id", "must be a positive integer")
	}
	return id, nil
}
