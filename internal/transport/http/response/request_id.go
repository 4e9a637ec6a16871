package response

import (
	"net/http"

	appctx "github.com/9778060/socialapi/internal/pkg/context"
)

// RequestIDFromContext extracts the request id set by the middleware, if any.
func RequestIDFromContext(r *http.Request) string {
	if id, ok := appctx.RequestID(r.Context()); ok {
		return id
	}
	return ""
}
