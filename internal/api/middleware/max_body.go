package middleware

import (
	"net/http"

	"github.com/cloo-solutions/jobfinder/internal/api"
)

// MaxBodyBytes caps request bodies at limit bytes. A declared length over the
// cap is refused before the handler runs; a body of unknown length fails when
// the handler reads past the cap. A limit of zero or less disables the cap.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Body == nil || r.Body == http.NoBody:
			case r.ContentLength > limit:
				api.Error(w, http.StatusRequestEntityTooLarge, api.MsgBodyTooLarge)
				return
			default:
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
