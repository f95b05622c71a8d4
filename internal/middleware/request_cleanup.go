package middleware

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

// maxDrainBytes bounds how much of an unread body is discarded to keep the
// connection reusable; anything larger is left for net/http to close.
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest caps the request body at maxBodyBytes and, once the
// handler returns, drains what it left unread and closes the body.
func DrainAndCloseRequest(maxBodyBytes int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			body := r.Body
			if maxBodyBytes > 0 {
				r.Body = http.MaxBytesReader(w, body, maxBodyBytes)
			}
			next.ServeHTTP(w, r)

			_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
			_ = body.Close()
		})
	}
}
