package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/pacelink/pkg"
)

// LogRequest writes one trace entry per request once the handler is done.
// Query strings are left out since public links carry slugs in the path only.
func LogRequest() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !log.IsLevelEnabled(log.TraceLevel) {
				next.ServeHTTP(w, r)
				return
			}

			started := time.Now()
			sr := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sr, r)

			fields := log.Fields{
				"method":   r.Method,
				"route":    routeName(r),
				"path":     r.URL.Path,
				"status":   sr.statusCode,
				"duration": time.Since(started).String(),
				"ua":       r.Header.Get("User-Agent"),
			}
			if ip, err := pkg.ReadUserIP(r); err == nil {
				fields["ip"] = ip
			}
			log.WithFields(fields).Trace("request served")
		})
	}
}
