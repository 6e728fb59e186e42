package middleware

import "net/http"

// NewMaxBodySizeHandler returns a middleware that limits incoming request
// body sizes to limit bytes. Imported backup documents are the only large
// payloads this server accepts, so the limit doubles as an import size cap.
//
// http.MaxBytesReader makes the wrapped body return an error once the limit
// is crossed; the JSON decoder in the handler surfaces that as a normal
// decode failure.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
