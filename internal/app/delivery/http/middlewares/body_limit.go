package middlewares

import (
	"net/http"
	"strings"

	"oncobilling-service/internal/pkg/constvars"
)

// BodyLimit caps JSON request bodies at App.RequestBodyLimitInMegabyte.
// Multipart uploads are limited by their own handler.
func (m *Middlewares) BodyLimit(next http.Handler) http.Handler {
	limit := int64(m.InternalConfig.App.RequestBodyLimitInMegabyte) * 1024 * 1024
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limit > 0 && r.Body != nil && !strings.HasPrefix(r.Header.Get(constvars.HeaderContentType), constvars.MIMEMultipartFormData) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
