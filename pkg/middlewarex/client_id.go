package middlewarex

import (
	"net/http"

	"nexaway/pkg/contextx"
)

const headerNameClientID = "X-Client-Id"

// ClientID lifts the caller identity header into the context so handlers
// can attribute writes without re-reading headers.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := r.Header.Get(headerNameClientID)

		if clientID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := contextx.WithClientID(r.Context(), contextx.ClientID(clientID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
