package handler

import "net/http"

// NoStore marks responses as uncacheable. Dashboard views change with every
// filter or reload.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
