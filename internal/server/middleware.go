package server

import (
	"log"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dexbridge/dexbridge/internal/db"
)

// requireAuth rejects data requests until the OAuth flow has completed.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.flow.IsAuthenticated() {
			writeError(w, http.StatusUnauthorized, "Not authenticated",
				"Please visit /auth/login to authenticate with Dexcom")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// audit records every data request in the SQLite audit log.
func (s *Server) audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.gdb == nil {
			next.ServeHTTP(w, r)
			return
		}

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		errMsg := ""
		if ww.Status() >= http.StatusBadRequest {
			errMsg = http.StatusText(ww.Status())
		}
		if err := db.LogRequest(s.gdb, r.Method, r.URL.Path, ww.Status(), time.Since(start), r.RemoteAddr, errMsg); err != nil {
			log.Printf("⚠️  Failed to write audit row: %v", err)
		}
	})
}
