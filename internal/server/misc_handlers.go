package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dexbridge/dexbridge/internal/db"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "dexbridge"})
}

func (s *Server) handleRecentRequests(w http.ResponseWriter, r *http.Request) {
	if s.gdb == nil {
		writeError(w, http.StatusNotFound, "Audit log disabled", "")
		return
	}
	logs, err := db.RecentRequests(s.gdb, 100)
	if err != nil {
		log.Printf("❌ Error reading audit log: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to read audit log", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"count": len(logs), "requests": logs})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head>
	<title>Dexbridge OAuth Server</title>
	<style>
		body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; max-width: 800px; margin: 40px auto; padding: 20px; line-height: 1.6; }
		.endpoint { background: #f5f5f5; padding: 10px 15px; margin: 10px 0; border-radius: 5px; font-family: monospace; }
		.btn { display: inline-block; background: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; margin-top: 20px; }
	</style>
</head>
<body>
	<h1>🔐 Dexbridge OAuth Server</h1>
	<p>Server is running and ready to authenticate with the Dexcom API.</p>

	<h3>Authentication:</h3>
	<div class="endpoint">GET /auth/login - Start OAuth flow</div>
	<div class="endpoint">GET /auth/callback - OAuth callback</div>
	<div class="endpoint">GET /auth/status - Check auth status</div>
	<div class="endpoint">POST /auth/logout - Clear tokens</div>

	<h3>Data (requires authentication):</h3>
	<div class="endpoint">GET /api/glucose/current - Latest reading</div>
	<div class="endpoint">GET /api/glucose/range?startDate=X&endDate=Y - Historical data</div>
	<div class="endpoint">GET /api/statistics?days=N - Statistics</div>
	<div class="endpoint">GET /api/devices - User devices</div>
	<div class="endpoint">GET /api/data-range - Available data range</div>

	<a href="/auth/login" class="btn">🚀 Authenticate with Dexcom</a>
</body>
</html>`)
}
