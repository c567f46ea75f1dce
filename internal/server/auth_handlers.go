package server

import (
	"fmt"
	"log"
	"net/http"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	url, _ := s.flow.AuthorizationURL()
	log.Printf("🔐 Initiating OAuth flow, redirecting to Dexcom")
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if vendorErr := q.Get("error"); vendorErr != "" {
		log.Printf("❌ OAuth error from vendor: %s", vendorErr)
		writeCallbackHTML(w, http.StatusBadRequest, "❌ Authentication Failed",
			"The authorization server reported an error: "+vendorErr)
		return
	}

	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		writeCallbackHTML(w, http.StatusBadRequest, "❌ Invalid Request",
			"Missing authorization code or state parameter")
		return
	}

	if !s.flow.ValidateState(state) {
		log.Printf("❌ State validation failed, possible CSRF attempt")
		writeCallbackHTML(w, http.StatusBadRequest, "❌ Security Error",
			"Invalid state parameter - possible CSRF attack")
		return
	}

	if err := s.flow.ExchangeCode(r.Context(), code); err != nil {
		writeCallbackHTML(w, http.StatusInternalServerError, "❌ Token Exchange Failed",
			"Could not exchange the authorization code for tokens. Try again.")
		return
	}

	writeCallbackHTML(w, http.StatusOK, "✅ Authentication Successful!",
		"Your tokens have been securely saved. You can close this window and use the MCP server.")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	authenticated := s.flow.IsAuthenticated()
	message := "User needs to authenticate - visit /auth/login"
	if authenticated {
		message = "User is authenticated"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": authenticated,
		"message":       message,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.flow.Logout(); err != nil {
		log.Printf("❌ Logout failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to logout", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func writeCallbackHTML(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, sans-serif; padding: 40px; text-align: center;">
	<h1>%s</h1>
	<p>%s</p>
	<a href="/auth/login">Try Again</a>
</body>
</html>`, title, detail)
}
