// Package oauth drives the Dexcom authorization-code flow: building the
// authorization redirect, exchanging codes for tokens, refreshing expired
// access tokens and answering "give me a currently-valid token".
package oauth

import (
	"context"
	"errors"
	"log"

	"golang.org/x/oauth2"

	"github.com/dexbridge/dexbridge/internal/auth/state"
	"github.com/dexbridge/dexbridge/internal/auth/tokenstore"
	"github.com/dexbridge/dexbridge/internal/config"
)

// Exported errors are deliberately generic: the vendor's error detail is
// logged but never propagated past this package.
var (
	ErrExchangeFailed = errors.New("failed to exchange authorization code for token")
	ErrRefreshFailed  = errors.New("failed to refresh access token")
	ErrNoRefreshToken = errors.New("no refresh token available")
)

// Manager owns the credential lifecycle. It has no in-memory token cache;
// the encrypted store is the single source of truth.
type Manager struct {
	oauth    *oauth2.Config
	store    *tokenstore.Store
	states   *state.Registry
	mockMode bool
}

// NewManager wires the flow manager to its store and state registry.
func NewManager(cfg *config.Config, store *tokenstore.Store, states *state.Registry) *Manager {
	return &Manager{
		oauth: &oauth2.Config{
			ClientID:     cfg.Dexcom.ClientID,
			ClientSecret: cfg.Dexcom.ClientSecret,
			RedirectURL:  cfg.Dexcom.RedirectURI,
			Scopes:       cfg.Dexcom.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL(),
				TokenURL: cfg.TokenURL(),
				// Dexcom wants client_id/client_secret in the form body.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		store:    store,
		states:   states,
		mockMode: cfg.MockMode,
	}
}

// AuthorizationURL issues a fresh CSRF state token and returns the vendor
// authorization URL embedding it, along with the raw state.
func (m *Manager) AuthorizationURL() (url, stateToken string) {
	stateToken = m.states.Issue()
	return m.oauth.AuthCodeURL(stateToken), stateToken
}

// ValidateState consumes the callback's state parameter.
func (m *Manager) ValidateState(token string) bool {
	return m.states.Validate(token)
}

// ExchangeCode trades an authorization code for tokens and writes the
// credential record through the store.
func (m *Manager) ExchangeCode(ctx context.Context, code string) error {
	tok, err := m.oauth.Exchange(ctx, code)
	if err != nil {
		log.Printf("❌ Code exchange failed: %v", err)
		return ErrExchangeFailed
	}

	rec := tokenstore.Record{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		// Expiry was computed by the oauth2 client from expires_in at
		// the moment the response arrived.
		ExpiresAt: tok.Expiry,
	}
	if err := m.store.Save(rec); err != nil {
		return err
	}
	log.Printf("✅ OAuth tokens obtained and saved")
	return nil
}

// RefreshAccessToken exchanges the stored refresh token for a new access
// token and overwrites the record. On failure the stale record is left in
// place for diagnosis.
func (m *Manager) RefreshAccessToken(ctx context.Context) (string, error) {
	rec, err := m.store.Load()
	if err != nil {
		return "", err
	}
	if rec == nil || rec.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	src := m.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: rec.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		log.Printf("❌ Token refresh failed: %v", err)
		return "", ErrRefreshFailed
	}

	refresh := tok.RefreshToken
	if refresh == "" {
		// Some vendors omit a new refresh token; carry the old one forward.
		refresh = rec.RefreshToken
	}
	if err := m.store.Save(tokenstore.Record{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    tok.Expiry,
	}); err != nil {
		return "", err
	}
	log.Printf("✅ Access token refreshed (expires %s)", tok.Expiry.Format("15:04:05"))
	return tok.AccessToken, nil
}

// ValidAccessToken returns a token safe to use right now, refreshing at most
// once. It never returns an error: an empty string means "no token", a
// first-class outcome the caller handles (the vendor API will reject the
// unauthenticated request on its own).
func (m *Manager) ValidAccessToken(ctx context.Context) string {
	if m.mockMode {
		return "mock-token"
	}

	if m.store.IsValid() {
		rec, err := m.store.Load()
		if err == nil && rec != nil {
			return rec.AccessToken
		}
	}

	token, err := m.RefreshAccessToken(ctx)
	if err != nil {
		log.Printf("⚠️  Could not obtain a valid access token: %v", err)
		return ""
	}
	return token
}

// IsAuthenticated reports whether a credential record is loadable. An
// expired-but-refreshable record still counts.
func (m *Manager) IsAuthenticated() bool {
	if m.mockMode {
		return true
	}
	rec, err := m.store.Load()
	return err == nil && rec != nil
}

// Logout clears the stored credential.
func (m *Manager) Logout() error {
	return m.store.Clear()
}
