// Package server exposes the OAuth flow and the Dexcom data proxy as a REST
// surface consumed by browsers (login) and the MCP service (data).
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/dexbridge/dexbridge/internal/dexcom"
	"github.com/dexbridge/dexbridge/internal/logging"
)

// AuthFlow is the slice of the flow manager the route layer needs.
type AuthFlow interface {
	AuthorizationURL() (url, state string)
	ValidateState(token string) bool
	ExchangeCode(ctx context.Context, code string) error
	IsAuthenticated() bool
	Logout() error
}

// DataClient is the slice of the Dexcom client the data routes need.
type DataClient interface {
	CurrentGlucose(ctx context.Context) (*dexcom.GlucoseReading, error)
	GlucoseValues(ctx context.Context, startDate, endDate string) ([]dexcom.GlucoseReading, error)
	Devices(ctx context.Context) ([]dexcom.Device, error)
	DataRange(ctx context.Context) (*dexcom.DataRange, error)
}

// Server wires handlers to their collaborators.
type Server struct {
	flow   AuthFlow
	client DataClient
	gdb    *gorm.DB
}

// New constructs the server. gdb may be nil to disable the audit log.
func New(flow AuthFlow, client DataClient, gdb *gorm.DB) *Server {
	return &Server{flow: flow, client: client, gdb: gdb}
}

// Router builds the chi router for the whole REST surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(logging.Middleware)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/debug/requests", s.handleRecentRequests)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", s.handleLogin)
		r.Get("/callback", s.handleCallback)
		r.Get("/status", s.handleStatus)
		r.Post("/logout", s.handleLogout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Use(s.audit)
		r.Get("/glucose/current", s.handleCurrentGlucose)
		r.Get("/glucose/range", s.handleGlucoseRange)
		r.Get("/statistics", s.handleStatistics)
		r.Get("/devices", s.handleDevices)
		r.Get("/data-range", s.handleDataRange)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errMsg, message string) {
	writeJSON(w, status, map[string]string{"error": errMsg, "message": message})
}
