package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/dexbridge/dexbridge/internal/auth/oauth"
	"github.com/dexbridge/dexbridge/internal/auth/state"
	"github.com/dexbridge/dexbridge/internal/auth/tokenstore"
	"github.com/dexbridge/dexbridge/internal/config"
	"github.com/dexbridge/dexbridge/internal/db"
	"github.com/dexbridge/dexbridge/internal/dexcom"
	"github.com/dexbridge/dexbridge/internal/server"
	"github.com/dexbridge/dexbridge/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var gdb *gorm.DB
	if cfg.AuditDBPath != "" {
		gdb, err = db.InitDB(cfg.AuditDBPath)
		if err != nil {
			log.Fatalf("Failed to initialize audit database: %v", err)
		}
	}

	store := tokenstore.New(cfg.TokenStoragePath, cfg.TokenEncryptionKey)
	states := state.NewRegistry()
	states.StartSweep(5 * time.Minute)

	flow := oauth.NewManager(cfg, store, states)
	client := dexcom.NewClient(cfg.Dexcom.BaseURL, flow, cfg.MockMode)

	srv := server.New(flow, client, gdb)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Printf("🚀 Dexbridge OAuth Server %s starting on http://%s", version.Version, addr)
	log.Printf("🌍 Dexcom environment: %s (%s)", cfg.Dexcom.Env, cfg.Dexcom.BaseURL)
	if cfg.MockMode {
		log.Printf("🧪 Mock mode enabled: no real Dexcom calls will be made")
	}

	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
