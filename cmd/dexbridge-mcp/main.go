package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dexbridge/dexbridge/internal/config"
	"github.com/dexbridge/dexbridge/internal/mcpserver"
	"github.com/dexbridge/dexbridge/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	transport := flag.String("transport", "stdio", "transport to serve on: stdio or http")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gw := mcpserver.NewGateway(cfg.OAuthServerURL)

	// A cold token store is not fatal: the agent can still call tools and
	// will get the login instructions back as an error.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	ok, msg, err := gw.AuthStatus(ctx)
	cancel()
	switch {
	case err != nil:
		log.Printf("⚠️ OAuth server not reachable at %s: %v", cfg.OAuthServerURL, err)
	case !ok:
		log.Printf("⚠️ Not authenticated with Dexcom: %s", msg)
	default:
		log.Printf("✅ Authenticated with Dexcom")
	}

	s := mcpserver.NewServer(gw, version.Version)

	switch *transport {
	case "stdio":
		log.Printf("🚀 Dexbridge MCP Server %s serving on stdio", version.Version)
		if err := server.ServeStdio(s); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case "http":
		addr := fmt.Sprintf(":%d", cfg.MCPPort)
		log.Printf("🚀 Dexbridge MCP Server %s serving on http://localhost%s/mcp", version.Version, addr)
		if err := server.NewStreamableHTTPServer(s).Start(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	default:
		log.Fatalf("Unknown transport %q (want stdio or http)", *transport)
	}
}
