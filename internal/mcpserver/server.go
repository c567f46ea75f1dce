package mcpserver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dexbridge/dexbridge/internal/dexcom"
)

// NewServer builds the MCP server with the glucose tool and resource catalog.
// The same instance serves both the stdio and HTTP transports.
func NewServer(gw *Gateway, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"dexbridge-mcp",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	registerTools(s, gw)
	registerResources(s, gw)
	return s
}

func registerTools(s *server.MCPServer, gw *Gateway) {
	s.AddTool(mcp.NewTool("get_current_glucose",
		mcp.WithDescription("Get the most recent glucose reading from Dexcom CGM"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := gw.CurrentGlucose(ctx)
		if err != nil {
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}
		return jsonResult(raw), nil
	})

	s.AddTool(mcp.NewTool("get_glucose_range",
		mcp.WithDescription("Get glucose readings within a specific date/time range"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Start date in ISO 8601 format (e.g., 2024-01-01T00:00:00Z)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("End date in ISO 8601 format (e.g., 2024-01-02T00:00:00Z)"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startDate, err := req.RequireString("startDate")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		endDate, err := req.RequireString("endDate")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		raw, err := gw.GlucoseRange(ctx, startDate, endDate)
		if err != nil {
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}
		return jsonResult(raw), nil
	})

	s.AddTool(mcp.NewTool("get_glucose_statistics",
		mcp.WithDescription("Get statistical analysis of glucose data over a period (average, min, max, time in range)"),
		mcp.WithNumber("days",
			mcp.Required(),
			mcp.Description("Number of days to analyze (1-90)"),
			mcp.Min(1),
			mcp.Max(90),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days, err := req.RequireInt("days")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		raw, err := gw.Statistics(ctx, days)
		if err != nil {
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}
		return jsonResult(raw), nil
	})

	s.AddTool(mcp.NewTool("get_devices",
		mcp.WithDescription("Get information about the user's Dexcom devices"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := gw.Devices(ctx)
		if err != nil {
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}
		return jsonResult(raw), nil
	})
}

func registerResources(s *server.MCPServer, gw *Gateway) {
	s.AddResource(mcp.NewResource(
		"dexcom://glucose/current",
		"Current Glucose Level",
		mcp.WithResourceDescription("Real-time glucose reading from Dexcom CGM"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		raw, err := gw.CurrentGlucose(ctx)
		if err != nil {
			return nil, err
		}
		return textContents(req.Params.URI, raw), nil
	})

	s.AddResource(mcp.NewResource(
		"dexcom://glucose/today",
		"Today's Glucose Readings",
		mcp.WithResourceDescription("All glucose readings from today"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		raw, err := gw.GlucoseRange(ctx, dexcom.FormatTime(startOfDay), dexcom.FormatTime(now))
		if err != nil {
			return nil, err
		}
		return textContents(req.Params.URI, raw), nil
	})
}

// jsonResult pretty-prints the REST payload so the agent sees readable JSON.
func jsonResult(raw json.RawMessage) *mcp.CallToolResult {
	var buf interface{}
	if err := json.Unmarshal(raw, &buf); err == nil {
		if pretty, err := json.MarshalIndent(buf, "", "  "); err == nil {
			return mcp.NewToolResultText(string(pretty))
		}
	}
	return mcp.NewToolResultText(string(raw))
}

func textContents(uri string, raw json.RawMessage) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(raw),
		},
	}
}
