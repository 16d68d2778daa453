package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ironsheep/edge-detect-mcp/internal/edge"
	"github.com/ironsheep/edge-detect-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("edge-detect-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("edge-detect-mcp - MCP server for gradient edge detection")
			fmt.Println()
			fmt.Println("Usage: edge-detect-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  EDGE_MCP_LOG_LEVEL=debug     Log requests and pipeline stages")
			fmt.Println("  EDGE_MCP_LOG_LEVEL=warn      Log only problems")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// Log to stderr; stdout is for the MCP protocol
	level := parseLevel(os.Getenv("EDGE_MCP_LOG_LEVEL"))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if level <= slog.LevelDebug {
		edge.SetLogger(logger.With("component", "pipeline"))
		logger.Debug("starting edge-detect-mcp",
			"version", Version,
			"built", BuildTime,
			"commit", GitCommit)
	}

	srv := server.New(
		server.WithLogger(logger),
		server.WithVersion(Version),
	)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
