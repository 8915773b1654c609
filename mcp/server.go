// Package mcp wires the Beeminder goal service into an MCP tool server
// reachable over stdio or streamable HTTP.
package mcp

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/pjjh/beeminder-mcpb/client"
	"github.com/pjjh/beeminder-mcpb/internal/goals"
	"github.com/pjjh/beeminder-mcpb/mcp/internal/handlers"
)

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

func registerHandler(s *server.MCPServer, handler toolRegisterer, name string) {
	if err := handler.RegisterTools(s); err != nil {
		log.Fatal().Err(err).Msgf("Failed to register %s tools", name)
	}
}

// RunServer starts the MCP server with configuration from the environment.
func RunServer() error {
	cfg, err := loadConfig()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	cfg.initLogger()

	// One authenticated client for the whole process, validated once.
	bee := client.New(cfg.APIBaseURL, cfg.AuthToken,
		client.WithUsername(cfg.Username),
		client.WithHTTPTimeout(cfg.HTTPTimeout),
	)
	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()
	if err := bee.Ping(pingCtx); err != nil {
		log.Error().Err(err).Msg("Failed to validate Beeminder credentials")
		return err
	}
	log.Info().Str("api_base_url", cfg.APIBaseURL).Str("username", cfg.Username).Msg("Beeminder client ready")

	svc := goals.NewService(bee, goals.Config{
		DayStart:        cfg.DayStart,
		PollInterval:    cfg.PollInterval,
		PollMaxAttempts: cfg.PollMaxAttempts,
		FullFetchPolicy: goals.FetchPolicy(cfg.FullFetchPolicy),
	})

	s := server.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		server.WithToolCapabilities(true),
	)

	registerHandler(s, handlers.NewProgressHandler(svc), "progress")
	registerHandler(s, handlers.NewGoalsHandler(svc), "goals")

	if shouldUseStdio() {
		// Stdio transport (for launched processes)
		log.Info().Msg("Starting Beeminder MCP server (stdio transport)")
		if err := server.ServeStdio(s); err != nil {
			log.Fatal().Err(err).Msg("Stdio server error")
		}
		return nil
	}

	// HTTP transport (for manual/Docker startup)
	log.Info().Str("addr", cfg.ListenAddr).Msg("Starting Beeminder MCP server (Streamable HTTP)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutdownComplete := make(chan struct{})

	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      streamSrv,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: 0, // no deadline, required for SSE streaming
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		defer close(shutdownComplete)

		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during MCP server shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server error")
	}

	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// shouldUseStdio determines whether to use stdio transport based on
// environment.
func shouldUseStdio() bool {
	if os.Getenv("MCP_STDIO") == "true" {
		return true
	}
	if os.Getenv("MCP_HTTP") == "true" {
		return false
	}
	// Auto-detect: stdio if stdin is not a terminal (launched by another
	// process).
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
