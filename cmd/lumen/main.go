package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mbecker/lumen/internal/assistant"
	"github.com/mbecker/lumen/internal/auth"
	"github.com/mbecker/lumen/internal/config"
	"github.com/mbecker/lumen/internal/domain/analytics"
	"github.com/mbecker/lumen/internal/domain/capture"
	"github.com/mbecker/lumen/internal/domain/integration"
	"github.com/mbecker/lumen/internal/domain/project"
	"github.com/mbecker/lumen/internal/kvstore"
	"github.com/mbecker/lumen/internal/llm"
	"github.com/mbecker/lumen/internal/mcp"
	"github.com/mbecker/lumen/internal/transport"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	app := &cli.App{
		Name:    "lumen",
		Usage:   "Personal productivity backend: captures, projects, analytics",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(),
			mcpCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// services bundles everything the transports need.
type services struct {
	kv         *kvstore.SQLite
	captures   *capture.Service
	projects   *project.Service
	analytics  *analytics.Service
	integrates *integration.Service
	assistant  *assistant.Service
	logger     *slog.Logger
}

func buildServices(cfg config.Config, logWriter *os.File) (*services, error) {
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}

	kv, err := kvstore.Open(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	var gateway *llm.Client
	if cfg.LLM.Enabled {
		gateway = llm.NewClient(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		}, logger)
	}

	analyticsSvc := analytics.NewService(kv, logger)
	projectSvc := project.NewService(kv, analyticsSvc, logger)
	calendar := integration.NewCalendar(kv, logger)

	var classifier capture.Classifier
	if gateway != nil {
		classifier = gateway
	}
	captureSvc := capture.NewService(kv, classifier, analyticsSvc, calendar, projectSvc, logger)
	integrationSvc := integration.NewService(kv, captureSvc, analyticsSvc, logger)

	var chatter assistant.Chatter
	if gateway != nil {
		chatter = gateway
	}
	assistantSvc := assistant.NewService(chatter, analyticsSvc, logger)

	return &services{
		kv:         kv,
		captures:   captureSvc,
		projects:   projectSvc,
		analytics:  analyticsSvc,
		integrates: integrationSvc,
		assistant:  assistantSvc,
		logger:     logger,
	}, nil
}

func buildResolver(cfg config.Config) (auth.Resolver, error) {
	switch cfg.Auth.Mode {
	case "http":
		if cfg.Auth.VerifyURL == "" {
			return nil, fmt.Errorf("auth mode http requires a verify URL")
		}
		return auth.NewHTTP(cfg.Auth.VerifyURL, 10*time.Second), nil
	case "static":
		if len(cfg.Auth.Tokens) == 0 {
			return nil, fmt.Errorf("auth mode static requires at least one token")
		}
		return auth.NewStatic(cfg.Auth.Tokens), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Action: func(_ *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			svcs, err := buildServices(cfg, os.Stdout)
			if err != nil {
				return err
			}
			defer svcs.kv.Close()

			resolver, err := buildResolver(cfg)
			if err != nil {
				return err
			}

			srv := transport.NewServer(
				svcs.captures, svcs.projects, svcs.analytics,
				svcs.integrates, svcs.assistant, svcs.kv, svcs.logger,
			)

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Router(resolver),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				svcs.logger.Info("server listening", "addr", addr)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					svcs.logger.Error("server error", "error", err)
				}
			}()

			waitForShutdown(svcs.logger, httpServer)
			return nil
		},
	}
}

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP tool server over stdio",
		Action: func(_ *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Logs go to stderr; stdout carries the protocol.
			svcs, err := buildServices(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer svcs.kv.Close()

			handlers := mcp.NewHandlers(svcs.captures, svcs.projects, svcs.analytics, cfg.MCP.User)
			svcs.logger.Info("starting stdio tool server", "user", cfg.MCP.User)
			return mcp.Run(handlers, Version)
		},
	}
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
