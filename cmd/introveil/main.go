// Command introveil runs the intro-overlay keeper against a host page.
//
// Usage:
//
//	introveil                                  # demo mode on the built-in fixture
//	introveil -config introveil.yaml           # run with config file
//	introveil -url https://host.example/       # bind to a live page
//	introveil -path /share/abc123              # demo mode on a share view
//	introveil -mcp                             # serve debug tools over MCP stdio
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/introveil/hostbind"
	"github.com/hazyhaar/introveil/hostdom"
	"github.com/hazyhaar/introveil/overlay"
	"github.com/hazyhaar/introveil/session"
)

func main() {
	configPath := flag.String("config", "", "path to introveil.yaml config file")
	dbPath := flag.String("db", "", "path to the session SQLite database")
	sessionID := flag.String("session", "", "session id (empty generates one)")
	pagePath := flag.String("path", "/", "page path for demo mode")
	listen := flag.String("listen", "", "debug HTTP listen address")
	pageURL := flag.String("url", "", "live page URL (empty runs demo mode)")
	remote := flag.String("remote", "", "WebSocket URL of an external Chrome")
	mcpStdio := flag.Bool("mcp", false, "serve debug tools over MCP stdio")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *dbPath, *sessionID, *pagePath, *listen, *pageURL, *remote, *mcpStdio); err != nil {
		logger.Error("introveil: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, dbPath, sessionID, pagePath, listen, pageURL, remote string, mcpStdio bool) error {
	cfg, err := resolveConfig(configPath, dbPath, listen)
	if err != nil {
		return err
	}

	store, err := session.Open(cfg.SessionDB, sessionID)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	var (
		doc     *hostdom.Document
		binding *hostbind.Binding
	)
	if pageURL != "" {
		binding, err = hostbind.Attach(ctx, pageURL, hostbind.Config{
			Remote: remote,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("attach page: %w", err)
		}
		defer binding.Close()
		doc = binding.Document()
	} else {
		doc, err = hostdom.Parse([]byte(demoPage), pagePath)
		if err != nil {
			return fmt.Errorf("parse demo page: %w", err)
		}
	}

	k := overlay.Bootstrap(doc, store, cfg, logger)
	defer k.Close()

	if binding != nil {
		binding.SetSerializer(k.Sync)
		go func() {
			if err := binding.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("introveil: binding", "error", err)
			}
		}()
	}

	if mcpStdio {
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "introveil",
			Version: "1.0.0",
		}, nil)
		k.RegisterMCP(srv)
		logger.Info("introveil: MCP stdio serving")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	k.RegisterHTTP(r)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("introveil: debug server starting", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("introveil: debug server", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("introveil: shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("introveil: shutdown", "error", err)
	}
	return nil
}

func resolveConfig(configPath, dbPath, listen string) (*overlay.Config, error) {
	var cfg *overlay.Config
	if configPath != "" {
		loaded, err := overlay.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = overlay.DefaultConfig()
	}

	if dbPath != "" {
		cfg.SessionDB = dbPath
	}
	if listen != "" {
		cfg.Listen = listen
	}
	return cfg, nil
}
