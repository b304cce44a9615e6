// spendmcp serves the expense management tools over the Model Context
// Protocol, either on stdio or as an SSE endpoint with health probes.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"spendmcp/internal/amqp"
	"spendmcp/internal/cli"
	"spendmcp/internal/config"
	apphttp "spendmcp/internal/http"
	applog "spendmcp/internal/log"
	"spendmcp/internal/services"
	"spendmcp/internal/storage"
	"spendmcp/internal/tools"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Schema creation belongs to spendmcp-init; starting against a missing
	// file still works but every tool call will fail until it exists.
	if _, err := os.Stat(cfg.SQLiteDBPath); os.IsNotExist(err) {
		logger.Warn("Database not found; run spendmcp-init to create it", "path", cfg.SQLiteDBPath)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open spending database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	var events services.EventPublisher
	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		events = client
		logger.Info("Expense event publishing enabled",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Expense event publishing disabled - no AMQP_URL provided")
	}

	svc := services.NewSpendingService(store, events)

	mcpServer := server.NewMCPServer(
		"Expense Management",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools.Register(mcpServer, svc)

	switch cfg.Transport {
	case config.TransportStdio:
		logger.Info("Starting MCP server on stdio", "tools", len(tools.Catalog()))
		if err := server.ServeStdio(mcpServer); err != nil {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	default:
		serveSSE(logger, cfg, mcpServer, store)
	}
}

func serveSSE(logger *applog.Logger, cfg *config.Config, mcpServer *server.MCPServer, store *storage.Store) {
	srv := apphttp.NewServer(":"+cfg.Port, mcpServer, store)

	// No WriteTimeout: SSE responses stream for the lifetime of the client
	srv.ReadHeaderTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting MCP server",
			"port", cfg.Port,
			"tools", len(tools.Catalog()),
			"sse", "/sse",
			"health", "/healthz")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
