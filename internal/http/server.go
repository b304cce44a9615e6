// Package http exposes the service's network surface: liveness/readiness
// probes, the tool catalog, and the SSE transport of the MCP server.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	applog "spendmcp/internal/log"
	"spendmcp/internal/tools"
)

// Pinger reports whether the backing store is reachable. *storage.Store
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	*http.Server
	store   Pinger
	started time.Time
}

// NewServer wires the health endpoints, the tool catalog, and the MCP SSE
// transport onto one mux.
func NewServer(addr string, mcp *mcpserver.MCPServer, store Pinger) *Server {
	s := &Server{
		store:   store,
		started: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.withRequestLogging(s.handleHealth))
	mux.HandleFunc("/readyz", s.withRequestLogging(s.handleReady))
	mux.HandleFunc("/tools", s.withRequestLogging(s.handleTools))

	sse := mcpserver.NewSSEServer(mcp,
		mcpserver.WithSSEEndpoint("/sse"),
		mcpserver.WithMessageEndpoint("/message"),
	)
	mux.Handle("/sse", sse.SSEHandler())
	mux.Handle("/message", sse.MessageHandler())

	s.Server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

// handleReady verifies the backing store is reachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	if err := s.store.Ping(ctx); err != nil {
		checks["database"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleTools lists the operations the MCP server exposes.
func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"tools": tools.Catalog(),
	})
}

// withRequestLogging adds a request id and start/finish logging.
func (s *Server) withRequestLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		slog.InfoContext(r.Context(), "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)

		next(w, r)

		slog.InfoContext(r.Context(), "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
