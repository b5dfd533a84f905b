// Package status serves a small read-only JSON API describing the running bot.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/whotypes/dndspawner/internal/audit"
)

// ShutdownTimeout bounds how long Shutdown waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type Health struct {
	Ready         bool    `json:"ready"`
	User          string  `json:"user,omitempty"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Latency       string  `json:"latency,omitempty"`
}

type Extension struct {
	Name     string     `json:"name"`
	Loaded   bool       `json:"loaded"`
	Error    string     `json:"error,omitempty"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

type Command struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Extension   string   `json:"extension"`
	Description string   `json:"description,omitempty"`
	Hybrid      bool     `json:"hybrid"`
}

// Provider exposes the bot state the API reports on.
type Provider interface {
	Health() Health
	Extensions() []Extension
	Commands() []Command
}

type Server struct {
	log      zerolog.Logger
	provider Provider
	audit    audit.Store
	srv      *http.Server
}

// NewServer builds a status server for addr. store may be nil, in which case
// the audit endpoints answer 404.
func NewServer(addr string, provider Provider, store audit.Store, log zerolog.Logger) *Server {
	s := &Server{
		log:      log,
		provider: provider,
		audit:    store,
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the routed API with CORS, recovery and request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.getHealth).Methods("GET")
	api.HandleFunc("/extensions", s.getExtensions).Methods("GET")
	api.HandleFunc("/commands", s.getCommands).Methods("GET")
	if s.audit != nil {
		api.HandleFunc("/audit/commands/{command}", s.getAuditByCommand).Methods("GET")
		api.HandleFunc("/audit/guilds/{guild}", s.getAuditByGuild).Methods("GET")
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, APIResponse{Error: "not found: " + r.URL.Path})
	})

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"}),
	)(r)

	recovered := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.log}),
		handlers.PrintRecoveryStack(false),
	)(corsHandler)

	return handlers.CustomLoggingHandler(io.Discard, recovered, s.logRequest)
}

func (s *Server) logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	s.log.Debug().
		Str("method", p.Request.Method).
		Str("path", p.URL.Path).
		Int("status", p.StatusCode).
		Int("size", p.Size).
		Msg("status request")
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("status listen on %s: %w", s.srv.Addr, err)
	}
	s.log.Info().Msgf("Status API listening on %s", ln.Addr())
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("Status API stopped")
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	health := s.provider.Health()
	code := http.StatusOK
	if !health.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, APIResponse{Success: health.Ready, Data: health})
}

func (s *Server) getExtensions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.provider.Extensions()})
}

func (s *Server) getCommands(w http.ResponseWriter, r *http.Request) {
	cmds := s.provider.Commands()
	if ext := r.URL.Query().Get("extension"); ext != "" {
		filtered := make([]Command, 0, len(cmds))
		for _, c := range cmds {
			if strings.EqualFold(c.Extension, ext) {
				filtered = append(filtered, c)
			}
		}
		cmds = filtered
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cmds})
}

func (s *Server) getAuditByCommand(w http.ResponseWriter, r *http.Request) {
	command := mux.Vars(r)["command"]
	records, err := s.audit.ListByCommand(r.Context(), command)
	s.writeRecords(w, records, err)
}

func (s *Server) getAuditByGuild(w http.ResponseWriter, r *http.Request) {
	guild := mux.Vars(r)["guild"]
	records, err := s.audit.ListByGuild(r.Context(), guild)
	s.writeRecords(w, records, err)
}

func (s *Server) writeRecords(w http.ResponseWriter, records []audit.Record, err error) {
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read audit records")
		writeJSON(w, http.StatusInternalServerError, APIResponse{Error: "failed to read audit records"})
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"records": records,
			"count":   len(records),
		},
	})
}

func writeJSON(w http.ResponseWriter, code int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type recoveryLogger struct {
	log zerolog.Logger
}

func (l recoveryLogger) Println(args ...interface{}) {
	l.log.Error().Msg(fmt.Sprint(args...))
}
