package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/AndyGlx/am-process-selector/internal/model"
	"github.com/AndyGlx/am-process-selector/internal/query"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// LoadFunc fetches a fresh configuration for reloads.
type LoadFunc func(ctx context.Context) (*model.Configuration, error)

// Server serves the web renderer. The catalog is swapped wholesale on reload;
// requests in flight keep whichever catalog they started with.
type Server struct {
	catalog atomic.Pointer[query.Catalog]
	load    LoadFunc
	logger  *slog.Logger
}

// NewServer wraps an already loaded catalog. load may be nil when reloads
// are not wanted.
func NewServer(catalog *query.Catalog, load LoadFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{load: load, logger: logger}
	s.catalog.Store(catalog)
	return s
}

// Catalog returns the catalog currently being served.
func (s *Server) Catalog() *query.Catalog {
	return s.catalog.Load()
}

// Reload fetches the configuration again and swaps it in. On failure the
// previous catalog stays in place.
func (s *Server) Reload(ctx context.Context) error {
	if s.load == nil {
		return errors.New("web: reload not configured")
	}
	cfg, err := s.load(ctx)
	if err != nil {
		s.logger.Error("reload failed, keeping previous configuration", "error", err)
		return err
	}
	s.catalog.Store(query.New(cfg))
	s.logger.Info("configuration reloaded", "categories", len(cfg.Categories), "processes", len(cfg.Processes))
	return nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	// API Endpoints
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/describe", s.handleDescribe)
	mux.HandleFunc("/api/help", handleHelp)

	return s.logRequests(mux)
}

// StartServer serves until ctx is cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "addr", addr, "url", "http://"+displayHost(addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func displayHost(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	response := struct {
		*model.Configuration
		Version string `json:"version"`
	}{
		Configuration: s.Catalog().Configuration(),
		Version:       model.Version,
	}
	writeJSON(w, response)
}

// stateResponse is everything the page redraws after a selection change.
type stateResponse struct {
	query.Result
	Selection model.Selection       `json:"selection"`
	Filters   []query.CategoryState `json:"filters"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sel, err := model.ParseSelection(r.URL.Query()["sel"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	catalog := s.Catalog()
	writeJSON(w, stateResponse{
		Result:    catalog.Evaluate(sel),
		Selection: sel,
		Filters:   catalog.OptionStates(sel),
	})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	processID := r.URL.Query().Get("process")
	variant := r.URL.Query().Get("variant")
	if processID == "" {
		http.Error(w, "process is required", http.StatusBadRequest)
		return
	}

	catalog := s.Catalog()
	if variant == "" {
		p, ok := catalog.Configuration().Process(processID)
		if !ok {
			http.Error(w, "unknown process "+processID, http.StatusNotFound)
			return
		}
		writeJSON(w, catalog.Describe(p.Compatibility))
		return
	}

	// Variants are addressed by position; ids may repeat within a process
	index, err := strconv.Atoi(variant)
	if err != nil {
		http.Error(w, "variant must be an index, got "+variant, http.StatusBadRequest)
		return
	}
	traits, ok := catalog.DescribeVariant(processID, index)
	if !ok {
		http.Error(w, "unknown variant "+processID+"/"+variant, http.StatusNotFound)
		return
	}
	writeJSON(w, traits)
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	// Use the embedded help content
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)

	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
