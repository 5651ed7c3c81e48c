// Package server serves the dashboard page and the JSON endpoints behind it.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/invertedv/coviddash/charts"
	"github.com/invertedv/coviddash/covid"
	"go.uber.org/zap"
)

const (
	DefaultAddr = ":8050"
	pageTitle   = "COVID-19 Dashboard"

	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

//go:embed templates/index.html
var indexHTML string

var pageTemplate = template.Must(template.New("index").Parse(indexHTML))

// Server holds the dataset and the routes that read it.
type Server struct {
	ds     *covid.Dataset
	addr   string
	logger *zap.Logger
	router *mux.Router
}

type Option func(s *Server)

// WithAddr sets the listen address. The default is DefaultAddr.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(ds *covid.Dataset, opts ...Option) (*Server, error) {
	if ds == nil {
		return nil, fmt.Errorf("nil dataset in server.New")
	}

	s := &Server{ds: ds, addr: DefaultAddr, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	s.router = mux.NewRouter()
	s.router.Use(s.logRequests)
	s.router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.router.HandleFunc("/api/controls", s.handleControls).Methods(http.MethodGet)
	s.router.HandleFunc("/api/charts", s.handleCharts).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	return s, nil
}

func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, e := net.Listen("tcp", s.addr)
	if e != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, e)
	}

	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", ln.Addr().String()))
		errs <- srv.Serve(ln)
	}()

	select {
	case e := <-errs:
		if errors.Is(e, http.ErrServerClosed) {
			return nil
		}

		return e
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if e := srv.Shutdown(shutCtx); e != nil {
		return fmt.Errorf("shutdown: %w", e)
	}

	return nil
}

// *********** Handlers ***********

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctrl := s.ds.Controls()
	data := map[string]any{
		"Title":        pageTitle,
		"Controls":     ctrl,
		"Graphs":       charts.Names(),
		"ControlsJSON": s.jsJSON(ctrl),
		"GraphsJSON":   s.jsJSON(charts.Names()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if e := pageTemplate.Execute(w, data); e != nil {
		s.logger.Error("template", zap.Error(e))
	}
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.ds.Controls())
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	sel, e := covid.ParseSelection(r.URL.Query(), s.ds.DefaultSelection())
	if e != nil {
		http.Error(w, e.Error(), http.StatusBadRequest)
		return
	}

	figs, rows, e := s.Charts(sel)
	if e != nil {
		s.logger.Error("build charts", zap.Stringer("selection", sel), zap.Error(e))
		http.Error(w, "could not build charts", http.StatusInternalServerError)
		return
	}

	s.logger.Debug("charts",
		zap.Stringer("selection", sel),
		zap.Int("rows", rows),
		zap.Duration("elapsed", time.Since(start)))

	s.writeJSON(w, figs)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// Charts filters the dataset on sel and builds all six figures. It also returns the filtered row count.
func (s *Server) Charts(sel covid.Selection) (*charts.Figures, int, error) {
	df, e := s.ds.Filter(sel)
	if e != nil {
		return nil, 0, e
	}

	figs, e := charts.Build(df)
	if e != nil {
		return nil, 0, e
	}

	return figs, df.RowCount(), nil
}

// *********** Helpers ***********

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if e := json.NewEncoder(w).Encode(v); e != nil {
		s.logger.Error("encode json", zap.Error(e))
	}
}

func (s *Server) jsJSON(v any) template.JS {
	b, e := json.Marshal(v)
	if e != nil {
		s.logger.Error("marshal template data", zap.Error(e))
		return template.JS("null")
	}

	return template.JS(b)
}
