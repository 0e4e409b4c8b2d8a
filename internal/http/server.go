package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/catalog-api/internal/config"
	"github.com/Clark-Hu/catalog-api/internal/service"
	"github.com/Clark-Hu/catalog-api/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	backend store.Backend
	catalog *service.Catalog
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes. catalog may
// be nil for the fixture variant, which never reaches the services.
func New(cfg config.Config, backend store.Backend, catalog *service.Catalog, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:     cfg,
		backend: backend,
		catalog: catalog,
		logger:  logger,
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/check", s.handleCheck)
	s.router.Get("/databases", s.handleDatabases)

	if s.cfg.Variant == config.VariantFixture {
		s.router.Get("/api/movies/{id}", s.handleFixtureMovie)
		return
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/movies", newResource(s, "/api/movies", "movie", s.catalog.Movies).routes)
		r.Route("/songs", newResource(s, "/api/songs", "song", s.catalog.Songs).routes)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is done or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http: listening", "addr", s.httpSrv.Addr, "variant", s.cfg.Variant)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello World!"))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.backend.HealthCheck(ctx); err != nil {
		s.logger.Warn("healthz: backend unreachable", "err", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	if pg, ok := s.backend.(*store.Postgres); ok {
		if stat := pg.Stats(); stat != nil {
			s.logger.Debug("healthz: pool stats",
				"total", stat.TotalConns(), "idle", stat.IdleConns(),
				"acquired", stat.AcquiredConns(), "max", stat.MaxConns())
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

type checkResponse struct {
	Message   string   `json:"message"`
	Databases []string `json:"databases"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	names, ok := s.listDatabases(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, checkResponse{
		Message:   "Database access ok.",
		Databases: names,
	})
}

func (s *Server) handleDatabases(w http.ResponseWriter, r *http.Request) {
	names, ok := s.listDatabases(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, names)
}

func (s *Server) listDatabases(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	names, err := s.backend.DatabaseNames(ctx)
	if err != nil {
		s.logger.Error("database probe failed", "driver", s.backend.Driver(), "err", err)
		s.respondProblem(w, http.StatusInternalServerError, "Database access failed: "+err.Error())
		return nil, false
	}
	if names == nil {
		names = []string{}
	}
	return names, true
}
