package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/leadbase/apiserver/config"
	"github.com/leadbase/apiserver/internal/db"
	"github.com/leadbase/apiserver/internal/handlers"
	"github.com/leadbase/apiserver/internal/logging"
	"github.com/leadbase/apiserver/internal/metrics"
	"github.com/leadbase/apiserver/internal/mq"
	"github.com/leadbase/apiserver/internal/services"
	"github.com/leadbase/apiserver/internal/session"
	"github.com/leadbase/apiserver/internal/storage"
	"github.com/leadbase/apiserver/internal/store"
	"github.com/leadbase/apiserver/web"
	"github.com/sirupsen/logrus"
)

// Dependencies are the explicitly constructed collaborators of the router.
type Dependencies struct {
	DB       *sqlx.DB
	Sessions *session.Manager
	Pages    *storage.Storage
	Public   fs.FS
	Metrics  *metrics.Metrics
	Log      logrus.FieldLogger

	// Events may be nil, which disables lead events.
	Events        services.Publisher
	EventsChannel string

	RateLimit config.RateLimitConfig
}

// Server wraps the HTTP server and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sqlx.DB
	sessions   *session.Manager
	pages      *storage.Storage
	events     *mq.MQ
	log        logrus.FieldLogger
}

// NewRouter assembles middleware and routes around deps.
func NewRouter(deps Dependencies) *chi.Mux {
	auth := services.NewAuthService(store.NewUserRepository(deps.DB))
	leads := services.NewLeadService(store.NewLeadRepository(deps.DB), deps.Events, deps.EventsChannel, deps.Log)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(deps.Log),
		deps.Metrics.Middleware,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)
	if deps.RateLimit.RPS > 0 {
		router.Use(rateLimit(deps.RateLimit.RPS, deps.RateLimit.Burst))
	}

	router.Get("/healthz", handlers.Healthz(deps.DB))
	router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	handlers.AuthRouter(router, auth, deps.Sessions, deps.Log)
	handlers.PageRouter(router, deps.Sessions, deps.Pages, deps.Log)
	handlers.LeadRouter(router, leads, deps.Log, deps.Metrics.IntakeFailures)

	router.Handle("/*", http.FileServer(http.FS(deps.Public)))
	return router
}

// New opens every backend named in cfg, migrates the schema and builds the
// HTTP server. Resources opened before a failure are released.
func New(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (srv *Server, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var closers []func() error
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				_ = closers[i]()
			}
		}
	}()

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	closers = append(closers, dbConn.Close)

	if err := db.Migrate(dbConn, cfg.Database.Driver); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	sessionStore, err := session.NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	sessions := session.NewManager(sessionStore, cfg.Session)
	closers = append(closers, sessions.Close)

	pages, err := storage.Open(ctx, cfg.Pages, web.Pages())
	if err != nil {
		return nil, fmt.Errorf("open pages: %w", err)
	}
	closers = append(closers, pages.Close)

	queue, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		return nil, fmt.Errorf("open mq: %w", err)
	}
	var events services.Publisher
	eventsBackend := "none"
	if queue != nil {
		events = queue
		eventsBackend = queue.Name()
		closers = append(closers, queue.Close)
	}

	router := NewRouter(Dependencies{
		DB:            dbConn,
		Sessions:      sessions,
		Pages:         pages,
		Public:        web.Public(),
		Metrics:       metrics.New(),
		Log:           log,
		Events:        events,
		EventsChannel: cfg.MQ.Channel,
		RateLimit:     cfg.RateLimit,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.WithFields(logrus.Fields{
		"db_driver":       cfg.Database.Driver,
		"session_backend": cfg.Session.Backend,
		"mq_backend":      eventsBackend,
		"pages_bucket":    pages.Bucket(),
	}).Info("server initialized")

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		sessions:   sessions,
		pages:      pages,
		events:     queue,
		log:        log,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the event publisher, the
// page backend, the session backend and the database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	if s.events != nil {
		if cerr := s.events.Close(); cerr != nil {
			s.log.WithError(cerr).Warn("failed to close mq")
		}
	}
	if cerr := s.pages.Close(); cerr != nil {
		s.log.WithError(cerr).Warn("failed to close pages backend")
	}
	if cerr := s.sessions.Close(); cerr != nil {
		s.log.WithError(cerr).Warn("failed to close session store")
	}
	if cerr := s.db.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}
