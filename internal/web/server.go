package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/store"
	"github.com/jmylchreest/toastui/internal/theme"
	"github.com/jmylchreest/toastui/internal/toast"
)

//go:embed assets
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/index.html"))

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server is the browser front end for a toast manager.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	themesDir string

	loop    *toast.Loop
	doc     *dom.Document
	manager *toast.Manager
	sheet   *theme.Stylesheet
	hub     *Hub
	metrics *Metrics
	history *store.Store
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithThemesDir overrides where user web themes are looked up.
func WithThemesDir(dir string) Option {
	return func(s *Server) {
		s.themesDir = dir
	}
}

// WithHistory records removed toasts in h and serves them under
// /api/history.
func WithHistory(h *store.Store) Option {
	return func(s *Server) {
		s.history = h
	}
}

// New creates a server for cfg. Nothing runs until Run is called.
func New(cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	s := &Server{
		cfg:     cfg,
		logger:  slog.Default(),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "web")

	s.sheet = theme.NewStylesheet(theme.SurfaceWeb, s.logger)
	if s.themesDir != "" {
		s.sheet.SetThemesDir(s.themesDir)
	}

	s.loop = toast.NewLoop(s.logger)
	s.doc = dom.New(
		dom.WithScheduler(s.loop),
		dom.WithAnimation(toast.ClassEnter, cfg.Animation.Enter.Duration()),
		dom.WithAnimation(toast.ClassLeave, cfg.Animation.Leave.Duration()),
		dom.WithLogger(s.logger),
	)
	s.manager = toast.NewManager(s.doc, s.loop,
		toast.WithLogger(s.logger),
		toast.WithSettings(cfg.ToastSettings()),
		toast.WithObserver(s.metrics.Observe),
	)
	s.manager.Subscribe(s.observe)
	if s.history != nil {
		s.manager.Subscribe(s.history.Observe)
	}

	s.hub = NewHub(s.logger)
	s.hub.OnCount(s.metrics.SetClients)

	s.sheet.Load(cfg.Theme.Name)
	s.sheet.OnChange(func(string) {
		s.hub.Broadcast(Message{Type: MessageCSS, Version: s.sheet.Version().UnixMilli()})
	})

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/toast.css", s.handleCSS)
	r.Get("/ws", s.hub.ServeHTTP)
	if s.cfg.Server.Metrics {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/toasts", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleShow)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleRemove)
			r.Post("/pause", s.handlePause)
			r.Post("/resume", s.handleResume)
			r.Post("/enter", s.handlePointer(func(n *dom.ToastNode) { n.PointerEnter() }))
			r.Post("/leave", s.handlePointer(func(n *dom.ToastNode) { n.PointerLeave() }))
			r.Post("/close", s.handlePointer(func(n *dom.ToastNode) { n.Click() }))
		})
	})
	if s.history != nil {
		r.Route("/api/history", func(r chi.Router) {
			r.Get("/", s.handleHistory)
			r.Delete("/", s.handleClearHistory)
			r.Get("/{id}", s.handleHistoryRecord)
		})
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Manager returns the toast manager. It must only be used from work passed
// to Post or Do.
func (s *Server) Manager() *toast.Manager {
	return s.manager
}

// Post queues fn on the manager's goroutine.
func (s *Server) Post(fn func()) {
	s.loop.Post(fn)
}

// Do runs fn on the manager's goroutine and waits for it.
func (s *Server) Do(ctx context.Context, fn func()) error {
	return s.loop.Do(ctx, fn)
}

// Stylesheet returns the web theme stylesheet.
func (s *Server) Stylesheet() *theme.Stylesheet {
	return s.sheet
}

// UpdateConfig applies toast defaults, animation timings and the theme from
// cfg. Toasts already on screen keep their settings.
func (s *Server) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	old := s.cfg
	s.cfg = cfg

	s.loop.Post(func() {
		s.manager.SetSettings(cfg.ToastSettings())
		s.doc.SetAnimation(toast.ClassEnter, cfg.Animation.Enter.Duration())
		s.doc.SetAnimation(toast.ClassLeave, cfg.Animation.Leave.Duration())
	})

	if old == nil || old.Theme.Name != cfg.Theme.Name {
		s.logger.Info("switching web theme", "theme", cfg.Theme.Name)
		s.sheet.StopHotReload()
		s.sheet.Load(cfg.Theme.Name)
		if err := s.sheet.StartHotReload(context.Background()); err != nil {
			s.logger.Warn("failed to watch theme", "theme", cfg.Theme.Name, "error", err)
		}
	}
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = s.loop.Run(ctx)
	}()

	if err := s.sheet.StartHotReload(ctx); err != nil {
		s.logger.Warn("theme hot reload unavailable", "error", err)
	}
	defer s.sheet.StopHotReload()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	s.logger.Info("web server listening", "addr", addr, "theme", s.sheet.Theme().Name)

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		} else {
			err = fmt.Errorf("web server: %w", err)
		}
	}

	s.hub.Close()
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
		err = fmt.Errorf("shutting down web server: %w", shutdownErr)
	}

	cancel()
	<-loopDone
	s.logger.Info("web server stopped")
	return err
}

// observe pushes each lifecycle event to browsers with the toast's current
// markup. It runs on the loop.
func (s *Server) observe(ev toast.Event) {
	msg := Message{Type: MessageEvent, Event: &ev}
	if n, ok := s.toastNode(ev.Toast.ID); ok {
		msg.HTML = n.Root().HTML()
	}
	s.hub.Broadcast(msg)
}

func (s *Server) toastNode(id string) (*dom.ToastNode, bool) {
	n, ok := s.manager.Node(id)
	if !ok {
		return nil, false
	}
	tn, ok := n.(*dom.ToastNode)
	return tn, ok
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
