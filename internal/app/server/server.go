package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ptoportal/internal/domain/employee"
	"ptoportal/internal/domain/otp"
	"ptoportal/internal/domain/request"
	"ptoportal/internal/domain/session"
	"ptoportal/internal/platform/config"
	"ptoportal/internal/platform/db"
	"ptoportal/internal/platform/email"
	"ptoportal/internal/platform/jobs"
	"ptoportal/internal/platform/metrics"
	adminhandler "ptoportal/internal/transport/http/handlers/admin"
	authhandler "ptoportal/internal/transport/http/handlers/auth"
	requesthandler "ptoportal/internal/transport/http/handlers/requests"
	"ptoportal/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Router http.Handler

	stopJobs context.CancelFunc
}

// New connects, migrates, seeds, and wires the full router. The
// returned App owns the pool and the expiry sweeper; Close releases
// both.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	employees := employee.NewStore(pool)
	otpStore := otp.NewStore(pool)
	sessionStore := session.NewStore(pool)
	mailer := email.New(cfg)

	otpService := otp.NewService(otpStore, employees, mailer, cfg.OTPTTL)
	sessionService := session.NewService(sessionStore, employees, cfg.SessionSecret, cfg.SessionTTL)
	requestService := request.NewService(pool)

	jobsCtx, stopJobs := context.WithCancel(context.Background())
	sweeper := jobs.NewSweeper(sessionStore, otpStore, cfg.SessionSweepInterval)
	sweeper.Start(jobsCtx)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.SecureHeaders)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", metrics.NewHandler(collector).ServeHTTP)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	authLimit := cfg.RateLimitPerMinute / 6
	if authLimit < 1 {
		authLimit = 1
	}
	authLimiter := middleware.NewRateLimiter(authLimit)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(middleware.Auth(sessionService))

		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			authhandler.NewHandler(otpService, sessionService).RegisterRoutes(r)
		})

		requesthandler.NewHandler(requestService).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			adminhandler.NewHandler(requestService).RegisterRoutes(r)
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return &App{
		Config:   cfg,
		Pool:     pool,
		Router:   router,
		stopJobs: stopJobs,
	}, nil
}

func (a *App) Close() {
	a.stopJobs()
	a.Pool.Close()
}

// Run is the blocking entrypoint used by cmd/server. It shuts the
// listener down on SIGINT or SIGTERM.
func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("PTO portal listening on %s", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
