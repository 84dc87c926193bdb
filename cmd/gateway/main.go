package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/examforge/examforge/internal/api/http"
	"github.com/examforge/examforge/internal/assets"
	auth "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/db"
	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/logger"
	"github.com/examforge/examforge/internal/render"
	"github.com/examforge/examforge/internal/securetext"
	"github.com/examforge/examforge/internal/status"
	"github.com/examforge/examforge/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	log, err := logger.New(string(cfg.Mode))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(dbCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatal("db open failed", "error", err)
	}

	var sealed securetext.SecureText
	if cfg.SecureTextKey != "" {
		sealed, err = securetext.New(cfg.SecureTextKey)
		if err != nil {
			log.Fatal("securetext key invalid", "error", err)
		}
	} else {
		log.Warn("SECURETEXT_KEY unset, storing question text in the clear")
		sealed = securetext.NewInsecure()
	}

	repo := exam.NewSQLRepo(dbh, cfg.DBDriver, sealed)
	composer := exam.NewComposer(repo)

	// --- Blob + status stores ---
	blob, err := storage.NewFSStore(cfg.BlobBasePath, cfg.PublicURL+"/files")
	if err != nil {
		log.Fatal("blob store", "error", err)
	}

	var statusStore status.Store
	switch cfg.StatusDriver {
	case "redis":
		rs, err := status.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			log.Fatal("redis status store", "error", err)
		}
		defer rs.Close()
		statusStore = rs
	default:
		statusStore = status.NewMemoryStore()
	}

	// --- Render pipeline ---
	resolver := assets.NewResolver(cfg.PublicURL + "/files")
	optimizer := render.NewImageOptimizer(resolver, cfg.ImageMaxWidth, cfg.ImageMaxHeight, cfg.ImageJPEGQual, cfg.ImageFetchLimit, log)
	scratch := filepath.Join(os.TempDir(), "examforge-render")
	renderer := render.NewPDFRenderer(cfg.RenderChunkSize, scratch, log)
	pool, err := render.NewPool(render.Config{
		Workers:     cfg.RenderWorkers,
		QueueSize:   cfg.RenderQueueSize,
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     cfg.RetryBackoff,
		Timeout:     cfg.RenderTimeout,
		StatusTTL:   cfg.StatusTTL,
	}, statusStore, optimizer, renderer, blob, scratch, log)
	if err != nil {
		log.Fatal("render pool", "error", err)
	}
	pool.Start(ctx)
	renderSvc := render.NewService(statusStore, pool, cfg.StatusTTL)

	sweeper := render.NewSweeper(scratch, blob, cfg.SweepInterval, cfg.TempMaxAge, cfg.ArtifactAge, log)
	sweeper.Start(ctx)

	// --- Auth (local JWT for offline/dev) ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		attempts := api.NewAttemptCache(2 * time.Hour)
		pr.Post("/exams/practice", api.ComposePracticeHandler(composer, attempts))
		pr.Post("/attempts/{attemptID}/grade", api.GradeAttemptHandler(attempts))
		pr.Post("/renders", api.SubmitRenderHandler(composer, renderSvc))
		pr.Get("/renders/{jobID}", api.PollRenderHandler(renderSvc))
		pr.Get("/renders/{jobID}/download", api.DownloadRenderHandler(renderSvc, blob))
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	log.Info("gateway listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("http server", "error", err)
	}
}
