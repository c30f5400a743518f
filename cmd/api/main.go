package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"place-review-platform/internal/audit"
	"place-review-platform/internal/auth"
	"place-review-platform/internal/comments"
	"place-review-platform/internal/config"
	"place-review-platform/internal/photos"
	"place-review-platform/internal/places"
	"place-review-platform/internal/storage"
	"place-review-platform/internal/throttle"
	"place-review-platform/internal/users"
	"place-review-platform/pkg/logger"
	"place-review-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local development convenience; production sets real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}
	cookies, err := auth.NewCookieCodec(cfg.Cookie, cfg.IsProduction())
	if err != nil {
		log.Error("cookie codec init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := storage.Migrate(rootCtx, db); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	var counters throttle.CounterStore
	switch cfg.Throttle.Store {
	case config.ThrottleStoreRedis:
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		counters, err = throttle.NewRedisStore(rdb)
		if err != nil {
			log.Error("throttle store init failed", "err", err)
			os.Exit(1)
		}
	default:
		counters = throttle.NewMemoryStore()
	}

	engine, err := throttle.NewEngine(counters, throttle.DefaultBuckets(), log)
	if err != nil {
		log.Error("throttle engine init failed", "err", err)
		os.Exit(1)
	}

	files, err := photos.NewDiskStore(cfg.Upload.Dir)
	if err != nil {
		log.Error("upload dir init failed", "err", err)
		os.Exit(1)
	}

	userRepo := users.NewPostgresRepo(db)
	placeRepo := places.NewPostgresRepo(db)
	commentRepo := comments.NewPostgresRepo(db)
	photoRepo := photos.NewPostgresRepo(db)

	userSource := users.NewAuthSource(userRepo)

	deps := routeDeps{
		cfg:      cfg,
		log:      log,
		engine:   engine,
		tokens:   tokens,
		cookies:  cookies,
		accounts: userSource,
		authH:    auth.Handlers{Auth: auth.NewService(userSource, tokens), Cookies: cookies},
		usersH:   users.Handlers{Users: users.NewService(userRepo, placeRepo)},
		placesH:  places.Handlers{Places: places.NewService(placeRepo)},
		commentsH: comments.Handlers{
			Comments: comments.NewService(commentRepo, placeRepo),
		},
		photosH: photos.Handlers{
			Photos:      photos.NewService(photoRepo, files),
			MaxFiles:    cfg.Upload.MaxFiles,
			MaxFileSize: cfg.Upload.MaxFileSize,
		},
		audits: audit.NewService(audit.NewPostgresRepo(db)),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
