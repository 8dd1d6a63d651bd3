package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/config"
	"github.com/01moynul/mtd-portal/internal/content"
	"github.com/01moynul/mtd-portal/internal/database"
	"github.com/01moynul/mtd-portal/internal/forms"
	"github.com/01moynul/mtd-portal/internal/handlers"
	"github.com/01moynul/mtd-portal/internal/metrics"
	"github.com/01moynul/mtd-portal/internal/ratelimit"
	"github.com/01moynul/mtd-portal/internal/routes"
	"github.com/01moynul/mtd-portal/internal/store"
	"github.com/01moynul/mtd-portal/internal/store/memstore"
	"github.com/01moynul/mtd-portal/internal/store/mongostore"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	// 0. --- Config & Logger ---
	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)
	log.Info("starting portal API", slog.String("env", cfg.Env), slog.String("store", cfg.Store.Driver))
	if cfg.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. --- Document Store ---
	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	// 2. --- Form Rate Limiter (optional Redis) ---
	var limiter ratelimit.Limiter = ratelimit.Unlimited{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, form rate limiting degrades open", slog.Any("error", err))
		}
		limiter = ratelimit.NewRedis(rdb, "forms", cfg.Forms.RateLimit, cfg.Forms.RateWindow)
	}

	// 3. --- Content & Redirects ---
	redirects, err := content.LoadRedirects(cfg.Content.RedirectsCSV)
	if err != nil {
		log.Error("failed to load redirects", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("redirects loaded", slog.Int("count", len(redirects)))

	// --- Application Setup ---
	app := &handlers.Handlers{
		Store:  st,
		Issuer: auth.NewIssuer(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, cfg.Session.TTL),
		Forms: forms.NewClient(cfg.Forms.BaseURL, map[string]string{
			"contact":    cfg.Forms.FormID("contact"),
			"volunteer":  cfg.Forms.FormID("volunteer"),
			"newsletter": cfg.Forms.FormID("newsletter"),
		}, cfg.Forms.Timeout),
		Limiter:        limiter,
		Content:        content.NewLibrary(cfg.Content.Dir),
		Metrics:        metrics.New(),
		Log:            log,
		CookieName:     cfg.Session.CookieName,
		CookieSecure:   cfg.Session.CookieSecure,
		StreamInterval: cfg.Metrics.StreamInterval,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app, redirects)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	// --- Start Server ---
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: corsHandler,
	}
	go func() {
		log.Info("listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.Any("error", err))
	}
}

// openStore picks the backing store. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (*store.Store, func(), error) {
	if cfg.Store.Driver == config.DriverMemory {
		log.Warn("using the in-memory store, data is lost on restart")
		return memstore.New(), func() {}, nil
	}

	provider := database.NewProvider(cfg.Store.MongoURI, cfg.Store.MongoDatabase, cfg.Store.ConnectTimeout, log)
	db, err := provider.DB(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		_ = provider.Close(context.Background())
		return nil, nil, err
	}
	closeFn := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Store.ConnectTimeout)
		defer cancel()
		if err := provider.Close(closeCtx); err != nil {
			log.Error("failed to close store", slog.Any("error", err))
		}
	}
	return mongostore.New(db), closeFn, nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}
