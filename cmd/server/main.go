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
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iliyamo/shop-reservation/internal/config"
	"github.com/iliyamo/shop-reservation/internal/database"
	"github.com/iliyamo/shop-reservation/internal/handler"
	"github.com/iliyamo/shop-reservation/internal/logger"
	"github.com/iliyamo/shop-reservation/internal/metrics"
	"github.com/iliyamo/shop-reservation/internal/middleware"
	"github.com/iliyamo/shop-reservation/internal/repository"
	"github.com/iliyamo/shop-reservation/internal/reservation"
	"github.com/iliyamo/shop-reservation/internal/router"
	"github.com/iliyamo/shop-reservation/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		log.Warn("unknown APP_TIMEZONE, using UTC", "timezone", cfg.Timezone, "error", err)
	}

	if cfg.AutoMigrate {
		dsn := database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err := database.RunMigrations(database.MigrationURL(dsn)); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable: local rate limiting, no response cache")
	} else {
		defer rdb.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	shops := repository.NewShopRepo(db)
	reservations := repository.NewReservationRepo(db)

	opts := []reservation.Option{
		reservation.WithLocation(loc),
		reservation.WithRecorder(collector),
		reservation.WithLogger(log),
	}
	if qcfg := config.LoadQueueConfig(); qcfg.Enabled {
		opts = append(opts, reservation.WithPublisher(service.NewPublisher(qcfg.URL, qcfg.Queue, log)))
	}
	booking := reservation.NewService(shops, reservations, opts...)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log, collector))

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, collector)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, collector)

	router.RegisterRoutes(e, db)
	if cfg.MetricsEnabled {
		router.RegisterMetrics(e, metrics.Handler(reg))
	}
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret, limiter)
	router.RegisterPublic(e, handler.NewPublicHandler(shops, cfg.DBTimeout), cache)
	router.RegisterUser(e, handler.NewReservationHandler(booking, reservations, cfg.DBTimeout), cfg.JWTSecret, limiter)
	router.RegisterShopAdmin(e, handler.NewShopAdminHandler(shops, reservations, cfg.DBTimeout), cfg.JWTSecret)
	router.RegisterSystemAdmin(e, handler.NewSystemAdminHandler(shops, cfg.DBTimeout), cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "timezone", loc.String())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
