package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/go-tangra/tangra-bookmark/internal/adapters/driven/identity"
	"github.com/go-tangra/tangra-bookmark/internal/adapters/driven/persistence"
	"github.com/go-tangra/tangra-bookmark/internal/adapters/driving/httpapi"
	"github.com/go-tangra/tangra-bookmark/internal/config"
	"github.com/go-tangra/tangra-bookmark/internal/core/ports/driven"
	"github.com/go-tangra/tangra-bookmark/internal/core/services"
	"github.com/go-tangra/tangra-bookmark/internal/logger"
	"github.com/go-tangra/tangra-bookmark/internal/registration"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	db, err := persistence.Open(cfg.DBDriver, cfg.DSN)
	if err != nil {
		zlog.Fatal("open database", zap.Error(err))
	}
	if err := persistence.AutoMigrate(db); err != nil {
		zlog.Fatal("migrate database", zap.Error(err))
	}
	tuples := persistence.NewTupleRepository(db)

	var directory driven.IdentityDirectory
	var embedded *identity.CasbinDirectory
	switch cfg.IdentityMode {
	case "remote":
		directory = identity.NewHTTPDirectory(cfg.IdentityEndpoint, cfg.IdentityTimeout)
	case "none":
		directory = identity.NewStaticDirectory()
	default:
		var err error
		embedded, err = identity.NewCasbinDirectory(db)
		if err != nil {
			zlog.Fatal("init embedded role directory", zap.Error(err))
		}
		directory = embedded
	}

	resolver := services.NewDirectoryResolver(directory, cfg.IdentityTimeout)
	engine := services.NewAuthorizationEngine(tuples, resolver, zlog)
	checker := services.NewChecker(engine)

	server := httpapi.NewServer(engine, checker, zlog)
	if embedded != nil {
		server = server.WithRoleAdmin(embedded)
	}
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SweepInterval > 0 {
		sweeper := services.NewExpirySweeper(tuples, cfg.SweepInterval, cfg.SweepRetention, zlog)
		go sweeper.Run(ctx)
	}

	if cfg.AdminEndpoint != "" {
		advertise := cfg.AdvertiseAddr
		if advertise == "" {
			advertise = cfg.Addr
		}
		client := registration.NewClient(cfg.AdminEndpoint, advertise, cfg.ModuleAuthToken, zlog)
		go client.Run(ctx)
	}

	go func() {
		zlog.Info("bookmark permission service listening",
			zap.String("addr", cfg.Addr),
			zap.String("db_driver", cfg.DBDriver),
			zap.String("identity_mode", cfg.IdentityMode),
		)
		var err error
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			err = httpServer.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
		os.Exit(1)
	}
}
