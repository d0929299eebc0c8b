package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/config"
	"github.com/Skotchmaster/shop_backend/internal/events"
	"github.com/Skotchmaster/shop_backend/internal/httpserver"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	loggingmw "github.com/Skotchmaster/shop_backend/internal/middleware/logging"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/search"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/pkg/db"
)

func main() {
	cfg := config.Load()
	config.Require("DB_HOST", cfg.DBHost)
	config.Require("DB_USER", cfg.DBUser)
	config.Require("DB_NAME", cfg.DBName)
	config.RequireSecret("JWT_SECRET", cfg.JWTSecret)

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	gormRepo := &repo.GormRepo{DB: database}

	catalogSvc := &service.CatalogService{
		Repo:  gormRepo,
		Index: search.ProductIndex,
	}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("elasticsearch unavailable, search falls back to SQL", "error", err)
		} else {
			catalogSvc.ES = es
		}
	}

	deps := &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc:      &service.AuthService{Repo: gormRepo, JWTSecret: cfg.JWTSecret},
			Producer: producer,
		},
		CatalogHandler: &httpserver.CatalogHTTP{
			Svc:      catalogSvc,
			Producer: producer,
		},
		CartHandler: &httpserver.CartHTTP{
			Svc:      &service.CartService{Repo: gormRepo, MergeLines: cfg.CartMergeLines},
			Producer: producer,
		},
		OrderHandler: &httpserver.OrderHTTP{
			Svc:      &service.OrderService{Repo: gormRepo},
			Producer: producer,
		},
		JWTSecret: cfg.JWTSecret,
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
