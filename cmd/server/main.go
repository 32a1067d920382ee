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

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/teewear/shop/internal/config"
	"github.com/teewear/shop/internal/es"
	"github.com/teewear/shop/internal/handlers"
	"github.com/teewear/shop/internal/handlers/cart"
	"github.com/teewear/shop/internal/handlers/order"
	"github.com/teewear/shop/internal/logging"
	loggingmw "github.com/teewear/shop/internal/middleware/logging"
	"github.com/teewear/shop/internal/mykafka"
	"github.com/teewear/shop/internal/service"
	httpserver "github.com/teewear/shop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			logger.Error("elasticsearch init failed", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	if configuration.CORS_ORIGIN != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{configuration.CORS_ORIGIN},
			AllowCredentials: true,
		}))
	}

	deps := httpserver.Deps{
		DB: db,
		AuthHandler: &handlers.AuthHandler{
			DB:            db,
			JWTSecret:     jwtSecret,
			RefreshSecret: refreshSecret,
			Producer:      prod,
		},
		ProductHandler: &handlers.ProductHandler{
			DB:       db,
			Producer: prod,
			ES:       esClient,
			ESIndex:  configuration.ES_INDEX,
		},
		CategoryHandler: &handlers.CategoryHandler{DB: db},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: configuration.ES_INDEX},
		CartHandler:     &cart.CartHandler{DB: db, Producer: prod},
		OrderHandler:    &order.OrderHandler{DB: db, Producer: prod},
		TokenService:    &service.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db() error", "error", err)
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
