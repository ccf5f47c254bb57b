package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrPunder/grouppicker/internal/catalog"
	"github.com/MrPunder/grouppicker/internal/config"
	"github.com/MrPunder/grouppicker/internal/groups"
	"github.com/MrPunder/grouppicker/internal/groupserver"
	"github.com/MrPunder/grouppicker/internal/handlers"
	"github.com/MrPunder/grouppicker/internal/logger"
	"github.com/MrPunder/grouppicker/internal/middleware"
	"github.com/MrPunder/grouppicker/internal/settings"
)

func main() {
	configPath := config.ConfigPathFlag("config.yaml")
	flag.Parse()

	conf, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(err)
	}
	log, err := logger.NewZapLogger(conf)
	if err != nil {
		panic(err)
	}
	log.Info("Initialized logger")
	log.Infof("Storage: %s, catalog source: %s", conf.Storage.Type, conf.Catalog.Source)

	fallback, err := groups.ParseFallback(conf.Sorting.Fallback)
	if err != nil {
		log.Errorf("Invalid sorting config: %v", err)
		panic(err)
	}
	sorter := groups.Sorter{Fallback: fallback}

	store, err := settings.Open(conf.Storage)
	if err != nil {
		log.Errorf("Failed to initialize storage: %v", err)
		panic(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorf("Failed to close storage: %v", err)
		}
	}()
	log.Info("Storage initialized successfully")

	fetcher, err := catalog.NewFetcher(conf.Catalog, log)
	if err != nil {
		log.Errorf("Failed to initialize catalog: %v", err)
		panic(err)
	}
	groupCatalog := catalog.New(fetcher, sorter, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Сервер поднимается и без списка групп: API ответит 503 до первой удачной загрузки
	if err := groupCatalog.Refresh(ctx); err != nil {
		log.Errorf("Initial group list load failed, will retry in %s", conf.Catalog.RefreshInterval)
	}
	go groupCatalog.Run(ctx, conf.Catalog.RefreshInterval)

	handler := handlers.NewHandler(log, groupCatalog, store, sorter, conf.Telegram.BotName)
	router := handlers.NewRouter(handler)

	server := groupserver.NewGroupServer(conf.Server.RunAddress, router, log)

	hLogger := middleware.NewHTTPLoger(log)
	compressor := middleware.NewGzipCompressor(log)
	tokenAuth := middleware.NewTokenAuth(middleware.TokenAuthConfig{
		APIToken: conf.API.Token,
		Logger:   log,
	})
	server.AddMiddleware(compressor.CompressHandler, tokenAuth.Middleware, hLogger.HTTPLogHandler)
	log.Info("Initialized middleware functions")

	go func() {
		if err := server.RunServer(); err != nil {
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}

	log.Info("Initialized shutdown")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Cann't stop server %s", err)
	}
	cancel()

	// Закрываем логгер перед завершением программы
	if err := log.Close(); err != nil {
		panic(err)
	}
}
