package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrPunder/grouppicker/internal/catalog"
	"github.com/MrPunder/grouppicker/internal/config"
	"github.com/MrPunder/grouppicker/internal/groups"
	"github.com/MrPunder/grouppicker/internal/logger"
	"github.com/MrPunder/grouppicker/internal/settings"
	"github.com/MrPunder/grouppicker/internal/telegrambot"
)

func main() {
	configPath := config.ConfigPathFlag("config.yaml")
	token := flag.String("token", "", "telegram bot token (overrides config)")
	flag.Parse()

	conf, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *token != "" {
		conf.Telegram.Token = *token
	}

	zapLogger, err := logger.NewZapLogger(conf)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zapLogger.Info("Initialized logger")

	if conf.Telegram.Token == "" {
		zapLogger.Error("Bot token is not set. Use telegram.token in config or the -token flag")
		os.Exit(1)
	}

	fallback, err := groups.ParseFallback(conf.Sorting.Fallback)
	if err != nil {
		zapLogger.Errorf("Invalid sorting config: %v", err)
		os.Exit(1)
	}
	sorter := groups.Sorter{Fallback: fallback}

	store, err := settings.Open(conf.Storage)
	if err != nil {
		zapLogger.Errorf("Failed to initialize storage: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	fetcher, err := catalog.NewFetcher(conf.Catalog, zapLogger)
	if err != nil {
		zapLogger.Errorf("Failed to initialize catalog: %v", err)
		os.Exit(1)
	}
	groupCatalog := catalog.New(fetcher, sorter, zapLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := groupCatalog.Refresh(ctx); err != nil {
		zapLogger.Errorf("Initial group list load failed, will retry in %s", conf.Catalog.RefreshInterval)
	}
	go groupCatalog.Run(ctx, conf.Catalog.RefreshInterval)

	bot, err := telegrambot.NewGroupBot(telegrambot.Config{
		Token:       conf.Telegram.Token,
		BotName:     conf.Telegram.BotName,
		MaxResults:  conf.Telegram.MaxResults,
		PollTimeout: time.Duration(conf.Telegram.PollTimeout) * time.Second,
	}, groupCatalog, store, sorter, zapLogger)
	if err != nil {
		zapLogger.Errorf("Failed to create bot: %v", err)
		os.Exit(1)
	}

	if err := bot.Start(); err != nil {
		zapLogger.Errorf("Failed to start bot: %v", err)
		os.Exit(1)
	}
	zapLogger.Info("Bot started")

	// Ожидаем сигнала завершения
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLogger.Info("Received shutdown signal")
	cancel()

	if err := bot.Stop(); err != nil {
		zapLogger.Errorf("Failed to stop bot: %v", err)
	}

	zapLogger.Info("Bot stopped")
	if err := zapLogger.Close(); err != nil {
		log.Printf("Failed to flush logger: %v", err)
	}
}
