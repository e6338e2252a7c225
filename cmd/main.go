package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"wb-parser-bot/internal/bot"
	"wb-parser-bot/internal/config"
	"wb-parser-bot/internal/kafka"
	"wb-parser-bot/internal/logger"
	"wb-parser-bot/internal/monitoring"
	"wb-parser-bot/internal/scrapers"
	"wb-parser-bot/internal/server"
	"wb-parser-bot/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize custom logger
	clog, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal("failed to initialize clog:", err)
	}
	defer func(clog logger.Logger) {
		if err := clog.Close(); err != nil {
			log.Println("failed to close custom logger:", err)
		}
	}(clog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := monitoring.NewMetrics()

	// Optional Kafka publisher for parse results
	var publisher bot.Publisher
	if cfg.KafkaEnabled {
		producer, err := kafka.NewProducer([]string{cfg.KafkaHost}, cfg.KafkaTopic, clog)
		if err != nil {
			clog.Errorf("Kafka publishing disabled: %v", err)
		} else {
			defer func() {
				if err := producer.Close(); err != nil {
					clog.Errorf("Failed to close Kafka producer: %v", err)
				}
			}()
			publisher = producer
		}
	}

	scraper := scrapers.NewWildberriesScraper(
		scrapers.DefaultWildberriesConfig().WithTimeout(cfg.FetchTimeout),
		clog,
	)

	relay := bot.NewRelay(bot.RelayConfig{
		AllowedDomains: cfg.AllowedDomains,
		PreviewLength:  cfg.PreviewLength,
	}, scraper, publisher, metrics, clog)

	// Connect to Telegram, the API may be briefly unreachable on startup
	var api *tgbotapi.BotAPI
	err = worker.Retry(ctx, worker.RetryConfig{
		Attempts:       cfg.InitAttempts,
		InitialBackoff: cfg.InitBackoff,
	}, func() error {
		var err error
		api, err = tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			clog.Warnf("Retry warning: telegram connection failed: %v", err)
		}
		return err
	})
	if err != nil {
		clog.Errorf("Failed to connect to Telegram: %v", err)
		return
	}
	clog.Infof("Authorized as @%s", api.Self.UserName)

	// Health and metrics endpoints
	var srv *server.Server
	if cfg.AppPort > 0 {
		srv = server.NewServer(cfg.AppPort, metrics, clog)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				clog.Errorf("HTTP server failed: %v", err)
			}
		}()
	}

	if err := bot.NewTelegram(api, relay, cfg.WorkerCount, clog).Run(ctx); err != nil {
		clog.Errorf("Poller stopped with error: %v", err)
	}

	clog.Infof("Shutting down gracefully...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			clog.Errorf("HTTP server forced to shutdown: %v", err)
		}
	}
}
