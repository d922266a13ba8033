package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"screennotes/internal/app"
	"screennotes/internal/bot"
	"screennotes/internal/config"
	"screennotes/internal/ratelimit"
	"screennotes/internal/server"
	"screennotes/internal/util"
	"screennotes/pkg/ai"
	"screennotes/pkg/domain"
	"screennotes/pkg/notes"
	"screennotes/pkg/ocr"
	"screennotes/pkg/storage"
	"screennotes/pkg/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel)

	gormStore, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	var noteStore store.Store = gormStore
	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		noteStore = store.NewLanguageCache(gormStore, rdb)
		if cfg.RateLimitPerMinute > 0 {
			limiter, err = ratelimit.NewFixedWindowLimiter(rdb, "", cfg.RateLimitPerMinute, time.Minute)
			if err != nil {
				log.Fatalf("failed to init rate limiter: %v", err)
			}
		}
	}

	assets, err := storage.NewMinioStore(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBaseURL,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("failed to init object storage: %v", err)
	}

	pipeCfg := app.Config{Assets: assets, Store: noteStore}
	switch cfg.Backend {
	case config.BackendYandex:
		client, err := ocr.NewYandexClient(cfg.YandexIAMToken, cfg.YandexFolderID)
		if err != nil {
			log.Fatalf("failed to init yandex ocr: %v", err)
		}
		pipeCfg.Provider = client.Provider()
		pipeCfg.Extractor = client
		pipeCfg.Structurer = notes.NewStructurer()
	case config.BackendVision:
		client, err := ocr.NewVisionClient(cfg.VisionAPIKey)
		if err != nil {
			log.Fatalf("failed to init vision client: %v", err)
		}
		pipeCfg.Provider = client.Provider()
		pipeCfg.Extractor = ocr.NewRouter(map[domain.MediaKind]ocr.Extractor{
			domain.MediaImage: client,
			domain.MediaPDF:   ocr.NewPDFExtractor(),
		})
		pipeCfg.Structurer = notes.NewStructurer()
	case config.BackendAI:
		structurer, err := ai.NewVisionStructurer(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)
		if err != nil {
			log.Fatalf("failed to init ai structurer: %v", err)
		}
		pipeCfg.Provider = structurer.Provider()
		pipeCfg.Vision = structurer
	}

	pipeline, err := app.New(pipeCfg)
	if err != nil {
		log.Fatalf("failed to init pipeline: %v", err)
	}

	tgBot, err := bot.New(bot.Config{
		Token:    cfg.TelegramToken,
		Pipeline: pipeline,
		Store:    noteStore,
		Limiter:  limiter,
	})
	if err != nil {
		log.Fatalf("failed to init bot: %v", err)
	}

	port := cfg.HealthPort
	if port == "" {
		port = "8080"
	}
	healthSrv := &http.Server{
		Addr:         ":" + port,
		Handler:      server.New().Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("screennotes starting", "backend", string(cfg.Backend), "health_addr", healthSrv.Addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tgBot.Run(ctx)
	})
	g.Go(func() error {
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return healthSrv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("service error", "err", err)
	}
	slog.Info("screennotes stopped")
}
