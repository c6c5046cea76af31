package main

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"menuchat/internal/chat"
	"menuchat/internal/config"
	"menuchat/internal/db"
	"menuchat/internal/importer"
	"menuchat/internal/llm"
	"menuchat/internal/logger"
	"menuchat/internal/restaurant"
	"menuchat/internal/router"
	"menuchat/internal/storage"
)

func main() {
	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	now := func() time.Time { return time.Now().In(cfg.Timezone) }

	// ───────────────────────── STORAGE ─────────────────────────
	var r2 *storage.R2Client
	if cfg.R2Enabled() {
		r2, err = storage.NewR2Client(ctx, storage.R2Options{
			Endpoint:      cfg.R2Endpoint,
			AccessKey:     cfg.R2AccessKey,
			SecretKey:     cfg.R2SecretKey,
			Bucket:        cfg.R2Bucket,
			PublicBaseURL: cfg.R2PublicBaseURL,
		})
		if err != nil {
			zlog.Fatal("r2 init failed", zap.Error(err))
		}
	}

	repo, backups, closeRepo, err := openRepository(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("store backend init failed", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer closeRepo()

	if r2 != nil {
		backups = append(backups, r2)
	}

	store, err := restaurant.NewStore(ctx, repo, zlog,
		restaurant.WithBackups(backups...),
		restaurant.WithClock(now),
	)
	if err != nil {
		zlog.Fatal("load restaurants failed", zap.Error(err))
	}

	// ───────────────────────── LLM ─────────────────────────
	llmClient := newLLMClient(cfg, zlog)

	// ───────────────────────── SERVICES ─────────────────────────
	extractor := importer.NewLLMExtractor(llmClient, importer.NewPageFetcher(cfg.FetchTimeout), now)
	importService := importer.NewService(store, extractor, zlog)
	chatService := chat.NewService(store, llmClient, zlog, now)

	var upload importer.ImageUploader
	if r2 != nil && cfg.RemoteImagesEnabled() {
		upload = func(ctx context.Context, file *multipart.FileHeader) (string, error) {
			return storage.UploadMultipartFile(ctx, r2, file)
		}
	}

	// ───────────────────────── HTTP ─────────────────────────
	r := router.NewRouter(router.Handlers{
		Restaurants: restaurant.NewHandler(store, now),
		Imports:     importer.NewHandler(importService, upload),
		Chat:        chat.NewHandler(chatService),
	}, cfg.CORSOrigins, zlog)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("api running", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreBackend), zap.String("llm", cfg.LLMProvider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openRepository picks the snapshot backend named by STORE_BACKEND.
func openRepository(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (restaurant.Repository, []restaurant.Backuper, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case "memory":
		repo := restaurant.NewMemoryRepository()
		return repo, []restaurant.Backuper{repo}, noop, nil

	case "postgres":
		pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL, zlog)
		if err != nil {
			return nil, nil, noop, err
		}
		repo := restaurant.NewPostgresRepository(pool)
		return repo, []restaurant.Backuper{repo}, pool.Close, nil

	case "redis":
		client, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, zlog)
		if err != nil {
			return nil, nil, noop, err
		}
		repo := restaurant.NewRedisRepository(client, 30*24*time.Hour)
		return repo, []restaurant.Backuper{repo}, func() { _ = client.Close() }, nil

	case "file":
		repo := restaurant.NewFileRepository(cfg.DataFile)
		return repo, []restaurant.Backuper{restaurant.NewFileBackup(cfg.BackupDir)}, noop, nil

	default:
		return nil, nil, noop, eris.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func newLLMClient(cfg *config.Config, zlog *zap.Logger) llm.Client {
	if cfg.LLMProvider == "gemini" {
		return llm.NewGeminiClient(cfg.GeminiKey, cfg.GeminiModel, zlog)
	}
	return llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, zlog)
}
