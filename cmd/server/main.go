package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/auth"
	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/router"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

// run 启动服务并阻塞到收到退出信号，返回前执行全部清理
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Open(cfg.Database())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close(gdb)

	if err := service.NewAdminService(gdb).EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail); err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}
	if cfg.SeedDefaults {
		if err := db.SeedDefaults(gdb); err != nil {
			return fmt.Errorf("failed to seed default content: %w", err)
		}
	}

	files, err := storage.NewManager(cfg.UploadDir, cfg.UploadURLPath, cfg.MaxUploadBytes)
	if err != nil {
		return fmt.Errorf("failed to prepare upload dir: %w", err)
	}

	// 设置 Gin 路由并在外层挂载 CORS
	engine := router.SetupRouter(router.Options{
		DB:             gdb,
		Files:          files,
		Tokens:         auth.NewTokens(cfg.TokenSecret, cfg.TokenTTL),
		StaticDir:      cfg.StaticDir,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.NewHandler(engine, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[INFO] server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to run server: %w", err)
		}
	case <-ctx.Done():
		log.Printf("[INFO] shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] graceful shutdown failed: %v", err)
	}
	log.Printf("[INFO] server stopped")
	return nil
}
