package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vidstate/server/internal/controller"
	"github.com/vidstate/server/internal/repository/connection/inmemory"
	playerRedis "github.com/vidstate/server/internal/repository/player/redis"
	"github.com/vidstate/server/internal/service/player"
	"github.com/vidstate/server/pkg/ctxlogger"
	"github.com/vidstate/server/pkg/redisclient"
)

type AppConfig struct {
	Host             string `json:"host"`
	Port             int    `json:"port"`
	LogLevel         string `json:"log_level"`
	DefaultFPS       int    `json:"default_fps"`
	DefaultHeight    int    `json:"default_height"`
	UpdateThrottleMS int    `json:"update_throttle_ms"`
	SampleWindowMS   int    `json:"sample_window_ms"`
	SnapshotTTLSec   int    `json:"snapshot_ttl_sec"`
	RedisPort        int    `json:"redis_port"`
	RedisHost        string `json:"redis_host"`
	RedisPassword    string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.DefaultFPS < 1 {
		return fmt.Errorf("default fps must be greater than 0")
	}
	if cfg.UpdateThrottleMS < 1 {
		return fmt.Errorf("update throttle must be greater than 0")
	}
	if cfg.SampleWindowMS < 1 {
		return fmt.Errorf("sample window must be greater than 0")
	}
	if cfg.SnapshotTTLSec < 1 {
		return fmt.Errorf("snapshot ttl must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	playerRepo := playerRedis.NewRepo(rc, time.Duration(cfg.SnapshotTTLSec)*time.Second)
	connectionRepo := inmemory.NewRepo()
	playerService := player.NewService(playerRepo, connectionRepo, player.Config{
		DefaultFPS:     cfg.DefaultFPS,
		DefaultHeight:  cfg.DefaultHeight,
		UpdateThrottle: time.Duration(cfg.UpdateThrottleMS) * time.Millisecond,
		SampleWindow:   time.Duration(cfg.SampleWindowMS) * time.Millisecond,
	}, logger)
	controller := controller.NewController(playerService, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
