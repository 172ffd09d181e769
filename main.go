package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"scdaid/config"
	qhttp "scdaid/http"
	"scdaid/logging"
	"scdaid/ml"
	"scdaid/predictor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 2. Load the model; without it the service must not come up
	model, err := ml.LoadModel(ml.ArtifactFile)
	if err != nil {
		logger.Fatal("failed to load model", zap.String("path", ml.ArtifactFile), zap.Error(err))
	}
	p, err := predictor.New(model, cfg.Confidence)
	if err != nil {
		logger.Fatal("failed to build predictor", zap.Error(err))
	}
	logger.Info("model loaded",
		zap.String("path", ml.ArtifactFile),
		zap.Float64("confidence_high", cfg.Confidence.High),
		zap.Float64("confidence_medium", cfg.Confidence.Medium),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchArtifact(ctx, logger)

	// 3. Start HTTP server
	serverConfig := qhttp.DefaultServerConfig()
	serverConfig.Port = cfg.Http.Port
	serverConfig.MaxBodyBytes = cfg.Http.MaxBodyBytes
	serverConfig.ShutdownTimeout = cfg.Http.ShutdownTimeout
	server := qhttp.NewServer(serverConfig, p, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}

// watchArtifact only warns: the loaded model stays in memory until restart.
func watchArtifact(ctx context.Context, logger *zap.Logger) {
	err := ml.WatchArtifact(ctx, ml.ArtifactFile,
		func(event fsnotify.Event) {
			logger.Warn("model artifact changed on disk; restart to serve it",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()),
			)
		},
		func(err error) {
			logger.Warn("artifact watcher error", zap.Error(err))
		},
	)
	if err != nil {
		logger.Warn("artifact watcher disabled", zap.Error(err))
	}
}
