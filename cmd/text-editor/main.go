package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"text-editor-server/internal/config"
	"text-editor-server/internal/editor"
	"text-editor-server/internal/filesystem"
	"text-editor-server/internal/lock"
	"text-editor-server/internal/mcp"
	"text-editor-server/internal/pathresolve"
	"text-editor-server/internal/transport"
)

func main() {
	cfg := config.ParseFlags()
	if err := cfg.Validate(); err != nil {
		// Logger is not up yet.
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		os.Stderr.WriteString("logger setup error: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("effective configuration",
		zap.String("working_directory", cfg.WorkingDirectory),
		zap.String("transport", cfg.Transport),
		zap.Int("port", cfg.Port),
		zap.Int("max_request_size_mb", cfg.MaxRequestSizeMB),
		zap.Int("timeout_sec", cfg.OperationTimeoutSec))

	guard, err := lock.Acquire(cfg.WorkingDirectory, time.Duration(cfg.OperationTimeoutSec)*time.Second)
	if err != nil {
		logger.Fatal("another instance holds the working directory", zap.Error(err))
	}
	defer guard.Release()

	fs := filesystem.NewDefaultAdapter()
	resolver := pathresolve.New(fs, cfg.WorkingDirectory, logger)
	svc := editor.New(fs, resolver, logger)
	processor := mcp.NewProcessor(svc, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	var httpHandler *transport.HTTPHandler

	switch cfg.Transport {
	case "http":
		httpHandler = transport.NewHTTPHandler(svc, cfg.MaxRequestSizeBytes(), logger)
		go func() {
			done <- httpHandler.StartServer(cfg.Port, cfg.OperationTimeoutSec, cfg.OperationTimeoutSec)
		}()
	case "stdio":
		stdioHandler := transport.NewStdioHandler(processor, int(cfg.MaxRequestSizeBytes()), logger)
		go func() {
			done <- stdioHandler.Start(ctx, os.Stdin, os.Stdout)
		}()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signals:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
		if httpHandler != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
				time.Duration(cfg.OperationTimeoutSec)*time.Second)
			defer shutdownCancel()
			if err := httpHandler.Shutdown(shutdownCtx); err != nil {
				logger.Error("http shutdown failed", zap.Error(err))
			}
		}
	case err := <-done:
		if err != nil {
			logger.Error("transport stopped with error", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("transport stopped")
	}
}

// buildLogger constructs the process logger. With stdio transport every log
// line goes to stderr so stdout stays a clean JSON-RPC stream.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	return zapCfg.Build()
}
