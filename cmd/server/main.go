package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jo-hoe/filterapi/internal/backend"
	_ "github.com/jo-hoe/filterapi/internal/backend/filters"
	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/core"
)

func getConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml")
}

// loadConfig falls back to defaults when no config file exists at the default location
func loadConfig(configPath string) (*core.ServiceConfig, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) && os.Getenv("CONFIG_PATH") == "" {
		slog.Warn("no config file found, using defaults", "path", configPath)
		return core.DefaultConfig(), nil
	}
	return core.LoadConfig(configPath)
}

func main() {
	configPath := getConfigPath()
	config, err := loadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	level, err := config.SlogLevel()
	if err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	coreService := core.NewCoreService(config, filterstructure.DefaultRegistry)
	server := backend.DefineServer(config)

	apiService := backend.NewAPIService(config, coreService)
	apiService.SetRoutes(server)

	portString := fmt.Sprintf(":%d", config.Port)

	go func() {
		slog.Info("starting http server", "address", portString)
		if err := server.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := coreService.Close(); err != nil {
		slog.Error("core service close error", "error", err)
	}
}
