package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/garyjia/leave-desk/internal/config"
	"github.com/garyjia/leave-desk/internal/container"
	httpapi "github.com/garyjia/leave-desk/internal/interfaces/http"
	"github.com/garyjia/leave-desk/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting leave desk",
		zap.String("version", "1.0.0"),
		zap.String("data_dir", cfg.Storage.DataDir),
		zap.Bool("strict_writes", cfg.Storage.StrictWrites),
		zap.Bool("review_journal", cfg.History.Enabled),
		zap.Bool("lark", cfg.Lark.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}
	if err := c.Start(ctx); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close container", zap.Error(err))
		}
	}()

	for name, component := range c.Health(ctx).Components {
		if !component.Healthy {
			logger.Warn("Component unhealthy at startup",
				zap.String("component", name),
				zap.String("message", component.Message))
		}
	}

	server := httpapi.NewServer(
		httpapi.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		c.LeaveService(),
		c.Employees(),
		c.Exporter(),
		httpapi.NewSessionStore(cfg.Session.TTL),
		healthOf(c),
		logger,
	)

	if err := server.Start(ctx, cfg.Session.TTL/4); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		return
	}

	logger.Info("Leave desk stopped")
}

// healthOf exposes the container's component checks to GET /health
func healthOf(c *container.Container) httpapi.HealthFunc {
	return func(ctx context.Context) map[string]httpapi.ComponentHealth {
		status := c.Health(ctx)
		components := make(map[string]httpapi.ComponentHealth, len(status.Components))
		for name, component := range status.Components {
			components[name] = httpapi.ComponentHealth{
				Healthy: component.Healthy,
				Message: component.Message,
			}
		}
		return components
	}
}
