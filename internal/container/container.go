package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/garyjia/leave-desk/internal/application/dispatcher"
	"github.com/garyjia/leave-desk/internal/application/port"
	"github.com/garyjia/leave-desk/internal/application/service"
	"github.com/garyjia/leave-desk/internal/config"
	"github.com/garyjia/leave-desk/internal/domain/event"
	"github.com/garyjia/leave-desk/internal/report"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	storage    *StorageBundle
	journal    *JournalBundle
	dispatcher dispatcher.Dispatcher
	notifier   port.Notifier
	exporter   *report.ExcelExporter
	leaves     service.LeaveService

	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Document storage
// 2. Review journal (optional)
// 3. Notifier and event dispatcher (optional)
// 4. Leave service and exporter
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Debug("Starting container initialization")

	storage, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.storage = storage
	c.logger.Debug("Storage initialized", zap.String("data_dir", c.config.Storage.DataDir))

	journal, err := ProvideJournal(&c.config.History, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize review journal: %w", err)
	}
	c.journal = journal
	c.logger.Debug("Review journal initialized", zap.Bool("enabled", journal != nil))

	notifier, err := ProvideNotifier(&c.config.Lark, c.logger)
	if err != nil {
		c.closeJournal()
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}
	c.dispatcher, c.notifier = ProvideDispatcher(notifier, c.logger)
	c.logger.Debug("Notifier initialized", zap.Bool("enabled", notifier != nil))

	leaves, err := ProvideLeaveService(&ServiceDeps{
		Storage:  c.storage,
		Journal:  c.journal,
		Notifier: c.notifier,
		Strict:   c.config.Storage.StrictWrites,
		Logger:   c.logger,
	})
	if err != nil {
		c.closeDispatcher()
		c.closeJournal()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.leaves = leaves
	c.exporter = report.NewExcelExporter(c.config.Export.SheetName, c.logger)

	if err := ctx.Err(); err != nil {
		c.closeDispatcher()
		c.closeJournal()
		return err
	}

	c.ready.Store(true)
	c.logger.Debug("Container started successfully")
	return nil
}

// Close shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	// pending notifications finish before the journal goes away
	c.closeDispatcher()
	err := c.closeJournal()

	c.closed.Store(true)
	c.ready.Store(false)

	if err != nil {
		return fmt.Errorf("close review journal: %w", err)
	}
	c.logger.Debug("Container closed successfully")
	return nil
}

func (c *Container) closeDispatcher() {
	if c.dispatcher == nil {
		return
	}
	if err := c.dispatcher.Close(); err != nil {
		c.logger.Warn("Failed to close dispatcher", zap.Error(err))
	}
	c.dispatcher = nil
}

func (c *Container) closeJournal() error {
	if c.journal == nil {
		return nil
	}
	err := c.journal.DB.Close()
	if err != nil {
		c.logger.Error("Failed to close review journal", zap.Error(err))
	}
	c.journal = nil
	return err
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	if c.storage != nil {
		employees := c.storage.Store.LoadEmployees(ctx)
		if employees.Degraded() {
			status.Components["employees"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("employee document is %s", employees.Source),
			}
			status.Overall = false
		} else {
			status.Components["employees"] = ComponentHealth{
				Healthy: true,
				Message: fmt.Sprintf("%d employees", len(employees.Items)),
			}
		}
	} else {
		status.Components["employees"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	if c.journal != nil {
		if err := c.journal.DB.PingContext(ctx); err != nil {
			status.Components["journal"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["journal"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["journal"] = ComponentHealth{Healthy: true, Message: "disabled"}
	}

	if c.dispatcher != nil {
		status.Components["notifications"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("%d handlers", len(c.dispatcher.ListHandlers(event.TypeLeaveSubmitted))+
				len(c.dispatcher.ListHandlers(event.TypeLeaveReviewed))),
		}
	} else {
		status.Components["notifications"] = ComponentHealth{Healthy: true, Message: "disabled"}
	}

	return status
}

// Getters for accessing container components

// LeaveService returns the leave workflow service.
func (c *Container) LeaveService() service.LeaveService {
	return c.leaves
}

// Employees returns the employee document repository.
func (c *Container) Employees() port.EmployeeRepository {
	return c.storage.Store
}

// Leaves returns the leave document repository.
func (c *Container) Leaves() port.LeaveRepository {
	return c.storage.Store
}

// Exporter returns the spreadsheet exporter.
func (c *Container) Exporter() *report.ExcelExporter {
	return c.exporter
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}
