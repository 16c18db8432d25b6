// Package container provides dependency wiring and lifecycle management
// for the leave desk, shared by the HTTP server and the CLI.
package container

import (
	"fmt"

	"github.com/garyjia/leave-desk/internal/application/dispatcher"
	"github.com/garyjia/leave-desk/internal/application/port"
	"github.com/garyjia/leave-desk/internal/application/service"
	"github.com/garyjia/leave-desk/internal/config"
	infraLark "github.com/garyjia/leave-desk/internal/infrastructure/external/lark"
	"github.com/garyjia/leave-desk/internal/infrastructure/persistence/jsonstore"
	"github.com/garyjia/leave-desk/internal/infrastructure/persistence/repository"
	"github.com/garyjia/leave-desk/internal/infrastructure/storage"
	"github.com/garyjia/leave-desk/pkg/database"
	"go.uber.org/zap"
)

// StorageBundle holds the document storage components.
type StorageBundle struct {
	FileStorage port.FileStorage
	Store       *jsonstore.Store
}

// JournalBundle holds the review journal database and repository.
type JournalBundle struct {
	DB      *database.DB
	Reviews port.ReviewRepository
}

// ProvideStorage creates the file storage rooted at the data directory and
// the JSON document store on top of it.
func ProvideStorage(cfg *config.StorageConfig, logger *zap.Logger) (*StorageBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("storage.data_dir is required")
	}

	files := storage.NewLocalFileStorage(cfg.DataDir, logger)
	store := jsonstore.New(files, jsonstore.Config{
		EmployeesFile: cfg.EmployeesFile,
		LeavesFile:    cfg.LeavesFile,
	}, logger)

	return &StorageBundle{
		FileStorage: files,
		Store:       store,
	}, nil
}

// ProvideJournal opens the review journal database and runs the embedded
// migrations. It returns nil when the journal is disabled.
func ProvideJournal(cfg *config.HistoryConfig, logger *zap.Logger) (*JournalBundle, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).RunMigrations(database.EmbeddedMigrations()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &JournalBundle{
		DB:      db,
		Reviews: repository.NewReviewRepository(db.DB, logger),
	}, nil
}

// ProvideNotifier creates the Lark chat notifier. It returns nil when Lark is
// disabled.
func ProvideNotifier(cfg *config.LarkConfig, logger *zap.Logger) (port.Notifier, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, fmt.Errorf("lark credentials are required")
	}
	if cfg.ChatID == "" {
		return nil, fmt.Errorf("lark.chat_id is required")
	}

	sdkClient := infraLark.NewSDKClient(infraLark.Config{
		AppID:      cfg.AppID,
		AppSecret:  cfg.AppSecret,
		ChatID:     cfg.ChatID,
		APITimeout: cfg.APITimeout,
	}, logger)
	messenger := infraLark.NewMessenger(sdkClient, logger)

	return infraLark.NewNotifier(messenger, cfg.ChatID, logger), nil
}

// ProvideDispatcher moves delivery to chat off the request path. The returned
// notifier publishes events; target receives them on dispatcher goroutines.
// Both results are nil when target is nil.
func ProvideDispatcher(target port.Notifier, logger *zap.Logger) (dispatcher.Dispatcher, port.Notifier) {
	if target == nil {
		return nil, nil
	}
	d := dispatcher.NewDispatcher(logger)
	dispatcher.RegisterNotifier(d, "lark-notifier", target)
	return d, dispatcher.NewAsyncNotifier(d)
}

// ServiceDeps holds what the leave service is built from.
type ServiceDeps struct {
	Storage  *StorageBundle
	Journal  *JournalBundle
	Notifier port.Notifier
	Strict   bool
	Logger   *zap.Logger
}

// ProvideLeaveService creates the leave workflow service.
func ProvideLeaveService(deps *ServiceDeps) (service.LeaveService, error) {
	if deps == nil || deps.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	var reviews port.ReviewRepository
	if deps.Journal != nil {
		reviews = deps.Journal.Reviews
	}

	return service.NewLeaveService(
		deps.Storage.Store,
		deps.Storage.Store,
		reviews,
		deps.Notifier,
		service.LeaveServiceConfig{StrictWrites: deps.Strict},
		deps.Logger,
	), nil
}
