// Package jsonstore keeps the employee and leave collections as whole JSON
// documents. Every load reads the full document and every save rewrites it.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/garyjia/leave-desk/internal/application/port"
	"github.com/garyjia/leave-desk/internal/domain/entity"
	"go.uber.org/zap"
)

const (
	DefaultEmployeesFile = "employees.json"
	DefaultLeavesFile    = "leaves.json"
)

// Config names the two documents inside the data directory
type Config struct {
	EmployeesFile string
	LeavesFile    string
}

// Store implements port.EmployeeRepository and port.LeaveRepository
type Store struct {
	files         port.FileStorage
	employeesFile string
	leavesFile    string
	logger        *zap.Logger
}

// New creates a Store on top of files. Empty file names fall back to
// employees.json and leaves.json.
func New(files port.FileStorage, cfg Config, logger *zap.Logger) *Store {
	if cfg.EmployeesFile == "" {
		cfg.EmployeesFile = DefaultEmployeesFile
	}
	if cfg.LeavesFile == "" {
		cfg.LeavesFile = DefaultLeavesFile
	}
	return &Store{
		files:         files,
		employeesFile: cfg.EmployeesFile,
		leavesFile:    cfg.LeavesFile,
		logger:        logger,
	}
}

// LoadEmployees reads the employee document
func (s *Store) LoadEmployees(ctx context.Context) port.Snapshot[entity.Employee] {
	return loadCollection[entity.Employee](ctx, s, s.employeesFile)
}

// SaveEmployees overwrites the employee document with employees
func (s *Store) SaveEmployees(ctx context.Context, employees []entity.Employee) error {
	return saveCollection(ctx, s, s.employeesFile, employees)
}

// LoadLeaves reads the leave document
func (s *Store) LoadLeaves(ctx context.Context) port.Snapshot[entity.LeaveApplication] {
	return loadCollection[entity.LeaveApplication](ctx, s, s.leavesFile)
}

// SaveLeaves overwrites the leave document with leaves
func (s *Store) SaveLeaves(ctx context.Context, leaves []entity.LeaveApplication) error {
	return saveCollection(ctx, s, s.leavesFile, leaves)
}

func loadCollection[T any](ctx context.Context, s *Store, path string) port.Snapshot[T] {
	content, err := s.files.Read(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("Document missing, using empty collection", zap.String("document", path))
			return port.Snapshot[T]{Items: []T{}, Source: port.SourceMissing, Err: err}
		}
		s.logger.Warn("Document unreadable, using empty collection",
			zap.String("document", path),
			zap.Error(err))
		return port.Snapshot[T]{Items: []T{}, Source: port.SourceCorrupt, Err: err}
	}

	var items []T
	if err := json.Unmarshal(content, &items); err != nil {
		s.logger.Warn("Document malformed, using empty collection",
			zap.String("document", path),
			zap.Error(err))
		return port.Snapshot[T]{
			Items:  []T{},
			Source: port.SourceCorrupt,
			Err:    fmt.Errorf("decode %s: %w", path, err),
		}
	}
	if items == nil {
		items = []T{}
	}

	s.logger.Debug("Document loaded",
		zap.String("document", path),
		zap.Int("count", len(items)))

	return port.Snapshot[T]{Items: items, Source: port.SourceFile}
}

func saveCollection[T any](ctx context.Context, s *Store, path string, items []T) error {
	if items == nil {
		items = []T{}
	}

	content, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	content = append(content, '\n')

	if err := s.files.Save(ctx, path, content); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	s.logger.Debug("Document saved",
		zap.String("document", path),
		zap.Int("count", len(items)))

	return nil
}

var (
	_ port.EmployeeRepository = (*Store)(nil)
	_ port.LeaveRepository    = (*Store)(nil)
)
