package port

import (
	"context"

	"github.com/garyjia/leave-desk/internal/domain/entity"
)

// SnapshotSource tells where the items of a Snapshot came from
type SnapshotSource int

const (
	// SourceFile means the document was read and decoded
	SourceFile SnapshotSource = iota
	// SourceMissing means the document does not exist yet
	SourceMissing
	// SourceCorrupt means the document exists but could not be read or decoded
	SourceCorrupt
)

// String returns a short name for the source
func (s SnapshotSource) String() string {
	switch s {
	case SourceFile:
		return "file"
	case SourceMissing:
		return "missing"
	case SourceCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Snapshot is a whole collection loaded from a document.
// Items is never nil. A missing or corrupt document yields an empty
// collection, with Source and Err recording why.
type Snapshot[T any] struct {
	Items  []T
	Source SnapshotSource
	Err    error
}

// Degraded reports whether the collection was substituted with an empty one
func (s Snapshot[T]) Degraded() bool {
	return s.Source != SourceFile
}

// EmployeeRepository loads and saves the whole employee document
type EmployeeRepository interface {
	LoadEmployees(ctx context.Context) Snapshot[entity.Employee]
	SaveEmployees(ctx context.Context, employees []entity.Employee) error
}

// LeaveRepository loads and saves the whole leave document
type LeaveRepository interface {
	LoadLeaves(ctx context.Context) Snapshot[entity.LeaveApplication]
	SaveLeaves(ctx context.Context, leaves []entity.LeaveApplication) error
}

// ReviewRepository persists the review journal
type ReviewRepository interface {
	Create(ctx context.Context, record *entity.ReviewRecord) error
	GetByLeaveID(ctx context.Context, leaveID int64) ([]*entity.ReviewRecord, error)
}
