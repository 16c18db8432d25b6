package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garyjia/leave-desk/internal/application/port"
	"github.com/garyjia/leave-desk/internal/domain/entity"
	"go.uber.org/zap"
)

// ReviewRepository implements port.ReviewRepository on SQLite
type ReviewRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReviewRepository creates a new review journal repository
func NewReviewRepository(db *sql.DB, logger *zap.Logger) *ReviewRepository {
	return &ReviewRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a review record and sets its ID
func (r *ReviewRepository) Create(ctx context.Context, record *entity.ReviewRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO review_journal (
			leave_id, reviewer_id, previous_status, new_status, timestamp
		) VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		record.LeaveID,
		record.ReviewerID,
		string(record.PreviousStatus),
		string(record.NewStatus),
		record.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create review record",
			zap.Int64("leave_id", record.LeaveID),
			zap.Error(err))
		return fmt.Errorf("failed to create review record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	record.ID = id
	return nil
}

// GetByLeaveID returns the review records of a leave application, oldest first
func (r *ReviewRepository) GetByLeaveID(ctx context.Context, leaveID int64) ([]*entity.ReviewRecord, error) {
	query := `
		SELECT id, leave_id, reviewer_id, previous_status, new_status, timestamp
		FROM review_journal
		WHERE leave_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, leaveID)
	if err != nil {
		r.logger.Error("Failed to get review records", zap.Int64("leave_id", leaveID), zap.Error(err))
		return nil, fmt.Errorf("failed to get review records: %w", err)
	}
	defer rows.Close()

	records := []*entity.ReviewRecord{}
	for rows.Next() {
		var (
			record           entity.ReviewRecord
			previous, status string
		)
		if err := rows.Scan(
			&record.ID,
			&record.LeaveID,
			&record.ReviewerID,
			&previous,
			&status,
			&record.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review record: %w", err)
		}
		record.PreviousStatus = entity.LeaveStatus(previous)
		record.NewStatus = entity.LeaveStatus(status)
		records = append(records, &record)
	}

	return records, rows.Err()
}

var _ port.ReviewRepository = (*ReviewRepository)(nil)
