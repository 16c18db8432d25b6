package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/garyjia/leave-desk/internal/application/port"
	"github.com/garyjia/leave-desk/internal/domain/entity"
	"github.com/garyjia/leave-desk/internal/domain/workflow"
	"go.uber.org/zap"
)

// LeaveService is the leave workflow: login, submission and review
type LeaveService interface {
	Authenticate(ctx context.Context, name, password string) (*Session, error)
	SubmitLeave(ctx context.Context, session Session, input SubmitLeaveInput) (*entity.LeaveApplication, error)
	ReviewLeave(ctx context.Context, session Session, leaveID int64, decision Decision) (*entity.LeaveApplication, error)
	ReviewLeaveAt(ctx context.Context, session Session, position int, decision Decision) (*entity.LeaveApplication, error)
	ListLeaves(ctx context.Context, session Session) ([]entity.LeaveApplication, error)
	Dashboard(ctx context.Context, session Session) (*Dashboard, error)
	ReviewHistory(ctx context.Context, session Session, leaveID int64) ([]*entity.ReviewRecord, error)
}

// LeaveServiceConfig tunes the write policy of the workflow
type LeaveServiceConfig struct {
	// StrictWrites surfaces document write failures to the caller and refuses
	// to overwrite a corrupt document. When false, failures are only logged.
	StrictWrites bool
}

type leaveServiceImpl struct {
	employees    port.EmployeeRepository
	leaves       port.LeaveRepository
	reviews      port.ReviewRepository
	notifier     port.Notifier
	strictWrites bool
	now          func() time.Time
	logger       *zap.Logger

	// mu serialises writes of the leave document and keeps readers from
	// interleaving with them
	mu sync.RWMutex
}

// NewLeaveService creates a new LeaveService. reviews and notifier may be nil.
func NewLeaveService(
	employees port.EmployeeRepository,
	leaves port.LeaveRepository,
	reviews port.ReviewRepository,
	notifier port.Notifier,
	cfg LeaveServiceConfig,
	logger *zap.Logger,
) LeaveService {
	return &leaveServiceImpl{
		employees:    employees,
		leaves:       leaves,
		reviews:      reviews,
		notifier:     notifier,
		strictWrites: cfg.StrictWrites,
		now:          time.Now,
		logger:       logger,
	}
}

// Authenticate returns a session for the first employee whose name and
// password both match exactly
func (s *leaveServiceImpl) Authenticate(ctx context.Context, name, password string) (*Session, error) {
	snapshot := s.employees.LoadEmployees(ctx)

	for _, employee := range snapshot.Items {
		if employee.Name == name && employee.Password == password {
			session := NewSession(employee)
			s.logger.Info("Login succeeded",
				zap.Int("employee_id", employee.ID),
				zap.String("role", string(session.Role)))
			return &session, nil
		}
	}

	s.logger.Info("Login failed",
		zap.String("name", name),
		zap.String("employee_source", snapshot.Source.String()))
	return nil, ErrInvalidCredentials
}

// SubmitLeave appends a Pending application for the session's employee
func (s *leaveServiceImpl) SubmitLeave(ctx context.Context, session Session, input SubmitLeaveInput) (*entity.LeaveApplication, error) {
	if !session.Valid() {
		return nil, ErrForbidden
	}

	start, err := entity.ParseDate(input.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date: %v", ErrInvalidDate, err)
	}
	end, err := entity.ParseDate(input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end date: %v", ErrInvalidDate, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.leaves.LoadLeaves(ctx)
	if err := s.checkWritable(snapshot); err != nil {
		return nil, err
	}

	leave := entity.LeaveApplication{
		ID:         nextLeaveID(snapshot.Items),
		EmployeeID: session.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     input.Reason,
		Status:     entity.LeaveStatusPending,
	}
	leaves := append(snapshot.Items, leave)

	if err := s.persistLeaves(ctx, leaves); err != nil {
		return nil, err
	}

	s.logger.Info("Leave application submitted",
		zap.Int64("leave_id", leave.ID),
		zap.Int("employee_id", leave.EmployeeID),
		zap.String("start_date", leave.StartDate.String()),
		zap.String("end_date", leave.EndDate.String()))

	if s.notifier != nil {
		if err := s.notifier.LeaveSubmitted(ctx, leave, session.Name); err != nil {
			s.logger.Warn("Failed to notify about submission", zap.Int64("leave_id", leave.ID), zap.Error(err))
		}
	}

	return &leave, nil
}

// ReviewLeave sets the status of the application with the given ID. IDs start
// at 1; records stored without one are reviewed with ReviewLeaveAt.
func (s *leaveServiceImpl) ReviewLeave(ctx context.Context, session Session, leaveID int64, decision Decision) (*entity.LeaveApplication, error) {
	if leaveID <= 0 {
		if !session.IsAdmin() {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("%w: id %d is not unique, review by position instead", ErrLeaveNotFound, leaveID)
	}
	return s.review(ctx, session, decision, func(leaves []entity.LeaveApplication) int {
		for i := range leaves {
			if leaves[i].ID == leaveID {
				return i
			}
		}
		return -1
	})
}

// ReviewLeaveAt sets the status of the application at a position in the
// current leave document. Kept for legacy records that carry no ID.
func (s *leaveServiceImpl) ReviewLeaveAt(ctx context.Context, session Session, position int, decision Decision) (*entity.LeaveApplication, error) {
	return s.review(ctx, session, decision, func(leaves []entity.LeaveApplication) int {
		if position < 0 || position >= len(leaves) {
			return -1
		}
		return position
	})
}

func (s *leaveServiceImpl) review(ctx context.Context, session Session, decision Decision, locate func([]entity.LeaveApplication) int) (*entity.LeaveApplication, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.leaves.LoadLeaves(ctx)
	leaves := snapshot.Items
	idx := locate(leaves)
	if idx < 0 {
		return nil, ErrLeaveNotFound
	}

	previous := leaves[idx].Status
	machine := workflow.NewLeaveMachine(previous)
	if err := machine.Fire(decision.trigger()); err != nil {
		if errors.Is(err, workflow.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: %q on leave %d: %v", ErrInvalidDecision, string(decision), leaves[idx].ID, err)
		}
		return nil, fmt.Errorf("review leave %d: %w", leaves[idx].ID, err)
	}
	leaves[idx].Status = machine.State().Status()

	if err := s.persistLeaves(ctx, leaves); err != nil {
		return nil, err
	}

	reviewed := leaves[idx]
	s.logger.Info("Leave application reviewed",
		zap.Int64("leave_id", reviewed.ID),
		zap.Int("position", idx),
		zap.String("previous_status", previous.String()),
		zap.String("status", reviewed.Status.String()))

	s.recordReview(ctx, session, reviewed, previous)

	if s.notifier != nil {
		if err := s.notifier.LeaveReviewed(ctx, reviewed, previous); err != nil {
			s.logger.Warn("Failed to notify about review", zap.Int64("leave_id", reviewed.ID), zap.Error(err))
		}
	}

	return &reviewed, nil
}

// ListLeaves returns every application in document order
func (s *leaveServiceImpl) ListLeaves(ctx context.Context, session Session) ([]entity.LeaveApplication, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leaves.LoadLeaves(ctx).Items, nil
}

// Dashboard returns the session employee's balance and own applications
func (s *leaveServiceImpl) Dashboard(ctx context.Context, session Session) (*Dashboard, error) {
	if !session.Valid() {
		return nil, ErrForbidden
	}

	var (
		employee entity.Employee
		found    bool
	)
	for _, e := range s.employees.LoadEmployees(ctx).Items {
		if e.ID == session.EmployeeID {
			employee, found = e, true
			break
		}
	}
	if !found {
		return nil, ErrEmployeeNotFound
	}

	s.mu.RLock()
	snapshot := s.leaves.LoadLeaves(ctx)
	s.mu.RUnlock()

	own := []entity.LeaveApplication{}
	for _, leave := range snapshot.Items {
		if leave.BelongsTo(employee.ID) {
			own = append(own, leave)
		}
	}

	return &Dashboard{
		EmployeeID:   employee.ID,
		Name:         employee.Name,
		LeaveBalance: employee.LeaveBalance,
		Leaves:       own,
	}, nil
}

// ReviewHistory returns the journal entries for a leave application.
// Without a journal the history is always empty.
func (s *leaveServiceImpl) ReviewHistory(ctx context.Context, session Session, leaveID int64) ([]*entity.ReviewRecord, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	if s.reviews == nil {
		return []*entity.ReviewRecord{}, nil
	}

	records, err := s.reviews.GetByLeaveID(ctx, leaveID)
	if err != nil {
		s.logger.Error("Failed to load review history", zap.Int64("leave_id", leaveID), zap.Error(err))
		return nil, err
	}
	return records, nil
}

// checkWritable refuses, in strict mode, to replace a document that exists
// but could not be decoded
func (s *leaveServiceImpl) checkWritable(snapshot port.Snapshot[entity.LeaveApplication]) error {
	if !s.strictWrites || snapshot.Source != port.SourceCorrupt {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrDocumentCorrupt, snapshot.Err)
}

// persistLeaves writes the whole leave document, applying the write policy
func (s *leaveServiceImpl) persistLeaves(ctx context.Context, leaves []entity.LeaveApplication) error {
	err := s.leaves.SaveLeaves(ctx, leaves)
	if err == nil {
		return nil
	}
	if s.strictWrites {
		return fmt.Errorf("save leave document: %w", err)
	}
	s.logger.Error("Failed to save leave document", zap.Int("count", len(leaves)), zap.Error(err))
	return nil
}

func (s *leaveServiceImpl) recordReview(ctx context.Context, session Session, leave entity.LeaveApplication, previous entity.LeaveStatus) {
	if s.reviews == nil {
		return
	}
	record := &entity.ReviewRecord{
		LeaveID:        leave.ID,
		ReviewerID:     session.EmployeeID,
		PreviousStatus: previous,
		NewStatus:      leave.Status,
		Timestamp:      s.now().UTC(),
	}
	if err := s.reviews.Create(ctx, record); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("Failed to journal review", zap.Int64("leave_id", leave.ID), zap.Error(err))
	}
}

// nextLeaveID returns one more than the highest ID in leaves, starting at 1
func nextLeaveID(leaves []entity.LeaveApplication) int64 {
	var highest int64
	for _, leave := range leaves {
		if leave.ID > highest {
			highest = leave.ID
		}
	}
	return highest + 1
}
