package lark

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/leave-desk/internal/application/port"
	"github.com/garyjia/leave-desk/internal/domain/entity"
	"go.uber.org/zap"
)

// Notifier implements port.Notifier by posting to the approver chat
type Notifier struct {
	messenger port.ChatMessenger
	chatID    string
	logger    *zap.Logger
}

// NewNotifier creates a notifier that posts leave events to chatID
func NewNotifier(messenger port.ChatMessenger, chatID string, logger *zap.Logger) *Notifier {
	return &Notifier{
		messenger: messenger,
		chatID:    chatID,
		logger:    logger,
	}
}

// LeaveSubmitted announces a new application to approvers
func (n *Notifier) LeaveSubmitted(ctx context.Context, leave entity.LeaveApplication, employeeName string) error {
	text := FormatSubmitted(leave, employeeName)
	if err := n.messenger.SendText(ctx, n.chatID, text); err != nil {
		return fmt.Errorf("notify submission of leave %d: %w", leave.ID, err)
	}
	n.logger.Info("Submission notification sent", zap.Int64("leave_id", leave.ID))
	return nil
}

// LeaveReviewed announces a decision on an application
func (n *Notifier) LeaveReviewed(ctx context.Context, leave entity.LeaveApplication, previous entity.LeaveStatus) error {
	text := FormatReviewed(leave, previous)
	if err := n.messenger.SendText(ctx, n.chatID, text); err != nil {
		return fmt.Errorf("notify review of leave %d: %w", leave.ID, err)
	}
	n.logger.Info("Review notification sent",
		zap.Int64("leave_id", leave.ID),
		zap.String("status", leave.Status.String()))
	return nil
}

// FormatSubmitted renders the chat text for a new application
func FormatSubmitted(leave entity.LeaveApplication, employeeName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New leave application #%d\n", leave.ID)
	fmt.Fprintf(&b, "Employee: %s (ID %d)\n", employeeName, leave.EmployeeID)
	fmt.Fprintf(&b, "Dates: %s to %s", leave.StartDate, leave.EndDate)
	if reason := strings.TrimSpace(leave.Reason); reason != "" {
		fmt.Fprintf(&b, "\nReason: %s", reason)
	}
	return b.String()
}

// FormatReviewed renders the chat text for a decision
func FormatReviewed(leave entity.LeaveApplication, previous entity.LeaveStatus) string {
	status := leave.Status.String()
	if previous != "" && previous != leave.Status {
		status = fmt.Sprintf("%s (was %s)", leave.Status, previous)
	}
	return fmt.Sprintf("Leave application #%d for employee %d: %s\nDates: %s to %s",
		leave.ID, leave.EmployeeID, status, leave.StartDate, leave.EndDate)
}
