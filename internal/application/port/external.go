package port

import (
	"context"

	"github.com/garyjia/leave-desk/internal/domain/entity"
)

// Notifier tells approvers and applicants about workflow events.
// Implementations must not block the workflow on delivery problems.
type Notifier interface {
	LeaveSubmitted(ctx context.Context, leave entity.LeaveApplication, employeeName string) error
	LeaveReviewed(ctx context.Context, leave entity.LeaveApplication, previous entity.LeaveStatus) error
}

// ChatMessenger sends plain text to a chat
type ChatMessenger interface {
	SendText(ctx context.Context, chatID, text string) error
}
