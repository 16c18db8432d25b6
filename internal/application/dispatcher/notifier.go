package dispatcher

import (
	"context"

	"github.com/garyjia/leave-desk/internal/application/port"
	"github.com/garyjia/leave-desk/internal/domain/entity"
	"github.com/garyjia/leave-desk/internal/domain/event"
)

// AsyncNotifier implements port.Notifier by publishing events, so delivery
// happens off the caller's goroutine
type AsyncNotifier struct {
	dispatcher Dispatcher
}

// NewAsyncNotifier wraps a dispatcher as a notifier
func NewAsyncNotifier(d Dispatcher) *AsyncNotifier {
	return &AsyncNotifier{dispatcher: d}
}

// LeaveSubmitted publishes a leave.submitted event
func (n *AsyncNotifier) LeaveSubmitted(ctx context.Context, leave entity.LeaveApplication, employeeName string) error {
	n.dispatcher.DispatchAsync(ctx, event.NewLeaveSubmitted(leave, employeeName))
	return nil
}

// LeaveReviewed publishes a leave.reviewed event
func (n *AsyncNotifier) LeaveReviewed(ctx context.Context, leave entity.LeaveApplication, previous entity.LeaveStatus) error {
	n.dispatcher.DispatchAsync(ctx, event.NewLeaveReviewed(leave, previous))
	return nil
}

// RegisterNotifier subscribes target to both leave events under name
func RegisterNotifier(d Dispatcher, name string, target port.Notifier) {
	d.SubscribeNamed(event.TypeLeaveSubmitted, name, func(ctx context.Context, evt *event.Event) error {
		return target.LeaveSubmitted(ctx, evt.Leave, evt.EmployeeName)
	})
	d.SubscribeNamed(event.TypeLeaveReviewed, name, func(ctx context.Context, evt *event.Event) error {
		return target.LeaveReviewed(ctx, evt.Leave, evt.PreviousStatus)
	})
}
