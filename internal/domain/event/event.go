package event

import (
	"time"

	"github.com/garyjia/leave-desk/internal/domain/entity"
	"github.com/google/uuid"
)

// Event represents a leave workflow event
type Event struct {
	ID             string                  `json:"id"`
	Type           Type                    `json:"type"`
	Leave          entity.LeaveApplication `json:"leave"`
	EmployeeName   string                  `json:"employee_name,omitempty"`
	PreviousStatus entity.LeaveStatus      `json:"previous_status,omitempty"`
	Timestamp      time.Time               `json:"timestamp"`
}

// NewLeaveSubmitted creates the event raised after an application is stored
func NewLeaveSubmitted(leave entity.LeaveApplication, employeeName string) *Event {
	return &Event{
		ID:           uuid.NewString(),
		Type:         TypeLeaveSubmitted,
		Leave:        leave,
		EmployeeName: employeeName,
		Timestamp:    time.Now(),
	}
}

// NewLeaveReviewed creates the event raised after an administrator decision
func NewLeaveReviewed(leave entity.LeaveApplication, previous entity.LeaveStatus) *Event {
	return &Event{
		ID:             uuid.NewString(),
		Type:           TypeLeaveReviewed,
		Leave:          leave,
		PreviousStatus: previous,
		Timestamp:      time.Now(),
	}
}
