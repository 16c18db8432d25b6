package service

import (
	"github.com/garyjia/leave-desk/internal/domain/entity"
	"github.com/garyjia/leave-desk/internal/domain/workflow"
)

// Role decides which view a logged-in employee is routed to
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Session is the identity established by Authenticate and passed to every
// workflow call. The zero value is not a valid session.
type Session struct {
	EmployeeID int    `json:"employee_id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
}

// NewSession builds the session for an authenticated employee
func NewSession(employee entity.Employee) Session {
	role := RoleEmployee
	if employee.IsAdmin() {
		role = RoleAdmin
	}
	return Session{
		EmployeeID: employee.ID,
		Name:       employee.Name,
		Role:       role,
	}
}

// Valid reports whether the session came from a successful login
func (s Session) Valid() bool {
	return s.Role == RoleAdmin || s.Role == RoleEmployee
}

// IsAdmin reports whether the session belongs to the administrator
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Decision is an administrator's verdict on a leave application
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) trigger() workflow.Trigger {
	return workflow.Trigger(d)
}

// AllowedDecisions returns the decisions an administrator may take on an
// application stored with status
func AllowedDecisions(status entity.LeaveStatus) []Decision {
	triggers := workflow.NewLeaveMachine(status).PermittedTriggers()
	decisions := make([]Decision, 0, len(triggers))
	for _, trigger := range triggers {
		decisions = append(decisions, Decision(trigger))
	}
	return decisions
}

// SubmitLeaveInput is the raw form data of a leave application
type SubmitLeaveInput struct {
	StartDate string
	EndDate   string
	Reason    string
}

// Dashboard is what an employee sees after logging in
type Dashboard struct {
	EmployeeID   int                       `json:"employee_id"`
	Name         string                    `json:"name"`
	LeaveBalance int                       `json:"leave_balance"`
	Leaves       []entity.LeaveApplication `json:"leaves"`
}
