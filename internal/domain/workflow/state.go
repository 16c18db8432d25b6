package workflow

import "github.com/garyjia/leave-desk/internal/domain/entity"

// State represents a leave application state in the review lifecycle
type State string

const (
	StatePending  State = "Pending"
	StateApproved State = "Approved"
	StateRejected State = "Rejected"
)

// stateFromStatus maps a stored leave status to a workflow state.
// Unknown statuses map to StatePending so an administrator can still decide
// on them.
func stateFromStatus(status entity.LeaveStatus) State {
	s := State(status)
	if _, ok := leaveTransitions[s]; !ok {
		return StatePending
	}
	return s
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Status converts the state to the value stored in the leave document
func (s State) Status() entity.LeaveStatus {
	return entity.LeaveStatus(s)
}
