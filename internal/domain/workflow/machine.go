package workflow

import (
	"fmt"
	"sort"

	"github.com/garyjia/leave-desk/internal/domain/entity"
)

// leaveTransitions is the review lifecycle. Pending moves to Approved or
// Rejected. Decided applications accept either decision again, so
// re-approving is a no-op and a rejection can be reversed.
var leaveTransitions = map[State]map[Trigger]State{
	StatePending: {
		TriggerApprove: StateApproved,
		TriggerReject:  StateRejected,
	},
	StateApproved: {
		TriggerApprove: StateApproved,
		TriggerReject:  StateRejected,
	},
	StateRejected: {
		TriggerApprove: StateApproved,
		TriggerReject:  StateRejected,
	},
}

// LeaveMachine tracks the review state of one leave application
type LeaveMachine struct {
	state State
}

// NewLeaveMachine returns a machine for an application stored with status
func NewLeaveMachine(status entity.LeaveStatus) *LeaveMachine {
	return &LeaveMachine{state: stateFromStatus(status)}
}

// State returns the current state
func (m *LeaveMachine) State() State {
	return m.state
}

// Fire applies trigger, leaving the state unchanged when it is not permitted
func (m *LeaveMachine) Fire(trigger Trigger) error {
	next, ok := leaveTransitions[m.state][trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire trigger %q from state %s", ErrInvalidTransition, trigger, m.state)
	}
	m.state = next
	return nil
}

// PermittedTriggers returns the triggers that can be fired in the current
// state, sorted
func (m *LeaveMachine) PermittedTriggers() []Trigger {
	transitions := leaveTransitions[m.state]
	triggers := make([]Trigger, 0, len(transitions))
	for trigger := range transitions {
		triggers = append(triggers, trigger)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	return triggers
}
