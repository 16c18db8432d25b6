package event

// Type identifies a leave workflow event
type Type string

const (
	TypeLeaveSubmitted Type = "leave.submitted"
	TypeLeaveReviewed  Type = "leave.reviewed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}
