package entity

// AdminEmployeeID is the employee ID reserved for the administrator account
const AdminEmployeeID = 0

// LeaveStatus is the free-text status stored on a leave application.
// The persistence layer accepts any value; the workflow only writes the
// three constants below.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "Pending"
	LeaveStatusApproved LeaveStatus = "Approved"
	LeaveStatusRejected LeaveStatus = "Rejected"
)

// String returns the string representation of the status
func (s LeaveStatus) String() string {
	return string(s)
}
