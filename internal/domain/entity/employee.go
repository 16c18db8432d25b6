package entity

// Employee is a pre-seeded account that can log in and apply for leave
type Employee struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Password     string `json:"password"`
	LeaveBalance int    `json:"leaveBalance"`
	// LeaveHistory is kept for document compatibility only. Nothing reads or
	// writes it; history is derived from the leave document. An empty list
	// stays empty on rewrite, a missing field is written back as null.
	LeaveHistory []LeaveApplication `json:"leaveHistory"`
}

// IsAdmin reports whether the employee is the administrator account
func (e Employee) IsAdmin() bool {
	return e.ID == AdminEmployeeID
}
