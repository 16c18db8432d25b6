package entity

// LeaveApplication is a single leave request in the leave document
type LeaveApplication struct {
	ID         int64       `json:"id"`
	EmployeeID int         `json:"employeeId"`
	StartDate  Date        `json:"startDate"`
	EndDate    Date        `json:"endDate"`
	Reason     string      `json:"reason"`
	Status     LeaveStatus `json:"status"`
}

// BelongsTo reports whether the application was filed by the given employee
func (l LeaveApplication) BelongsTo(employeeID int) bool {
	return l.EmployeeID == employeeID
}
