package entity

import "time"

// ReviewRecord is one entry in the review journal: an administrator
// decision on a leave application
type ReviewRecord struct {
	ID             int64       `json:"id"`
	LeaveID        int64       `json:"leave_id"`
	ReviewerID     int         `json:"reviewer_id"`
	PreviousStatus LeaveStatus `json:"previous_status"`
	NewStatus      LeaveStatus `json:"new_status"`
	Timestamp      time.Time   `json:"timestamp"`
}
