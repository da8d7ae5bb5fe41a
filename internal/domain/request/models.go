package request

import (
	"encoding/json"
	"time"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusDenied   = "Denied"
)

const (
	TypeSick     = "Sick"
	TypeCasual   = "Casual"
	TypeVacation = "Vacation"
)

var (
	Statuses   = []string{StatusPending, StatusApproved, StatusDenied}
	LeaveTypes = []string{TypeSick, TypeCasual, TypeVacation}
)

// LeaveRequest is a PTO request. EmployeeName is a denormalized
// snapshot taken at submission; NumDays is the weekday count of the
// inclusive date range.
type LeaveRequest struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	LeaveType    string    `json:"leaveType"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	NumDays      int       `json:"numDays"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MarshalJSON renders the leave dates in the date-only format the
// clients submit them in.
func (r LeaveRequest) MarshalJSON() ([]byte, error) {
	type alias LeaveRequest
	return json.Marshal(struct {
		alias
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}{
		alias:     alias(r),
		StartDate: r.StartDate.Format(DateLayout),
		EndDate:   r.EndDate.Format(DateLayout),
	})
}
