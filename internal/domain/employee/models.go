package employee

// Employee is a directory entry provisioned outside this system. The
// portal reads it at login and adjusts only the leave balance.
type Employee struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	LeaveBalance int    `json:"leaveBalance"`
	IsAdmin      bool   `json:"isAdmin"`
}
