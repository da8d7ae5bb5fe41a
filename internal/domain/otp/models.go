package otp

import "time"

// Record is one outstanding passcode, keyed by the code value itself.
type Record struct {
	Code       string
	EmployeeID string
	Email      string
	ExpiresAt  time.Time
}
