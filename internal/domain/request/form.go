package request

import (
	"strings"
	"time"
)

// SubmitForm is the raw submission payload as received on the wire.
type SubmitForm struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// Submission is a validated form: parsed dates and the computed
// weekday count.
type Submission struct {
	LeaveType string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	NumDays   int
}

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validate checks the whole form in one pass and returns either a
// usable Submission or the full list of field issues.
func (f SubmitForm) Validate() (Submission, []Issue) {
	var issues []Issue
	add := func(field, reason string) {
		issues = append(issues, Issue{Field: field, Reason: reason})
	}

	leaveType := strings.TrimSpace(f.LeaveType)
	if leaveType == "" {
		add("leaveType", "leave type is required")
	} else if !contains(LeaveTypes, leaveType) {
		add("leaveType", "must be one of Sick, Casual, Vacation")
	}

	var start, end time.Time
	var err error
	if strings.TrimSpace(f.StartDate) == "" {
		add("startDate", "start date is required")
	} else if start, err = ParseDate(strings.TrimSpace(f.StartDate)); err != nil {
		add("startDate", "must be a valid date in YYYY-MM-DD format")
	}
	if strings.TrimSpace(f.EndDate) == "" {
		add("endDate", "end date is required")
	} else if end, err = ParseDate(strings.TrimSpace(f.EndDate)); err != nil {
		add("endDate", "must be a valid date in YYYY-MM-DD format")
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		add("endDate", "must be on or after startDate")
	}

	reason := strings.TrimSpace(f.Reason)
	if reason == "" {
		add("reason", "reason is required")
	}

	if len(issues) > 0 {
		return Submission{}, issues
	}

	return Submission{
		LeaveType: leaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
		NumDays:   BusinessDays(start, end),
	}, nil
}

func contains(values []string, candidate string) bool {
	for _, v := range values {
		if v == candidate {
			return true
		}
	}
	return false
}
