package request

import "time"

// DateLayout is the calendar-date wire format used throughout: no time
// component, no timezone. Parsed values sit at UTC midnight.
const DateLayout = "2006-01-02"

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// BusinessDays returns the count of weekdays (Mon through Fri) in the
// inclusive range [start, end]. The caller guarantees start <= end.
func BusinessDays(start, end time.Time) int {
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}
