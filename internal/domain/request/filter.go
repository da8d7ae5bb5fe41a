package request

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// FilterState is a query descriptor for request listings. List-valued
// fields are sets; scalar fields keep their wire form so the URL
// mapping round-trips exactly. It is never persisted.
type FilterState struct {
	Statuses   []string
	LeaveTypes []string
	StartDate  string
	EndDate    string
	Days       string
}

func (f FilterState) IsZero() bool {
	return len(f.Statuses) == 0 && len(f.LeaveTypes) == 0 &&
		f.StartDate == "" && f.EndDate == "" && f.Days == ""
}

// ParseFilters decodes the shareable URL parameters (comma-joined
// lists) into a FilterState, validating every field.
func ParseFilters(values url.Values) (FilterState, error) {
	var f FilterState
	var err error

	if f.Statuses, err = parseSet(values.Get("statuses"), Statuses, "statuses"); err != nil {
		return FilterState{}, err
	}
	if f.LeaveTypes, err = parseSet(values.Get("leaveTypes"), LeaveTypes, "leaveTypes"); err != nil {
		return FilterState{}, err
	}

	if raw := strings.TrimSpace(values.Get("startDate")); raw != "" {
		if _, err := ParseDate(raw); err != nil {
			return FilterState{}, fmt.Errorf("startDate: invalid date %q", raw)
		}
		f.StartDate = raw
	}
	if raw := strings.TrimSpace(values.Get("endDate")); raw != "" {
		if _, err := ParseDate(raw); err != nil {
			return FilterState{}, fmt.Errorf("endDate: invalid date %q", raw)
		}
		f.EndDate = raw
	}
	if raw := strings.TrimSpace(values.Get("days")); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || n < 0 {
			return FilterState{}, fmt.Errorf("days: invalid day count %q", raw)
		}
		f.Days = raw
	}
	return f, nil
}

// Values encodes the FilterState back into URL parameters. Lists come
// out sorted and comma-joined; empty fields are omitted.
func (f FilterState) Values() url.Values {
	values := url.Values{}
	if len(f.Statuses) > 0 {
		values.Set("statuses", joinSorted(f.Statuses))
	}
	if len(f.LeaveTypes) > 0 {
		values.Set("leaveTypes", joinSorted(f.LeaveTypes))
	}
	if f.StartDate != "" {
		values.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		values.Set("endDate", f.EndDate)
	}
	if f.Days != "" {
		values.Set("days", f.Days)
	}
	return values
}

func parseSet(raw string, allowed []string, field string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	seen := map[string]bool{}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		if !contains(allowed, value) {
			return nil, fmt.Errorf("%s: unknown value %q", field, value)
		}
		if seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out, nil
}

func joinSorted(values []string) string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return strings.Join(out, ",")
}
