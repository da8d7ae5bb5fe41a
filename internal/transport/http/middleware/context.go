package middleware

import (
	"context"

	"ptoportal/internal/domain/employee"
	"ptoportal/internal/requestctx"
)

type ctxKey string

const (
	ctxKeyEmployee       ctxKey = "employee"
	ctxKeySessionExpired ctxKey = "session_expired"
)

func GetEmployee(ctx context.Context) (employee.Employee, bool) {
	emp, ok := ctx.Value(ctxKeyEmployee).(employee.Employee)
	return emp, ok
}

// SessionExpired reports whether the request carried a well-formed
// token whose session has passed its ceiling, so handlers can message
// expiry apart from a plain authentication failure.
func SessionExpired(ctx context.Context) bool {
	expired, _ := ctx.Value(ctxKeySessionExpired).(bool)
	return expired
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
