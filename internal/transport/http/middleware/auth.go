package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ptoportal/internal/domain/employee"
	"ptoportal/internal/domain/session"
	"ptoportal/internal/transport/http/api"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (employee.Employee, error)
}

// Auth resolves a bearer token to an employee snapshot. Requests
// without a usable token pass through unauthenticated; handlers decide
// whether identity is required. An expired session is flagged in the
// context so the client can be told to log in again.
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			emp, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				ctx := r.Context()
				if errors.Is(err, session.ErrSessionExpired) {
					ctx = context.WithValue(ctx, ctxKeySessionExpired, true)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyEmployee, emp)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards the admin subtree.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		emp, ok := GetEmployee(r.Context())
		if !ok {
			FailUnauthenticated(w, r)
			return
		}
		if !emp.IsAdmin {
			api.Fail(w, http.StatusForbidden, "forbidden", "admin access required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FailUnauthenticated writes the 401 envelope, distinguishing an
// expired session from a missing or invalid credential.
func FailUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if SessionExpired(r.Context()) {
		api.Fail(w, http.StatusUnauthorized, "session_expired", "session expired, please log in again", GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
