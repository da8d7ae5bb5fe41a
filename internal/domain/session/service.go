package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ptoportal/internal/domain/employee"
)

var (
	ErrInvalidToken   = errors.New("invalid session token")
	ErrSessionExpired = errors.New("session expired")
)

type Directory interface {
	Get(ctx context.Context, employeeID string) (employee.Employee, error)
}

// Service owns the login session lifecycle: one row per live session,
// referenced by a signed bearer token with a fixed ceiling on session
// age. There is no sliding renewal.
type Service struct {
	Store     StoreAPI
	Directory Directory
	Secret    string
	TTL       time.Duration
	Now       func() time.Time
}

func NewService(store StoreAPI, directory Directory, secret string, ttl time.Duration) *Service {
	return &Service{
		Store:     store,
		Directory: directory,
		Secret:    secret,
		TTL:       ttl,
		Now:       time.Now,
	}
}

// Login establishes a session for an already-authenticated employee and
// returns the bearer token plus the employee snapshot.
func (s *Service) Login(ctx context.Context, employeeID string) (string, employee.Employee, error) {
	emp, err := s.Directory.Get(ctx, employeeID)
	if err != nil {
		return "", employee.Employee{}, err
	}

	now := s.Now()
	sess := Session{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.TTL),
	}
	if err := s.Store.Create(ctx, sess); err != nil {
		return "", employee.Employee{}, err
	}

	token, err := GenerateToken(s.Secret, Claims{
		EmployeeID: emp.ID,
		Admin:      emp.IsAdmin,
		SessionID:  sess.ID,
	}, s.TTL)
	if err != nil {
		return "", employee.Employee{}, err
	}
	return token, emp, nil
}

// Resolve maps a bearer token back to the employee. A token past the
// session ceiling yields ErrSessionExpired so callers can message it
// apart from a plain authentication failure; a revoked session yields
// ErrInvalidToken.
func (s *Service) Resolve(ctx context.Context, token string) (employee.Employee, error) {
	claims, err := ParseToken(s.Secret, token)
	if err != nil {
		return employee.Employee{}, err
	}

	sess, err := s.Store.Get(ctx, claims.SessionID)
	if err != nil {
		return employee.Employee{}, err
	}
	if s.Now().After(sess.ExpiresAt) {
		_ = s.Store.Delete(ctx, sess.ID)
		return employee.Employee{}, ErrSessionExpired
	}

	return s.Directory.Get(ctx, sess.EmployeeID)
}

// Logout revokes the session behind the token. Expired or malformed
// tokens are a no-op: the user-facing outcome is the same.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := ParseToken(s.Secret, token)
	if err != nil {
		return nil
	}
	return s.Store.Delete(ctx, claims.SessionID)
}
