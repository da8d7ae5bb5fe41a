package session

import (
	"context"
	"testing"
	"time"

	"ptoportal/internal/domain/employee"
)

type memStore struct {
	sessions map[string]Session
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]Session{}}
}

func (m *memStore) Create(ctx context.Context, sess Session) error {
	m.sessions[sess.ID] = sess
	return nil
}

func (m *memStore) Get(ctx context.Context, sessionID string) (Session, error) {
	sess, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, ErrInvalidToken
	}
	return sess, nil
}

func (m *memStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

func (m *memStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var removed int64
	for id, sess := range m.sessions {
		if sess.ExpiresAt.Before(before) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

type staticDirectory struct {
	emp employee.Employee
}

func (d staticDirectory) Get(ctx context.Context, employeeID string) (employee.Employee, error) {
	if employeeID != d.emp.ID {
		return employee.Employee{}, employee.ErrNotFound
	}
	return d.emp, nil
}

func newTestService(store StoreAPI) *Service {
	directory := staticDirectory{emp: employee.Employee{
		ID: "E100", Name: "Avery Collins", Email: "avery@example.com", LeaveBalance: 20,
	}}
	return NewService(store, directory, "test-secret", 2*time.Hour)
}

func TestLoginResolveRoundTrip(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	token, emp, err := svc.Login(context.Background(), "E100")
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}
	if emp.ID != "E100" {
		t.Fatalf("expected employee E100, got %q", emp.ID)
	}
	if len(store.sessions) != 1 {
		t.Fatalf("expected one session row, got %d", len(store.sessions))
	}

	resolved, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if resolved.ID != "E100" || resolved.LeaveBalance != 20 {
		t.Fatalf("unexpected employee snapshot: %+v", resolved)
	}
}

func TestLoginUnknownEmployee(t *testing.T) {
	svc := newTestService(newMemStore())

	if _, _, err := svc.Login(context.Background(), "E999"); err == nil {
		t.Fatal("expected error for unknown employee")
	}
}

func TestResolveGarbageToken(t *testing.T) {
	svc := newTestService(newMemStore())

	if _, err := svc.Resolve(context.Background(), "not-a-token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestResolveRevokedSession(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	token, _, err := svc.Login(context.Background(), "E100")
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}
	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("unexpected logout error: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
}

func TestResolvePastCeiling(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	token, _, err := svc.Login(context.Background(), "E100")
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}

	// Session row past its ceiling while the signed token is still
	// within its own validity window.
	svc.Now = func() time.Time { return time.Now().Add(90 * time.Minute) }
	for id, sess := range store.sessions {
		sess.ExpiresAt = time.Now().Add(time.Hour)
		store.sessions[id] = sess
	}

	if _, err := svc.Resolve(context.Background(), token); err != ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if len(store.sessions) != 0 {
		t.Fatal("expired session row should be deleted on resolve")
	}
}

func TestLogoutMalformedTokenIsNoop(t *testing.T) {
	svc := newTestService(newMemStore())
	if err := svc.Logout(context.Background(), "garbage"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
