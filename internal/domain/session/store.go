package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"ptoportal/internal/platform/querier"
)

type Session struct {
	ID         string
	EmployeeID string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, sess Session) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (id, employee_id, created_at, expires_at)
    VALUES ($1,$2,$3,$4)
  `, sess.ID, sess.EmployeeID, sess.CreatedAt, sess.ExpiresAt)
	return err
}

func (s *Store) Get(ctx context.Context, sessionID string) (Session, error) {
	var sess Session
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, created_at, expires_at
    FROM sessions
    WHERE id = $1
  `, sessionID).Scan(&sess.ID, &sess.EmployeeID, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrInvalidToken
	}
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM sessions WHERE id = $1", sessionID)
	return err
}

func (s *Store) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM sessions WHERE expires_at < $1", before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
