package otp

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"ptoportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) FindByCode(ctx context.Context, code string) (Record, error) {
	var rec Record
	err := s.DB.QueryRow(ctx, `
    SELECT code, employee_id, email, expires_at
    FROM otps
    WHERE code = $1
  `, code).Scan(&rec.Code, &rec.EmployeeID, &rec.Email, &rec.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrInvalidPasscode
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Store) Save(ctx context.Context, rec Record) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO otps (code, employee_id, email, expires_at)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (code) DO UPDATE SET employee_id = EXCLUDED.employee_id, email = EXCLUDED.email, expires_at = EXCLUDED.expires_at
  `, rec.Code, rec.EmployeeID, rec.Email, rec.ExpiresAt)
	return err
}

func (s *Store) Delete(ctx context.Context, code string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM otps WHERE code = $1", code)
	return err
}

func (s *Store) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM otps WHERE expires_at < $1", before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
