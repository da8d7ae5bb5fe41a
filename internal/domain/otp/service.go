package otp

import (
	"context"
	"errors"
	"time"

	"ptoportal/internal/domain/employee"
	"ptoportal/internal/platform/email"
)

var (
	ErrInvalidPasscode = errors.New("invalid passcode")
	ErrPasscodeExpired = errors.New("passcode expired")
)

type Directory interface {
	Get(ctx context.Context, employeeID string) (employee.Employee, error)
}

type Service struct {
	Store     StoreAPI
	Directory Directory
	Mailer    email.Mailer
	TTL       time.Duration
	Now       func() time.Time
}

func NewService(store StoreAPI, directory Directory, mailer email.Mailer, ttl time.Duration) *Service {
	return &Service{
		Store:     store,
		Directory: directory,
		Mailer:    mailer,
		TTL:       ttl,
		Now:       time.Now,
	}
}

// Send generates a passcode for the employee, persists it keyed by the
// code value and emails it. An email failure propagates to the caller;
// there is no retry.
func (s *Service) Send(ctx context.Context, employeeID string) error {
	emp, err := s.Directory.Get(ctx, employeeID)
	if err != nil {
		return err
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}
	expiresAt := s.Now().Add(s.TTL)

	if err := s.Store.Save(ctx, Record{
		Code:       code,
		EmployeeID: emp.ID,
		Email:      emp.Email,
		ExpiresAt:  expiresAt,
	}); err != nil {
		return err
	}

	return s.Mailer.SendPasscode(ctx, email.PasscodeEmail{
		ToEmail:   emp.Email,
		ToName:    emp.Name,
		Passcode:  code,
		ExpiresAt: expiresAt,
	})
}

// Validate consumes a passcode. A missing record or an employee
// mismatch fails without touching the store; an expired record is
// deleted before failing; a valid record is deleted on success so each
// code is single use.
func (s *Service) Validate(ctx context.Context, employeeID, code string) error {
	rec, err := s.Store.FindByCode(ctx, code)
	if err != nil {
		return err
	}

	if rec.EmployeeID != employeeID {
		return ErrInvalidPasscode
	}

	if s.Now().After(rec.ExpiresAt) {
		if err := s.Store.Delete(ctx, code); err != nil {
			return err
		}
		return ErrPasscodeExpired
	}

	return s.Store.Delete(ctx, code)
}
