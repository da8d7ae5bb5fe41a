package request

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"ptoportal/internal/domain/employee"
	"ptoportal/internal/platform/querier"
)

var (
	ErrNotFound            = errors.New("leave request not found")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrInvalidState        = errors.New("request is not pending")
)

type Service struct {
	DB querier.Querier
}

func NewService(db querier.Querier) *Service {
	return &Service{DB: db}
}

// Submit writes the request and debits the employee balance in a
// single transaction. The original system issued the two writes
// sequentially with an inconsistency window between them; this
// rendition closes that window (noted in DESIGN.md).
func (s *Service) Submit(ctx context.Context, emp employee.Employee, sub Submission) (LeaveRequest, int, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return LeaveRequest{}, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance int
	err = tx.QueryRow(ctx, `
    SELECT leave_balance FROM employees WHERE id = $1 FOR UPDATE
  `, emp.ID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, 0, employee.ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, 0, err
	}

	if sub.NumDays > balance {
		return LeaveRequest{}, 0, ErrInsufficientBalance
	}

	created := LeaveRequest{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		LeaveType:    sub.LeaveType,
		StartDate:    sub.StartDate,
		EndDate:      sub.EndDate,
		NumDays:      sub.NumDays,
		Reason:       sub.Reason,
		Status:       StatusPending,
	}
	if err := tx.QueryRow(ctx, `
    INSERT INTO pto_requests (employee_id, employee_name, leave_type, start_date, end_date, num_days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id, created_at
  `, created.EmployeeID, created.EmployeeName, created.LeaveType, created.StartDate, created.EndDate, created.NumDays, created.Reason, created.Status).Scan(&created.ID, &created.CreatedAt); err != nil {
		return LeaveRequest{}, 0, err
	}

	newBalance := balance - sub.NumDays
	if _, err := tx.Exec(ctx, `
    UPDATE employees SET leave_balance = $1 WHERE id = $2
  `, newBalance, emp.ID); err != nil {
		return LeaveRequest{}, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return LeaveRequest{}, 0, err
	}
	return created, newBalance, nil
}

// SetStatus transitions a pending request. Denial credits the
// employee's balance back by the request's day count in the same
// transaction as the status write.
func (s *Service) SetStatus(ctx context.Context, requestID, newStatus string) (LeaveRequest, error) {
	if newStatus != StatusApproved && newStatus != StatusDenied {
		return LeaveRequest{}, fmt.Errorf("unsupported status %q", newStatus)
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return LeaveRequest{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var req LeaveRequest
	err = tx.QueryRow(ctx, `
    SELECT id, employee_id, employee_name, leave_type, start_date, end_date, num_days, reason, status, created_at
    FROM pto_requests
    WHERE id = $1
    FOR UPDATE
  `, requestID).Scan(&req.ID, &req.EmployeeID, &req.EmployeeName, &req.LeaveType, &req.StartDate, &req.EndDate, &req.NumDays, &req.Reason, &req.Status, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}

	if req.Status != StatusPending {
		return LeaveRequest{}, ErrInvalidState
	}

	if _, err := tx.Exec(ctx, `
    UPDATE pto_requests SET status = $1 WHERE id = $2
  `, newStatus, requestID); err != nil {
		return LeaveRequest{}, err
	}

	if newStatus == StatusDenied {
		if _, err := tx.Exec(ctx, `
      UPDATE employees SET leave_balance = leave_balance + $1 WHERE id = $2
    `, req.NumDays, req.EmployeeID); err != nil {
			return LeaveRequest{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return LeaveRequest{}, err
	}
	req.Status = newStatus
	return req, nil
}

func (s *Service) Get(ctx context.Context, requestID string) (LeaveRequest, error) {
	var req LeaveRequest
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, employee_name, leave_type, start_date, end_date, num_days, reason, status, created_at
    FROM pto_requests
    WHERE id = $1
  `, requestID).Scan(&req.ID, &req.EmployeeID, &req.EmployeeName, &req.LeaveType, &req.StartDate, &req.EndDate, &req.NumDays, &req.Reason, &req.Status, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

// List returns requests matching the filter, newest first. An empty
// employeeID lists across all employees (admin view).
func (s *Service) List(ctx context.Context, employeeID string, f FilterState) ([]LeaveRequest, error) {
	query, args := buildListQuery(employeeID, f)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.EmployeeName, &req.LeaveType, &req.StartDate, &req.EndDate, &req.NumDays, &req.Reason, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// buildListQuery composes the conjunction of filter predicates.
// Predicate order only affects store-side planning, not results.
func buildListQuery(employeeID string, f FilterState) (string, []any) {
	query := `
    SELECT id, employee_id, employee_name, leave_type, start_date, end_date, num_days, reason, status, created_at
    FROM pto_requests
  `
	var conds []string
	var args []any
	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if employeeID != "" {
		add("employee_id = $%d", employeeID)
	}
	if len(f.Statuses) > 0 {
		add("status = ANY($%d)", f.Statuses)
	}
	if len(f.LeaveTypes) > 0 {
		add("leave_type = ANY($%d)", f.LeaveTypes)
	}
	if f.StartDate != "" {
		add("start_date >= $%d", f.StartDate)
	}
	if f.EndDate != "" {
		add("end_date <= $%d", f.EndDate)
	}
	if f.Days != "" {
		days, _ := strconv.Atoi(f.Days)
		add("num_days = $%d", days)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	return query, args
}
