package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"ptoportal/internal/platform/config"
)

// Seed provisions the employee directory for development. Employees are
// managed externally in production; this is the stand-in for that
// provisioning so the portal is usable out of the box.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adminEmail := cfg.SeedAdminEmail
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}

	seedEmployees := []struct {
		id      string
		name    string
		email   string
		balance int
		admin   bool
	}{
		{cfg.SeedAdminID, "Portal Admin", adminEmail, 0, true},
		{"E100", "Avery Collins", "avery.collins@example.com", 20, false},
		{"E101", "Jordan Blake", "jordan.blake@example.com", 15, false},
		{"E102", "Sam Whitfield", "sam.whitfield@example.com", 25, false},
	}

	for _, emp := range seedEmployees {
		if _, err := pool.Exec(ctx, `
      INSERT INTO employees (id, name, email, leave_balance, is_admin)
      VALUES ($1,$2,$3,$4,$5)
      ON CONFLICT (id) DO NOTHING
    `, emp.id, emp.name, emp.email, emp.balance, emp.admin); err != nil {
			return err
		}
	}
	return nil
}
