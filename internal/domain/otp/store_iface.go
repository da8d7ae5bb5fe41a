package otp

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindByCode(ctx context.Context, code string) (Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, code string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
