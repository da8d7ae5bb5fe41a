package session

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, sess Session) error
	Get(ctx context.Context, sessionID string) (Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
