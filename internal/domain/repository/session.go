package repository

import (
	"context"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

// SessionRepository persists the single client session.
type SessionRepository interface {
	// Load returns errors.ErrNotFound when no session is stored.
	Load(ctx context.Context) (*model.Session, error)
	Save(ctx context.Context, session model.Session) error
	Clear(ctx context.Context) error
}
