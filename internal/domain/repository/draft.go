package repository

import (
	"context"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

// DraftRepository stores the transient checkout state of a user.
type DraftRepository interface {
	// Get returns an empty draft when none is stored.
	Get(ctx context.Context, userID int64) (*model.CheckoutDraft, error)
	Save(ctx context.Context, draft model.CheckoutDraft) error
	Delete(ctx context.Context, userID int64) error
}
