package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
)

// SessionRepositoryStub keeps the persisted session in memory.
type SessionRepositoryStub struct {
	mu       sync.Mutex
	Session  *model.Session
	LoadErr  error
	SaveErr  error
	ClearErr error
	Saves    int
	Clears   int
}

// Load returns the stored session or not found.
func (s *SessionRepositoryStub) Load(ctx context.Context) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.Session == nil {
		return nil, domainErrors.ErrNotFound
	}
	sess := *s.Session
	return &sess, nil
}

// Save stores session unless SaveErr is configured.
func (s *SessionRepositoryStub) Save(ctx context.Context, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Session = &session
	return nil
}

// Clear drops the stored session and counts invocations.
func (s *SessionRepositoryStub) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clears++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.Session = nil
	return nil
}

// ClearCount returns how many times Clear was called.
func (s *SessionRepositoryStub) ClearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Clears
}

// DraftRepositoryStub stores checkout drafts per user.
type DraftRepositoryStub struct {
	mu      sync.Mutex
	Drafts  map[int64]model.CheckoutDraft
	Err     error
	Deleted []int64
}

// NewDraftRepositoryStub constructs an empty draft stub.
func NewDraftRepositoryStub() *DraftRepositoryStub {
	return &DraftRepositoryStub{Drafts: make(map[int64]model.CheckoutDraft)}
}

// Get returns the stored draft or an empty one.
func (s *DraftRepositoryStub) Get(ctx context.Context, userID int64) (*model.CheckoutDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if d, ok := s.Drafts[userID]; ok {
		return &d, nil
	}
	return &model.CheckoutDraft{UserID: userID}, nil
}

// Save replaces the draft of draft.UserID.
func (s *DraftRepositoryStub) Save(ctx context.Context, draft model.CheckoutDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Drafts == nil {
		s.Drafts = make(map[int64]model.CheckoutDraft)
	}
	s.Drafts[draft.UserID] = draft
	return nil
}

// Delete removes the draft and records the call.
func (s *DraftRepositoryStub) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Drafts, userID)
	s.Deleted = append(s.Deleted, userID)
	return nil
}

// PaymentResolveCall stores information about Resolve invocations.
type PaymentResolveCall struct {
	OrderID int64
	Status  model.PaymentStatus
}

// PendingPaymentRepositoryStub keeps pending payments in memory.
type PendingPaymentRepositoryStub struct {
	mu        sync.Mutex
	Payments  []model.PendingPayment
	ClaimFn   func(context.Context, int) ([]model.PendingPayment, error)
	AddErr    error
	ResolveFn func(context.Context, int64, model.PaymentStatus) error
	Resolved  []PaymentResolveCall
}

// Add appends payment unless AddErr is configured.
func (s *PendingPaymentRepositoryStub) Add(ctx context.Context, payment model.PendingPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AddErr != nil {
		return s.AddErr
	}
	s.Payments = append(s.Payments, payment)
	return nil
}

// ClaimBatch returns up to limit stored payments still pending.
func (s *PendingPaymentRepositoryStub) ClaimBatch(ctx context.Context, limit int) ([]model.PendingPayment, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PendingPayment
	for _, p := range s.Payments {
		if p.Status != model.PaymentPending {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

// Resolve marks payment with status and records the call.
func (s *PendingPaymentRepositoryStub) Resolve(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	if s.ResolveFn != nil {
		if err := s.ResolveFn(ctx, orderID, status); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Resolved = append(s.Resolved, PaymentResolveCall{OrderID: orderID, Status: status})
	for i := range s.Payments {
		if s.Payments[i].OrderID == orderID {
			s.Payments[i].Status = status
		}
	}
	return nil
}

// ListByUser returns stored payments of userID.
func (s *PendingPaymentRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.PendingPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PendingPayment
	for _, p := range s.Payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ResolvedCalls returns a copy of recorded Resolve calls.
func (s *PendingPaymentRepositoryStub) ResolvedCalls() []PaymentResolveCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PaymentResolveCall(nil), s.Resolved...)
}
