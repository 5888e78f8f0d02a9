package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

var _ repository.Factory = (*Storage)(nil)

// Storage keeps the local client state in PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type sessionRepository struct {
	storage *Storage
}

type draftRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

// New connects to dsn and creates the schema.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) Sessions() repository.SessionRepository {
	return &sessionRepository{storage: s}
}

func (s *Storage) Drafts() repository.DraftRepository {
	return &draftRepository{storage: s}
}

func (s *Storage) Payments() repository.PendingPaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS client_session (
            id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
            token TEXT NOT NULL,
            role TEXT NOT NULL,
            user_id BIGINT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS checkout_drafts (
            user_id BIGINT PRIMARY KEY,
            selected_book_ids BIGINT[] NOT NULL DEFAULT '{}',
            applied_voucher_id BIGINT,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS pending_payments (
            order_id BIGINT PRIMARY KEY,
            payment_id BIGINT NOT NULL DEFAULT 0,
            user_id BIGINT NOT NULL,
            method TEXT NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            checked_at TIMESTAMPTZ
        )`,
		`CREATE INDEX IF NOT EXISTS idx_pending_payments_status ON pending_payments(status, checked_at NULLS FIRST)`,
		`CREATE INDEX IF NOT EXISTS idx_pending_payments_user ON pending_payments(user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- SessionRepository implementation ---

func (r *sessionRepository) Load(ctx context.Context) (*model.Session, error) {
	const query = `SELECT token, role, user_id FROM client_session WHERE id=1`
	var (
		s    model.Session
		role string
	)
	err := r.storage.pool.QueryRow(ctx, query).Scan(&s.Token, &role, &s.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	s.Role = model.Role(role)
	return &s, nil
}

func (r *sessionRepository) Save(ctx context.Context, s model.Session) error {
	const query = `INSERT INTO client_session (id, token, role, user_id, updated_at)
                   VALUES (1, $1, $2, $3, NOW())
                   ON CONFLICT (id) DO UPDATE
                   SET token = EXCLUDED.token, role = EXCLUDED.role, user_id = EXCLUDED.user_id, updated_at = NOW()`
	_, err := r.storage.pool.Exec(ctx, query, s.Token, string(s.Role), s.UserID)
	return err
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM client_session`)
	return err
}

// --- DraftRepository implementation ---

func (r *draftRepository) Get(ctx context.Context, userID int64) (*model.CheckoutDraft, error) {
	const query = `SELECT user_id, selected_book_ids, applied_voucher_id, updated_at
                   FROM checkout_drafts WHERE user_id=$1`
	var d model.CheckoutDraft
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&d.UserID, &d.SelectedBookIDs, &d.AppliedVoucherID, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.CheckoutDraft{UserID: userID}, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *draftRepository) Save(ctx context.Context, d model.CheckoutDraft) error {
	const query = `INSERT INTO checkout_drafts (user_id, selected_book_ids, applied_voucher_id, updated_at)
                   VALUES ($1, $2, $3, $4)
                   ON CONFLICT (user_id) DO UPDATE
                   SET selected_book_ids = EXCLUDED.selected_book_ids,
                       applied_voucher_id = EXCLUDED.applied_voucher_id,
                       updated_at = EXCLUDED.updated_at`
	selected := d.SelectedBookIDs
	if selected == nil {
		selected = []int64{}
	}
	updatedAt := d.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := r.storage.pool.Exec(ctx, query, d.UserID, selected, d.AppliedVoucherID, updatedAt)
	return err
}

func (r *draftRepository) Delete(ctx context.Context, userID int64) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM checkout_drafts WHERE user_id=$1`, userID)
	return err
}

// --- PendingPaymentRepository implementation ---

func (r *paymentRepository) Add(ctx context.Context, p model.PendingPayment) error {
	const query = `INSERT INTO pending_payments (order_id, payment_id, user_id, method, status, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   ON CONFLICT (order_id) DO UPDATE
                   SET payment_id = EXCLUDED.payment_id, status = EXCLUDED.status, checked_at = NULL`
	status := p.Status
	if status == "" {
		status = model.PaymentPending
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.storage.pool.Exec(ctx, query, p.OrderID, p.PaymentID, p.UserID, string(p.Method), string(status), createdAt)
	return err
}

// ClaimBatch locks up to limit pending rows, least recently checked first, and
// stamps them so that other pollers pick different rows next round.
func (r *paymentRepository) ClaimBatch(ctx context.Context, limit int) ([]model.PendingPayment, error) {
	const selectQuery = `SELECT order_id, payment_id, user_id, method, status, created_at
                         FROM pending_payments
                         WHERE status = 'PENDING'
                         ORDER BY checked_at NULLS FIRST, created_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var payments []model.PendingPayment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPayment(rows)
			if err != nil {
				return err
			}
			payments = append(payments, p)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		for _, p := range payments {
			if _, err := tx.Exec(ctx, `UPDATE pending_payments SET checked_at=NOW() WHERE order_id=$1`, p.OrderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) Resolve(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	const query = `UPDATE pending_payments SET status=$1, checked_at=NOW() WHERE order_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, string(status), orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID int64) ([]model.PendingPayment, error) {
	const query = `SELECT order_id, payment_id, user_id, method, status, created_at
                   FROM pending_payments WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PendingPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanPayment(rows pgx.Rows) (model.PendingPayment, error) {
	var (
		p              model.PendingPayment
		method, status string
	)
	if err := rows.Scan(&p.OrderID, &p.PaymentID, &p.UserID, &method, &status, &p.CreatedAt); err != nil {
		return model.PendingPayment{}, err
	}
	p.Method = model.PaymentMethod(method)
	p.Status = model.PaymentStatus(status)
	return p, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
