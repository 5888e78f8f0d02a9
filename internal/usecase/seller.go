package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/media"
	"github.com/polkiloo/bookmart/internal/query"
)

// SellerAPI is the remote surface used by the back office.
type SellerAPI interface {
	Vouchers(ctx context.Context) ([]model.Voucher, error)
	CreateVoucher(ctx context.Context, v model.NewVoucher) (model.Voucher, error)
	AssignVoucherBooks(ctx context.Context, voucherID int64, bookIDs []int64) error
	DeleteVoucher(ctx context.Context, voucherID int64) error
	UploadBookImage(ctx context.Context, bookID int64, filename, mimeType string, data []byte) error
}

type bookAssignment struct {
	voucherID int64
	bookIDs   []int64
}

type imageUpload struct {
	bookID   int64
	filename string
	image    media.Image
}

var hundred = decimal.NewFromInt(100)

// SellerUseCase manages vouchers and book images.
type SellerUseCase struct {
	api        SellerAPI
	sessions   SessionReader
	queries    *query.Client
	now        func() time.Time
	imageLimit int64

	create *query.Mutation[model.NewVoucher, model.Voucher]
	assign *query.Mutation[bookAssignment, struct{}]
	remove *query.Mutation[int64, struct{}]
	upload *query.Mutation[imageUpload, struct{}]
}

// NewSellerUseCase constructs SellerUseCase.
func NewSellerUseCase(api SellerAPI, sessions SessionReader, queries *query.Client) *SellerUseCase {
	voucherKeys := query.Invalidates(DiscountPrefix, VouchersPrefix)
	return &SellerUseCase{
		api:        api,
		sessions:   sessions,
		queries:    queries,
		now:        time.Now,
		imageLimit: media.DefaultLimit,
		create:     query.NewMutation(queries, api.CreateVoucher, voucherKeys, query.WithSuccessMessage("Voucher created")),
		assign: query.NewMutation(queries, func(ctx context.Context, a bookAssignment) (struct{}, error) {
			return struct{}{}, api.AssignVoucherBooks(ctx, a.voucherID, a.bookIDs)
		}, voucherKeys, query.WithSuccessMessage("Voucher books updated")),
		remove: query.NewMutation(queries, func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, api.DeleteVoucher(ctx, id)
		}, voucherKeys, query.WithSuccessMessage("Voucher deleted")),
		upload: query.NewMutation(queries, func(ctx context.Context, up imageUpload) (struct{}, error) {
			return struct{}{}, api.UploadBookImage(ctx, up.bookID, up.filename, up.image.MIME, up.image.Data)
		}, query.Invalidates(BooksPrefix), query.WithSuccessMessage("Image uploaded")),
	}
}

func (u *SellerUseCase) requireSession() error {
	if !u.sessions.Current().Active() {
		return domainErrors.ErrNoSession
	}
	return nil
}

// Vouchers lists every voucher of the marketplace.
func (u *SellerUseCase) Vouchers(ctx context.Context) ([]model.Voucher, error) {
	if err := u.requireSession(); err != nil {
		return nil, err
	}
	return query.Query(ctx, u.queries, allVouchersKey, func(ctx context.Context) ([]model.Voucher, error) {
		vouchers, err := u.api.Vouchers(ctx)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return []model.Voucher{}, nil
		}
		return vouchers, err
	})
}

// ValidateNewVoucher normalizes the code and checks the amounts and expiry.
func ValidateNewVoucher(v model.NewVoucher, now time.Time) (model.NewVoucher, error) {
	v.Code = strings.ToUpper(strings.TrimSpace(v.Code))
	if v.Code == "" {
		return v, domainErrors.Invalid("code", "code is required")
	}
	if v.IsPercentage {
		if v.DiscountAmount.LessThan(decimal.NewFromInt(1)) || v.DiscountAmount.GreaterThan(hundred) {
			return v, domainErrors.Invalid("discountAmount", "percentage must be between 1 and 100")
		}
	} else if v.DiscountAmount.Sign() <= 0 {
		return v, domainErrors.Invalid("discountAmount", "amount must be positive")
	}
	if v.MinOrderValue.Sign() < 0 {
		return v, domainErrors.Invalid("minOrderValue", "minimum order value cannot be negative")
	}
	if !v.ExpiryDate.After(now) {
		return v, domainErrors.Invalid("expiryDate", "expiry date must be in the future")
	}
	return v, nil
}

// CreateVoucher validates and creates a voucher.
func (u *SellerUseCase) CreateVoucher(ctx context.Context, v model.NewVoucher) (model.Voucher, error) {
	if err := u.requireSession(); err != nil {
		return model.Voucher{}, err
	}
	v, err := ValidateNewVoucher(v, u.now())
	if err != nil {
		return model.Voucher{}, err
	}
	return u.create.Run(ctx, v)
}

// AssignBooks replaces the books voucherID applies to.
func (u *SellerUseCase) AssignBooks(ctx context.Context, voucherID int64, bookIDs []int64) error {
	if err := u.requireSession(); err != nil {
		return err
	}
	seen := make(map[int64]struct{}, len(bookIDs))
	unique := make([]int64, 0, len(bookIDs))
	for _, id := range bookIDs {
		if id <= 0 {
			return domainErrors.Invalid("bookIds", "book ids must be positive")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	_, err := u.assign.Run(ctx, bookAssignment{voucherID: voucherID, bookIDs: unique})
	return err
}

// DeleteVoucher removes voucherID.
func (u *SellerUseCase) DeleteVoucher(ctx context.Context, voucherID int64) error {
	if err := u.requireSession(); err != nil {
		return err
	}
	_, err := u.remove.Run(ctx, voucherID)
	return err
}

// UploadBookImage checks that r holds an image and uploads it as the cover of bookID.
func (u *SellerUseCase) UploadBookImage(ctx context.Context, bookID int64, filename string, r io.Reader) (media.Image, error) {
	if err := u.requireSession(); err != nil {
		return media.Image{}, err
	}
	img, err := media.Preview(ctx, r, u.imageLimit)
	if err != nil {
		return media.Image{}, err
	}
	if filename == "" {
		filename = "cover" + img.Ext
	}
	if _, err := u.upload.Run(ctx, imageUpload{bookID: bookID, filename: filename, image: img}); err != nil {
		return media.Image{}, err
	}
	return img, nil
}
