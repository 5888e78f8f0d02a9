package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

// ItemPrice is the per-unit effect of a voucher on one book.
type ItemPrice struct {
	DiscountedPrice decimal.Decimal
	Saved           decimal.Decimal
}

// SelectionTotals summarizes a voucher applied item by item to a selection.
type SelectionTotals struct {
	TotalOriginal   decimal.Decimal
	TotalDiscounted decimal.Decimal
	TotalSaved      decimal.Decimal
	CanApply        bool
}

// DiscountedPrice applies v to a single unit price. Both values are rounded to
// whole units and a flat discount never takes the price below zero.
func DiscountedPrice(price decimal.Decimal, v *model.Voucher) ItemPrice {
	if v == nil || price.Sign() <= 0 || malformed(*v) {
		return ItemPrice{DiscountedPrice: price, Saved: decimal.Zero}
	}

	var saved decimal.Decimal
	if v.IsPercentage {
		saved = price.Mul(v.DiscountAmount).Div(hundred)
	} else {
		saved = decimal.Min(v.DiscountAmount, price)
	}
	return ItemPrice{
		DiscountedPrice: price.Sub(saved).Round(0),
		Saved:           saved.Round(0),
	}
}

// FindApplicable returns the active, unexpired voucher listing bookID with the
// greatest discount amount, or nil. The first voucher wins ties.
func FindApplicable(bookID int64, vouchers []model.Voucher, now time.Time) *model.Voucher {
	var best *model.Voucher
	for i := range vouchers {
		v := vouchers[i]
		if !v.IsActive || !v.ExpiryDate.After(now) || malformed(v) || !v.AppliesTo(bookID) {
			continue
		}
		if best == nil || v.DiscountAmount.GreaterThan(best.DiscountAmount) {
			picked := v
			best = &picked
		}
	}
	return best
}

// SelectedItemsDiscount applies v to every selected item it lists.
func SelectedItemsDiscount(items []model.LineItem, v *model.Voucher) SelectionTotals {
	totals := SelectionTotals{
		TotalOriginal:   decimal.Zero,
		TotalDiscounted: decimal.Zero,
		TotalSaved:      decimal.Zero,
	}
	for _, item := range items {
		if !wellFormed(item) {
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		totals.TotalOriginal = totals.TotalOriginal.Add(item.Total())

		if v != nil && v.AppliesTo(item.BookID) {
			price := DiscountedPrice(item.UnitPrice, v)
			totals.TotalDiscounted = totals.TotalDiscounted.Add(price.DiscountedPrice.Mul(qty))
			totals.CanApply = true
		} else {
			totals.TotalDiscounted = totals.TotalDiscounted.Add(item.Total())
		}
	}
	totals.TotalOriginal = totals.TotalOriginal.Round(0)
	totals.TotalDiscounted = totals.TotalDiscounted.Round(0)
	totals.TotalSaved = totals.TotalOriginal.Sub(totals.TotalDiscounted)
	return totals
}

// MeetsMinimum reports whether orderValue reaches the voucher threshold.
func MeetsMinimum(v *model.Voucher, orderValue decimal.Decimal) bool {
	if v == nil {
		return false
	}
	return orderValue.GreaterThanOrEqual(v.MinOrderValue)
}
