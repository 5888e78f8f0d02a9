// Package pricing decides which vouchers can be used on a cart selection and
// what they save. Every function is pure: no I/O, inputs are never modified.
package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

var hundred = decimal.NewFromInt(100)

// Evaluate reports, for each voucher in input order, whether it can be used on
// items and how much it would save. items must be the selected line items only.
func Evaluate(items []model.LineItem, vouchers []model.Voucher, now time.Time) []model.Evaluation {
	subtotal := Subtotal(items)
	books := eligibleBooks(items)

	results := make([]model.Evaluation, 0, len(vouchers))
	for _, v := range vouchers {
		results = append(results, evaluateOne(v, books, subtotal, now))
	}
	return results
}

func evaluateOne(v model.Voucher, books map[int64]struct{}, subtotal decimal.Decimal, now time.Time) model.Evaluation {
	res := model.Evaluation{
		Voucher:       v,
		DiscountValue: decimal.Zero,
		Shortfall:     decimal.Zero,
	}

	switch {
	case v.ExpiryDate.Before(now):
		res.Reason = model.ReasonExpired
	case malformed(v):
		res.Reason = model.ReasonInvalid
	case !v.IsActive:
		res.Reason = model.ReasonInactive
	case !overlaps(v, books):
		res.Reason = model.ReasonNoApplicableItems
	case !MeetsMinimum(&v, subtotal):
		res.Reason = model.ReasonBelowMinimum
		res.Shortfall = v.MinOrderValue.Sub(subtotal)
	default:
		res.Usable = true
		res.DiscountValue = PriceFor(v, subtotal)
	}
	return res
}

// PriceFor returns the amount v saves on subtotal. Percentage discounts are
// rounded half up to whole currency units; flat discounts are capped at subtotal.
func PriceFor(v model.Voucher, subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.Sign() <= 0 || v.DiscountAmount.Sign() <= 0 {
		return decimal.Zero
	}
	if v.IsPercentage {
		value := subtotal.Mul(v.DiscountAmount).Div(hundred).Round(0)
		return decimal.Min(value, subtotal)
	}
	return decimal.Min(v.DiscountAmount, subtotal)
}

// PickBest returns the usable voucher with the greatest discount value, the
// first one in input order on ties, or nil when none is usable.
func PickBest(evaluations []model.Evaluation) *model.Voucher {
	best := -1
	for i, e := range evaluations {
		if !e.Usable {
			continue
		}
		if best < 0 || e.DiscountValue.GreaterThan(evaluations[best].DiscountValue) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	v := evaluations[best].Voucher
	return &v
}

// Subtotal sums unit price times quantity over well-formed items.
func Subtotal(items []model.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if !wellFormed(item) {
			continue
		}
		total = total.Add(item.Total())
	}
	return total
}

// Payable subtracts discount from subtotal without going below zero.
func Payable(subtotal, discount decimal.Decimal) decimal.Decimal {
	payable := subtotal.Sub(discount)
	if payable.Sign() < 0 {
		return decimal.Zero
	}
	return payable
}

// Filter narrows evaluations to a tab and a case-insensitive code search,
// keeping their order.
func Filter(evaluations []model.Evaluation, tab model.VoucherTab, query string) []model.Evaluation {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Evaluation, 0, len(evaluations))
	for _, e := range evaluations {
		if query != "" && !strings.Contains(strings.ToLower(e.Voucher.Code), query) {
			continue
		}
		switch tab {
		case model.TabUsable:
			if !e.Usable {
				continue
			}
		case model.TabUnusable:
			if e.Usable {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// Count returns the number of usable and unusable evaluations.
func Count(evaluations []model.Evaluation) (usable, unusable int) {
	for _, e := range evaluations {
		if e.Usable {
			usable++
		} else {
			unusable++
		}
	}
	return usable, unusable
}

// MarkApplied flags the evaluation of voucherID as applied.
func MarkApplied(evaluations []model.Evaluation, voucherID int64) {
	for i := range evaluations {
		evaluations[i].Applied = evaluations[i].Voucher.ID == voucherID
	}
}

func eligibleBooks(items []model.LineItem) map[int64]struct{} {
	books := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if wellFormed(item) {
			books[item.BookID] = struct{}{}
		}
	}
	return books
}

func overlaps(v model.Voucher, books map[int64]struct{}) bool {
	for _, id := range v.ApplicableBookIDs {
		if _, ok := books[id]; ok {
			return true
		}
	}
	return false
}

func wellFormed(item model.LineItem) bool {
	return item.Quantity > 0 && item.UnitPrice.Sign() >= 0
}

func malformed(v model.Voucher) bool {
	if v.DiscountAmount.Sign() < 0 || v.MinOrderValue.Sign() < 0 {
		return true
	}
	return v.IsPercentage && v.DiscountAmount.GreaterThan(hundred)
}
