package model

import "github.com/shopspring/decimal"

// LineItem is one book with its quantity and unit price inside a cart or order.
type LineItem struct {
	BookID    int64
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total returns unit price multiplied by quantity.
func (i LineItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart mirrors the remote cart of a customer.
type Cart struct {
	ID         int64
	UserID     int64
	Items      []LineItem
	TotalPrice decimal.Decimal
}

// Selected returns the items whose book is listed in bookIDs, keeping cart order.
// An empty selection returns no items.
func (c Cart) Selected(bookIDs []int64) []LineItem {
	if len(bookIDs) == 0 {
		return nil
	}
	wanted := make(map[int64]struct{}, len(bookIDs))
	for _, id := range bookIDs {
		wanted[id] = struct{}{}
	}
	items := make([]LineItem, 0, len(bookIDs))
	for _, item := range c.Items {
		if _, ok := wanted[item.BookID]; ok {
			items = append(items, item)
		}
	}
	return items
}

// Contains reports whether the cart holds bookID.
func (c Cart) Contains(bookID int64) bool {
	for _, item := range c.Items {
		if item.BookID == bookID {
			return true
		}
	}
	return false
}
