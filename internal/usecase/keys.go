package usecase

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bookmart/internal/query"
)

// Cache key prefixes of remote reads.
var (
	CartPrefix     = query.Key{"cart"}
	VouchersPrefix = query.Key{"vouchers"}
	DiscountPrefix = query.Key{"discounts"}
	BooksPrefix    = query.Key{"books"}
	ReviewsPrefix  = query.Key{"reviews"}
	OrdersPrefix   = query.Key{"orders"}
)

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// CartKey is the cache key of the cart of userID.
func CartKey(userID int64) query.Key {
	return query.Key{"cart", id(userID)}
}

func availableVouchersKey(userID int64, orderValue decimal.Decimal) query.Key {
	return query.Key{"vouchers", id(userID), orderValue.String()}
}

var allVouchersKey = query.Key{"discounts", "all"}

var allBooksKey = query.Key{"books", "all"}

func bookKey(bookID int64) query.Key {
	return query.Key{"books", id(bookID)}
}

func searchKey(q string) query.Key {
	return query.Key{"books", "search", q}
}

func reviewsKey(bookID int64) query.Key {
	return query.Key{"reviews", id(bookID)}
}

func ratingKey(bookID int64) query.Key {
	return query.Key{"reviews", id(bookID), "average"}
}

// OrdersKey is the cache key of the orders of userID.
func OrdersKey(userID int64) query.Key {
	return query.Key{"orders", id(userID)}
}

func customerKey(userID int64) query.Key {
	return query.Key{"customers", id(userID)}
}

func orderKey(userID, orderID int64) query.Key {
	return query.Key{"orders", id(userID), "id", id(orderID)}
}
