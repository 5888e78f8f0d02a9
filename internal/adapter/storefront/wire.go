package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

type authDTO struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID int64  `json:"userId"`
}

func (d authDTO) toModel() model.Session {
	return model.Session{Token: d.Token, Role: model.Role(d.Role), UserID: d.UserID}
}

type customerDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (d customerDTO) toModel() model.Customer {
	return model.Customer{
		ID:       d.ID,
		Username: d.Username,
		FullName: d.FullName,
		Email:    d.Email,
		Phone:    d.Phone,
		Address:  d.Address,
	}
}

type bookDTO struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	CoverImage    string          `json:"coverImage"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	SellerID      int64           `json:"sellerId"`
	CategoryNames []string        `json:"categoryNames"`
}

func (d bookDTO) toModel() model.Book {
	b := model.Book{
		ID:       d.ID,
		Title:    d.Title,
		Author:   d.Author,
		Price:    d.Price,
		Stock:    d.Stock,
		ImageURL: d.CoverImage,
		SellerID: d.SellerID,
	}
	if len(d.CategoryNames) > 0 {
		b.Category = d.CategoryNames[0]
	}
	return b
}

func toBooks(dtos []bookDTO) []model.Book {
	books := make([]model.Book, 0, len(dtos))
	for _, d := range dtos {
		books = append(books, d.toModel())
	}
	return books
}

// cartItemDTO accepts both the nested {book:{...}, quantity} and the flat
// {bookId, title, price, quantity} shapes.
type cartItemDTO struct {
	Book      *bookDTO         `json:"book"`
	BookID    int64            `json:"bookId"`
	Title     string           `json:"title"`
	BookTitle string           `json:"bookTitle"`
	Price     *decimal.Decimal `json:"price"`
	BookPrice *decimal.Decimal `json:"bookPrice"`
	Quantity  int              `json:"quantity"`
}

func (d cartItemDTO) toModel() model.LineItem {
	item := model.LineItem{BookID: d.BookID, Title: d.Title, Quantity: d.Quantity, UnitPrice: decimal.Zero}
	if item.Title == "" {
		item.Title = d.BookTitle
	}
	switch {
	case d.Price != nil:
		item.UnitPrice = *d.Price
	case d.BookPrice != nil:
		item.UnitPrice = *d.BookPrice
	}
	if d.Book != nil {
		if item.BookID == 0 {
			item.BookID = d.Book.ID
		}
		if item.Title == "" {
			item.Title = d.Book.Title
		}
		if d.Price == nil && d.BookPrice == nil {
			item.UnitPrice = d.Book.Price
		}
	}
	return item
}

type cartDTO struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	CartItems  []cartItemDTO   `json:"cartItems"`
	Items      []cartItemDTO   `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (d cartDTO) toModel() model.Cart {
	source := d.CartItems
	if len(source) == 0 {
		source = d.Items
	}
	items := make([]model.LineItem, 0, len(source))
	for _, it := range source {
		items = append(items, it.toModel())
	}
	return model.Cart{ID: d.ID, UserID: d.UserID, Items: items, TotalPrice: d.TotalPrice}
}

type voucherDTO struct {
	ID                int64            `json:"id"`
	Code              string           `json:"code"`
	DiscountAmount    decimal.Decimal  `json:"discountAmount"`
	Percentage        *bool            `json:"percentage"`
	IsPercentage      *bool            `json:"isPercentage"`
	MinOrderValue     *decimal.Decimal `json:"minOrderValue"`
	ExpiryDate        Timestamp        `json:"expiryDate"`
	Active            *bool            `json:"active"`
	IsActive          *bool            `json:"isActive"`
	ApplicableBookIDs []int64          `json:"applicableBookIds"`
}

func firstBool(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}

func (d voucherDTO) toModel() model.Voucher {
	v := model.Voucher{
		ID:                d.ID,
		Code:              d.Code,
		DiscountAmount:    d.DiscountAmount,
		IsPercentage:      firstBool(d.Percentage, d.IsPercentage),
		MinOrderValue:     decimal.Zero,
		ExpiryDate:        d.ExpiryDate.Time,
		IsActive:          firstBool(d.Active, d.IsActive),
		ApplicableBookIDs: d.ApplicableBookIDs,
	}
	if d.MinOrderValue != nil {
		v.MinOrderValue = *d.MinOrderValue
	}
	return v
}

func toVouchers(dtos []voucherDTO) []model.Voucher {
	vouchers := make([]model.Voucher, 0, len(dtos))
	for _, d := range dtos {
		vouchers = append(vouchers, d.toModel())
	}
	return vouchers
}

type newVoucherDTO struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Percentage     bool            `json:"percentage"`
	MinOrderValue  decimal.Decimal `json:"minOrderValue"`
	ExpiryDate     Timestamp       `json:"expiryDate"`
	Active         bool            `json:"active"`
}

type orderItemDTO struct {
	BookID         int64           `json:"bookId"`
	BookTitle      string          `json:"bookTitle"`
	BookPrice      decimal.Decimal `json:"bookPrice"`
	Quantity       int             `json:"quantity"`
	DiscountCode   string          `json:"discountCode,omitempty"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

type orderDTO struct {
	ID            int64           `json:"id"`
	CustomerID    int64           `json:"customerId"`
	CartItems     []orderItemDTO  `json:"cartItems"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        string          `json:"status"`
	OrderDate     Timestamp       `json:"orderDate"`
	TransactionID string          `json:"transactionId"`
	Paid          bool            `json:"paid"`
}

func (d orderDTO) toModel() model.Order {
	items := make([]model.LineItem, 0, len(d.CartItems))
	for _, it := range d.CartItems {
		items = append(items, model.LineItem{
			BookID:    it.BookID,
			Title:     it.BookTitle,
			Quantity:  it.Quantity,
			UnitPrice: it.BookPrice,
		})
	}
	return model.Order{
		ID:            d.ID,
		CustomerID:    d.CustomerID,
		Status:        d.Status,
		TotalAmount:   d.TotalPrice,
		Items:         items,
		TransactionID: d.TransactionID,
		Paid:          d.Paid,
		CreatedAt:     d.OrderDate.Time,
	}
}

type orderItemRequestDTO struct {
	BookID       int64  `json:"bookId"`
	Quantity     int    `json:"quantity"`
	DiscountCode string `json:"discountCode,omitempty"`
}

type orderRequestDTO struct {
	CustomerID int64                 `json:"customerId"`
	Items      []orderItemRequestDTO `json:"items"`
	VoucherID  *int64                `json:"voucherId,omitempty"`
	FullName   string                `json:"fullName,omitempty"`
	Phone      string                `json:"phone,omitempty"`
	Email      string                `json:"email,omitempty"`
	Address    string                `json:"address,omitempty"`
	Note       string                `json:"note,omitempty"`
}

func newOrderRequest(r model.OrderRequest) orderRequestDTO {
	items := make([]orderItemRequestDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, orderItemRequestDTO{BookID: it.BookID, Quantity: it.Quantity, DiscountCode: it.DiscountCode})
	}
	return orderRequestDTO{
		CustomerID: r.CustomerID,
		Items:      items,
		VoucherID:  r.VoucherID,
		FullName:   r.Shipping.FullName,
		Phone:      r.Shipping.Phone,
		Email:      r.Shipping.Email,
		Address:    r.Shipping.Address,
		Note:       r.Shipping.Note,
	}
}

type paymentDTO struct {
	ID      int64           `json:"id"`
	OrderID int64           `json:"orderId"`
	Amount  decimal.Decimal `json:"amount"`
	Method  string          `json:"method"`
	Status  string          `json:"status"`
}

func (d paymentDTO) toModel() model.Payment {
	return model.Payment{
		ID:      d.ID,
		OrderID: d.OrderID,
		Method:  model.PaymentMethod(d.Method),
		Amount:  d.Amount,
		Status:  paymentStatus(d.Status),
	}
}

// paymentStatus maps the remote payment status onto the local one.
func paymentStatus(remote string) model.PaymentStatus {
	switch remote {
	case "SUCCESS", "PAID", "COMPLETED":
		return model.PaymentPaid
	case "FAILED", "CANCELLED", "CANCELED":
		return model.PaymentFailed
	default:
		return model.PaymentPending
	}
}

type reviewDTO struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customerId"`
	BookID     int64     `json:"bookId"`
	Rating     int       `json:"rating"`
	Content    string    `json:"content"`
	Comment    string    `json:"comment"`
	CreatedAt  Timestamp `json:"createdAt"`
}

func (d reviewDTO) toModel() model.Review {
	comment := d.Content
	if comment == "" {
		comment = d.Comment
	}
	return model.Review{
		ID:         d.ID,
		BookID:     d.BookID,
		CustomerID: d.CustomerID,
		Rating:     d.Rating,
		Comment:    comment,
		CreatedAt:  d.CreatedAt.Time,
	}
}
