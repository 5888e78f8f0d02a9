package handlers

import (
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/server/http/dto"
)

func toBookResponse(b model.PricedBook) dto.BookResponse {
	resp := dto.BookResponse{
		ID:              b.Book.ID,
		Title:           b.Book.Title,
		Author:          b.Book.Author,
		Category:        b.Book.Category,
		Price:           b.Book.Price,
		DiscountedPrice: b.DiscountedPrice,
		Saved:           b.Saved,
		Stock:           b.Book.Stock,
		ImageURL:        b.Book.ImageURL,
	}
	if b.Voucher != nil {
		resp.VoucherCode = b.Voucher.Code
	}
	return resp
}

func toBookResponses(books []model.PricedBook) []dto.BookResponse {
	out := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

func toReviewResponse(r model.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:         r.ID,
		BookID:     r.BookID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func toLineItems(items []model.LineItem) []dto.LineItemResponse {
	out := make([]dto.LineItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.LineItemResponse{
			BookID:    item.BookID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total(),
		})
	}
	return out
}

func toSelectionResponse(d model.CheckoutDraft) dto.SelectionResponse {
	ids := d.SelectedBookIDs
	if ids == nil {
		ids = []int64{}
	}
	return dto.SelectionResponse{BookIDs: ids, AppliedVoucherID: d.AppliedVoucherID}
}

func toVoucherResponse(v model.Voucher) dto.VoucherResponse {
	books := v.ApplicableBookIDs
	if books == nil {
		books = []int64{}
	}
	return dto.VoucherResponse{
		ID:                v.ID,
		Code:              v.Code,
		DiscountAmount:    v.DiscountAmount,
		IsPercentage:      v.IsPercentage,
		MinOrderValue:     v.MinOrderValue,
		ExpiryDate:        v.ExpiryDate,
		IsActive:          v.IsActive,
		ApplicableBookIDs: books,
	}
}

func toVoucherListResponse(list model.VoucherList) dto.VoucherListResponse {
	resp := dto.VoucherListResponse{
		Vouchers: make([]dto.EvaluationResponse, 0, len(list.Evaluations)),
		Usable:   list.Usable,
		Unusable: list.Unusable,
	}
	for _, e := range list.Evaluations {
		resp.Vouchers = append(resp.Vouchers, dto.EvaluationResponse{
			Voucher:       toVoucherResponse(e.Voucher),
			Usable:        e.Usable,
			Reason:        string(e.Reason),
			DiscountValue: e.DiscountValue,
			Shortfall:     e.Shortfall,
			Applied:       e.Applied,
		})
	}
	if list.Best != nil {
		id := list.Best.ID
		resp.BestID = &id
	}
	return resp
}

func toQuoteResponse(q model.Quote) dto.QuoteResponse {
	resp := dto.QuoteResponse{
		Items:     toLineItems(q.Items),
		Subtotal:  q.Subtotal,
		Discount:  q.Discount,
		Payable:   q.Payable,
		ItemSaved: q.ItemSaved,
	}
	if q.Voucher != nil {
		v := toVoucherResponse(*q.Voucher)
		resp.Voucher = &v
	}
	return resp
}

func toOrderResponse(o model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            o.ID,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		Items:         toLineItems(o.Items),
		TransactionID: o.TransactionID,
		Paid:          o.Paid,
		CreatedAt:     o.CreatedAt,
	}
}

func toPaymentResponse(p model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:     p.ID,
		Method: string(p.Method),
		Amount: p.Amount,
		Status: string(p.Status),
		PayURL: p.PayURL,
	}
}
