package storefront

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

func (c *HTTPClient) Books(ctx context.Context) ([]model.Book, error) {
	var dtos []bookDTO
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/v1/books/all"}, &dtos); err != nil {
		return nil, err
	}
	return toBooks(dtos), nil
}

func (c *HTTPClient) Book(ctx context.Context, id int64) (model.Book, error) {
	var dto bookDTO
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/v1/books/get/" + strconv.FormatInt(id, 10)}, &dto); err != nil {
		return model.Book{}, err
	}
	return dto.toModel(), nil
}

// SearchBooks matches books by keyword.
func (c *HTTPClient) SearchBooks(ctx context.Context, query string) ([]model.Book, error) {
	var dtos []bookDTO
	err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1/books/search",
		query:  url.Values{"q": {query}},
	}, &dtos)
	if err != nil {
		return nil, err
	}
	return toBooks(dtos), nil
}

// UploadBookImage replaces the cover image of a book.
func (c *HTTPClient) UploadBookImage(ctx context.Context, bookID int64, filename, mimeType string, data []byte) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="coverImage"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)
	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	return c.call(ctx, request{
		method:      http.MethodPost,
		path:        "/api/v1/books/image/" + strconv.FormatInt(bookID, 10),
		rawBody:     &body,
		contentType: form.FormDataContentType(),
	}, nil)
}
