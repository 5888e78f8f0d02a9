package storefront

import (
	"context"
	"net/http"
	"strconv"

	"github.com/polkiloo/bookmart/internal/domain/model"
)

// Login exchanges credentials for a session.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (model.Session, error) {
	var dto authDTO
	err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]string{"username": username, "password": password},
	}, &dto)
	if err != nil {
		return model.Session{}, err
	}
	return dto.toModel(), nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.call(ctx, request{method: http.MethodPost, path: "/api/auth/logout"}, nil)
}

// SendOTP asks the API to mail a one-time password to email.
func (c *HTTPClient) SendOTP(ctx context.Context, email string) error {
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/otp",
		body:   map[string]string{"email": email},
	}, nil)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/verify-otp",
		body:   map[string]string{"email": email, "otpInput": otp},
	}, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/forgot-password",
		body:   map[string]string{"email": email},
	}, nil)
}

// Register creates the customer account once the OTP is verified.
func (c *HTTPClient) Register(ctx context.Context, r model.Registration) error {
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1/customers/register",
		body: map[string]string{
			"username": r.Username,
			"email":    r.Email,
			"password": r.Password,
			"fullName": r.FullName,
			"phone":    r.Phone,
		},
	}, nil)
}

func (c *HTTPClient) Customer(ctx context.Context, id int64) (model.Customer, error) {
	var dto customerDTO
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/v1/customers/getbyid/" + strconv.FormatInt(id, 10)}, &dto); err != nil {
		return model.Customer{}, err
	}
	return dto.toModel(), nil
}
