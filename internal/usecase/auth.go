package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/query"
	"github.com/polkiloo/bookmart/internal/session"
)

type credentials struct {
	username string
	password string
}

type otpCheck struct {
	email string
	otp   string
}

// AuthUseCase signs users in and out and drives the OTP-gated registration.
type AuthUseCase struct {
	api      AuthAPI
	sessions SessionWriter
	queries  *query.Client
	logger   *slog.Logger

	login    *query.Mutation[credentials, model.Session]
	sendOTP  *query.Mutation[string, struct{}]
	verify   *query.Mutation[otpCheck, struct{}]
	register *query.Mutation[model.Registration, struct{}]
	forgot   *query.Mutation[string, struct{}]

	mu      sync.Mutex
	pending map[string]model.Registration
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(api AuthAPI, sessions SessionWriter, queries *query.Client, logger *slog.Logger) *AuthUseCase {
	u := &AuthUseCase{
		api:      api,
		sessions: sessions,
		queries:  queries,
		logger:   logger,
		pending:  make(map[string]model.Registration),
	}
	u.login = query.NewMutation(queries, func(ctx context.Context, c credentials) (model.Session, error) {
		return api.Login(ctx, c.username, c.password)
	})
	u.sendOTP = query.NewMutation(queries, func(ctx context.Context, email string) (struct{}, error) {
		return struct{}{}, api.SendOTP(ctx, email)
	}, query.WithSuccessMessage("A verification code was sent to your email"))
	u.verify = query.NewMutation(queries, func(ctx context.Context, c otpCheck) (struct{}, error) {
		return struct{}{}, api.VerifyOTP(ctx, c.email, c.otp)
	})
	u.register = query.NewMutation(queries, func(ctx context.Context, r model.Registration) (struct{}, error) {
		return struct{}{}, api.Register(ctx, r)
	}, query.WithSuccessMessage("Registration complete, you can sign in now"))
	u.forgot = query.NewMutation(queries, func(ctx context.Context, email string) (struct{}, error) {
		return struct{}{}, api.ForgotPassword(ctx, email)
	}, query.WithSuccessMessage("Password reset instructions were sent to your email"))
	return u
}

// Login exchanges credentials for a session and stores it.
func (u *AuthUseCase) Login(ctx context.Context, username, password string) (model.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.Session{}, domainErrors.ErrInvalidCredentials
	}

	s, err := u.login.Run(ctx, credentials{username: username, password: password})
	if err != nil {
		if errors.Is(err, domainErrors.ErrUnauthorized) {
			return model.Session{}, domainErrors.ErrInvalidCredentials
		}
		return model.Session{}, err
	}
	if !s.Active() {
		return model.Session{}, domainErrors.ErrInvalidCredentials
	}
	if err := u.sessions.Set(ctx, s); err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// Logout tells the API best effort and always clears the local session.
func (u *AuthUseCase) Logout(ctx context.Context) error {
	if !u.sessions.Current().Active() {
		return nil
	}
	if err := u.api.Logout(ctx); err != nil {
		u.logger.Warn("remote logout failed", slog.String("error", err.Error()))
	}
	return u.sessions.Clear(ctx, session.ReasonLogout)
}

// Current returns the signed-in user or ErrNoSession.
func (u *AuthUseCase) Current() (model.Session, error) {
	s := u.sessions.Current()
	if !s.Active() {
		return model.Session{}, domainErrors.ErrNoSession
	}
	return s, nil
}

// Profile returns the customer record of the signed-in user.
func (u *AuthUseCase) Profile(ctx context.Context) (model.Customer, error) {
	s, err := u.Current()
	if err != nil {
		return model.Customer{}, err
	}
	return query.Query(ctx, u.queries, customerKey(s.UserID), func(ctx context.Context) (model.Customer, error) {
		return u.api.Customer(ctx, s.UserID)
	})
}

// BeginRegistration validates the form and mails a one-time password.
func (u *AuthUseCase) BeginRegistration(ctx context.Context, form model.Registration) error {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	form.FullName = strings.TrimSpace(form.FullName)
	form.Phone = strings.TrimSpace(form.Phone)
	if err := ValidateRegistration(form); err != nil {
		return err
	}

	if _, err := u.sendOTP.Run(ctx, form.Email); err != nil {
		return err
	}

	u.mu.Lock()
	u.pending[strings.ToLower(form.Email)] = form
	u.mu.Unlock()
	return nil
}

// CompleteRegistration verifies otp and creates the account started for email.
func (u *AuthUseCase) CompleteRegistration(ctx context.Context, email, otp string) error {
	email = strings.TrimSpace(email)
	otp = strings.TrimSpace(otp)
	if err := ValidateOTP(otp); err != nil {
		return err
	}

	key := strings.ToLower(email)
	u.mu.Lock()
	form, ok := u.pending[key]
	u.mu.Unlock()
	if !ok {
		return domainErrors.ErrRegistrationNotStarted
	}

	if _, err := u.verify.Run(ctx, otpCheck{email: form.Email, otp: otp}); err != nil {
		return err
	}
	if _, err := u.register.Run(ctx, form); err != nil {
		return err
	}

	u.mu.Lock()
	delete(u.pending, key)
	u.mu.Unlock()
	return nil
}

// ForgotPassword asks the API to send reset instructions.
func (u *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return err
	}
	_, err := u.forgot.Run(ctx, email)
	return err
}
