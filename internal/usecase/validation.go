package usecase

import (
	"net/mail"
	"regexp"
	"strings"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
)

const minPasswordLength = 6

var (
	phonePattern = regexp.MustCompile(`^(\+84|84|0)[35789]\d{8}$`)
	otpPattern   = regexp.MustCompile(`^\d{6}$`)
)

// ValidateEmail accepts a bare address with a dotted domain.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domainErrors.Invalid("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return domainErrors.Invalid("email", "email is not valid")
	}
	return nil
}

// ValidatePhone accepts Vietnamese mobile numbers.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return domainErrors.Invalid("phone", "phone is required")
	}
	if !phonePattern.MatchString(phone) {
		return domainErrors.Invalid("phone", "phone is not a valid Vietnamese mobile number")
	}
	return nil
}

// ValidateOTP requires exactly six digits.
func ValidateOTP(otp string) error {
	if !otpPattern.MatchString(strings.TrimSpace(otp)) {
		return domainErrors.Invalid("otp", "otp must be 6 digits")
	}
	return nil
}

// ValidateRegistration reports the first invalid field of the sign up form.
func ValidateRegistration(r model.Registration) error {
	if strings.TrimSpace(r.Username) == "" {
		return domainErrors.Invalid("username", "username is required")
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < minPasswordLength {
		return domainErrors.Invalid("password", "password must be at least 6 characters")
	}
	if r.Password != r.ConfirmPassword {
		return domainErrors.Invalid("confirmPassword", "passwords do not match")
	}
	if strings.TrimSpace(r.FullName) == "" {
		return domainErrors.Invalid("fullName", "full name is required")
	}
	return ValidatePhone(r.Phone)
}

// ValidateShipping checks the delivery contact entered at checkout.
func ValidateShipping(s model.ShippingInfo) error {
	if strings.TrimSpace(s.FullName) == "" {
		return domainErrors.Invalid("fullName", "full name is required")
	}
	if err := ValidatePhone(s.Phone); err != nil {
		return err
	}
	if s.Email != "" {
		if err := ValidateEmail(s.Email); err != nil {
			return err
		}
	}
	if strings.TrimSpace(s.Address) == "" {
		return domainErrors.Invalid("address", "address is required")
	}
	return nil
}
