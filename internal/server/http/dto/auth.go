package dto

// LoginRequest describes username/password payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse describes the signed-in user.
type SessionResponse struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// RegistrationRequest is the profile step of sign up.
type RegistrationRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
}

// VerifyRequest carries the one-time password mailed to Email.
type VerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// EmailRequest carries a single email address.
type EmailRequest struct {
	Email string `json:"email"`
}

// ProfileResponse is the customer record of the signed-in user.
type ProfileResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
}
