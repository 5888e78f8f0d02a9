package model

// Customer is the profile of a registered buyer.
type Customer struct {
	ID       int64
	Username string
	FullName string
	Email    string
	Phone    string
	Address  string
}

// Registration carries the profile step of the OTP-gated sign up.
type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Phone           string
}
