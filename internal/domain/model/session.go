package model

// Role is the marketplace role of a signed-in user.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleSeller   Role = "SELLER"
	RoleAdmin    Role = "ADMIN"
)

// Session is the client-held identity of the logged-in user.
type Session struct {
	Token  string
	Role   Role
	UserID int64
}

// Active reports whether all three session values are present.
func (s Session) Active() bool {
	return s.Token != "" && s.Role != "" && s.UserID != 0
}

// SessionEventKind tells subscribers what happened to the session.
type SessionEventKind string

const (
	SessionStarted SessionEventKind = "STARTED"
	SessionCleared SessionEventKind = "CLEARED"
)

// SessionEvent is delivered to session subscribers.
type SessionEvent struct {
	Kind    SessionEventKind
	Session Session
	Reason  string
}
