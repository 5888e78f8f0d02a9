package auth

import "time"

// Claims is what a shell token asserts about its holder.
type Claims struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

type Strategy interface {
	IssueToken(userID int64, role string) (string, error)
	ParseToken(token string) (Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}
