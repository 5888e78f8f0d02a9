package query

import (
	"net/url"
	"strings"
)

// Key identifies a cached read, e.g. Key{"cart", "42"}. A key invalidates
// every key it is a prefix of.
type Key []string

func (k Key) String() string {
	return strings.Join(k, ":")
}

// encode turns k into a cache key in which segment boundaries survive prefix
// matching: Key{"cart","4"} is not a prefix of Key{"cart","42"}.
func (k Key) encode() string {
	var b strings.Builder
	for _, part := range k {
		b.WriteString(url.PathEscape(part))
		b.WriteByte('/')
	}
	return b.String()
}
