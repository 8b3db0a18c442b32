package models

import (
	"strings"
	"time"
)

// Token is an OAuth2 bearer credential issued by the Tumblr token
// endpoint. OriginallyIssued is assigned exactly once: from the clock at
// exchange time for a fresh token, or restored verbatim when the token
// comes back out of the session. It is never recomputed.
type Token struct {
	AccessToken      string
	TokenType        string
	ExpiresIn        int
	IDToken          bool
	Scope            string
	OriginallyIssued time.Time
}

// Expired reports whether the token has outlived its lifetime at the
// given instant.
func (t *Token) Expired(now time.Time) bool {
	return now.Sub(t.OriginallyIssued) > time.Duration(t.ExpiresIn)*time.Second
}

// CheckScope reports whether the named permission was granted. The match
// is case-insensitive and applies to whole scope tokens only.
func (t *Token) CheckScope(name string) bool {
	for _, granted := range strings.Fields(t.Scope) {
		if strings.EqualFold(granted, name) {
			return true
		}
	}
	return false
}
