package security

import (
	"crypto/hmac"

	"github.com/google/uuid"
)

// GenerateState returns an unpredictable one-time value for the OAuth
// authorization round trip. It is stored in the session when the flow
// starts and compared against the value the provider echoes back.
func GenerateState() string {
	return uuid.New().String()
}

// ValidateState reports whether the state returned by the provider
// matches the session-stored value. The comparison is constant time.
func ValidateState(stored, returned string) bool {
	if stored == "" || returned == "" {
		return false
	}
	return hmac.Equal([]byte(stored), []byte(returned))
}
