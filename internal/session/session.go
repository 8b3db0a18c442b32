// Package session stores per-browser state in a signed cookie: the CSRF
// state for an in-flight authorization and the bearer token once
// exchanged. There is no server-side session store.
package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"followerscope/internal/models"
	"followerscope/internal/security"
)

const cookieName = "session"

// Session is the decoded cookie contents.
type Session struct {
	State string
	Token *models.Token
}

type tokenClaims struct {
	AccessToken      string    `json:"access_token"`
	TokenType        string    `json:"token_type"`
	ExpiresIn        int       `json:"expires_in"`
	IDToken          bool      `json:"id_token"`
	Scope            string    `json:"scope"`
	OriginallyIssued time.Time `json:"originally_issued"`
}

type sessionClaims struct {
	jwt.RegisteredClaims
	State string       `json:"state,omitempty"`
	Token *tokenClaims `json:"token,omitempty"`
}

// Store signs and verifies session cookies with an HMAC secret.
type Store struct {
	secret []byte
	maxAge time.Duration
}

// NewStore creates a new session store
func NewStore(secret string, maxAge time.Duration) *Store {
	return &Store{secret: []byte(secret), maxAge: maxAge}
}

// Write signs sess and sets it as the session cookie, replacing any
// previous session.
func (s *Store) Write(w http.ResponseWriter, r *http.Request, sess Session) error {
	expiresAt := time.Now().Add(s.maxAge)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		State: sess.State,
	}
	if sess.Token != nil {
		claims.Token = &tokenClaims{
			AccessToken:      sess.Token.AccessToken,
			TokenType:        sess.Token.TokenType,
			ExpiresIn:        sess.Token.ExpiresIn,
			IDToken:          sess.Token.IDToken,
			Scope:            sess.Token.Scope,
			OriginallyIssued: sess.Token.OriginallyIssued,
		}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, security.CreateSessionCookie(r, cookieName, signed, expiresAt))
	return nil
}

// Read decodes the session cookie. A missing, tampered or expired cookie
// yields an empty session; the restored token keeps its original issue
// time verbatim.
func (s *Store) Read(r *http.Request) Session {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return Session{}
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	claims := &sessionClaims{}
	parsed, err := parser.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Session{}
	}

	sess := Session{State: claims.State}
	if claims.Token != nil {
		sess.Token = &models.Token{
			AccessToken:      claims.Token.AccessToken,
			TokenType:        claims.Token.TokenType,
			ExpiresIn:        claims.Token.ExpiresIn,
			IDToken:          claims.Token.IDToken,
			Scope:            claims.Token.Scope,
			OriginallyIssued: claims.Token.OriginallyIssued,
		}
	}
	return sess
}

// Clear deletes the session cookie.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.CreateDeleteCookie(r, cookieName))
}
