package tumblr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"followerscope/internal/models"
)

// oauthConfig builds the oauth2 configuration for the Tumblr endpoints.
func (c *Client) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.consumerKey,
		ClientSecret: c.consumerSecret,
		RedirectURL:  c.redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authorizeURL,
			TokenURL: c.tokenURL,
		},
	}
}

// AuthCodeURL builds the provider authorization URL for the consent
// redirect. Scope is "basic write" when write access is requested,
// otherwise "basic".
func (c *Client) AuthCodeURL(state string, writeable bool) string {
	conf := c.oauthConfig()
	conf.Scopes = []string{"basic"}
	if writeable {
		conf.Scopes = []string{"basic", "write"}
	}
	return conf.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "auto"))
}

// Authenticate exchanges an authorization code for a bearer token and
// holds the result for subsequent calls.
func (c *Client) Authenticate(ctx context.Context, code string) (*models.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	exchanged, err := c.oauthConfig().Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			retrieveErr.Response.StatusCode == http.StatusTooManyRequests {
			return nil, rateLimitError(retrieveErr.Response)
		}
		return nil, &AuthExchangeError{Reason: "code exchange failed", Err: err}
	}

	token, err := tokenFromExchange(exchanged, c.now())
	if err != nil {
		return nil, err
	}

	c.token = token
	return token, nil
}

// tokenFromExchange maps the raw token-endpoint response into a Token,
// failing when a required field is absent. OriginallyIssued is truncated
// to second precision to match its serialized form.
func tokenFromExchange(exchanged *oauth2.Token, issued time.Time) (*models.Token, error) {
	if exchanged.AccessToken == "" {
		return nil, &AuthExchangeError{Reason: "response missing access_token"}
	}
	if exchanged.TokenType == "" {
		return nil, &AuthExchangeError{Reason: "response missing token_type"}
	}

	expiresIn, ok := extraInt(exchanged, "expires_in")
	if !ok || expiresIn < 0 {
		return nil, &AuthExchangeError{Reason: "response missing expires_in"}
	}

	scope, _ := exchanged.Extra("scope").(string)
	idToken, _ := exchanged.Extra("id_token").(bool)

	return &models.Token{
		AccessToken:      exchanged.AccessToken,
		TokenType:        exchanged.TokenType,
		ExpiresIn:        expiresIn,
		IDToken:          idToken,
		Scope:            scope,
		OriginallyIssued: issued.Truncate(time.Second),
	}, nil
}

func extraInt(token *oauth2.Token, key string) (int, bool) {
	switch v := token.Extra(key).(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
