package handlers

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"followerscope/internal/logger"
	"followerscope/internal/models"
	"followerscope/internal/security"
	"followerscope/internal/session"
	"followerscope/internal/tumblr"
)

// ClientFactory builds an API client, optionally seeded with a token
// restored from the session. A fresh client is built per request.
type ClientFactory func(token *models.Token) *tumblr.Client

// AuthHandler handles the OAuth authorization flow
type AuthHandler struct {
	templates *template.Template
	sessions  *session.Store
	newClient ClientFactory
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(templates *template.Template, sessions *session.Store, newClient ClientFactory) *AuthHandler {
	return &AuthHandler{
		templates: templates,
		sessions:  sessions,
		newClient: newClient,
	}
}

// Home renders the landing page with a link to begin authorization.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Read(r)
	data := map[string]interface{}{
		"Title":      "Followerscope",
		"Authorized": sess.Token != nil && !sess.Token.Expired(time.Now()),
	}
	h.render(w, "home.tmpl", data)
}

// InitiateAuth builds the provider authorization URL, stores the CSRF
// state in the session and redirects to the consent screen. Write access
// is requested only when writeable=true.
func (h *AuthHandler) InitiateAuth(w http.ResponseWriter, r *http.Request) {
	writeable := r.URL.Query().Get("writeable") == "true"

	state := security.GenerateState()
	if err := h.sessions.Write(w, r, session.Session{State: state}); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to write session", err)
		return
	}

	authURL := h.newClient(nil).AuthCodeURL(state, writeable)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback exchanges the authorization code for a token and stores it in
// the session. The state echoed by the provider must match the stored
// value; a mismatch is rejected outright.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		logger.Log.Warn().
			Str("error", errParam).
			Str("description", r.URL.Query().Get("error_description")).
			Msg("provider denied authorization")
		h.renderError(w, http.StatusBadRequest, "Authorization was denied by Tumblr")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, ErrMissingCode, "", nil)
		return
	}

	sess := h.sessions.Read(r)
	if !security.ValidateState(sess.State, r.URL.Query().Get("state")) {
		respondWithError(w, http.StatusBadRequest, ErrInvalidState, "oauth state mismatch", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.newClient(nil).Authenticate(ctx, code)
	if err != nil {
		if tumblr.IsRateLimited(err) {
			h.renderError(w, http.StatusServiceUnavailable, ErrRateLimited)
			return
		}
		respondWithError(w, http.StatusBadGateway, "Failed to exchange authorization code", "", err)
		return
	}

	if err := h.sessions.Write(w, r, session.Session{Token: token}); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to write session", err)
		return
	}

	data := map[string]interface{}{
		"Title": "Authorized - Followerscope",
		"Scope": token.Scope,
	}
	h.render(w, "authorized.tmpl", data)
}

func (h *AuthHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		logger.Log.Error().Err(err).Str("template", name).Msg("template render failed")
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

func (h *AuthHandler) renderError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	data := map[string]interface{}{
		"Title":   "Error - Followerscope",
		"Message": message,
	}
	if err := h.templates.ExecuteTemplate(w, "error.tmpl", data); err != nil {
		http.Error(w, message, status)
	}
}
