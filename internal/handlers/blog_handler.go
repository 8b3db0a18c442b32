package handlers

import (
	"html/template"
	"net/http"
	"time"

	"followerscope/internal/logger"
	"followerscope/internal/service"
	"followerscope/internal/session"
	"followerscope/internal/tumblr"
)

// BlogHandler renders the non-mutual-follower review page.
type BlogHandler struct {
	templates *template.Template
	sessions  *session.Store
	newClient ClientFactory
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(templates *template.Template, sessions *session.Store, newClient ClientFactory) *BlogHandler {
	return &BlogHandler{
		templates: templates,
		sessions:  sessions,
		newClient: newClient,
	}
}

// ListBlogs restores the token from the session, runs the aggregation
// pipeline and renders the user's blogs with flagged suspicious
// followers. An absent or expired token redirects back to the start.
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Read(r)
	if sess.Token == nil || sess.Token.Expired(time.Now()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	client := h.newClient(sess.Token)
	followerService := service.NewFollowerService(client)

	report, err := followerService.BuildReport(r.Context())
	if err != nil {
		h.renderFailure(w, err)
		return
	}

	data := map[string]interface{}{
		"Title": "Your blogs - Followerscope",
		"Blogs": newBlogViews(report),
	}
	h.render(w, "blogs.tmpl", data)
}

// renderFailure translates pipeline errors into user-visible pages. Rate
// limiting and malformed upstream data are distinct kinds; everything
// else is a plain upstream failure.
func (h *BlogHandler) renderFailure(w http.ResponseWriter, err error) {
	switch {
	case tumblr.IsRateLimited(err):
		h.renderError(w, http.StatusServiceUnavailable, ErrRateLimited)
	case tumblr.IsUnauthenticated(err):
		logger.Log.Warn().Err(err).Msg("token rejected mid-request")
		h.renderError(w, http.StatusUnauthorized, "Your authorization has expired - start again")
	case tumblr.IsMalformed(err):
		respondWithError(w, http.StatusBadGateway, ErrBadUpstreamResponse, "", err)
	default:
		respondWithError(w, http.StatusBadGateway, ErrBadUpstreamResponse, "follower report failed", err)
	}
}

func (h *BlogHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		logger.Log.Error().Err(err).Str("template", name).Msg("template render failed")
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

func (h *BlogHandler) renderError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	data := map[string]interface{}{
		"Title":   "Error - Followerscope",
		"Message": message,
	}
	if err := h.templates.ExecuteTemplate(w, "error.tmpl", data); err != nil {
		http.Error(w, message, status)
	}
}
