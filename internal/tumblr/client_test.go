package tumblr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followerscope/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler, token *models.Token) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("consumer-key", "consumer-secret", "http://localhost:8080/auth", token,
		WithEndpoints(srv.URL, srv.URL+"/oauth2/token"))
}

func validToken() *models.Token {
	return &models.Token{
		AccessToken:      "tok",
		TokenType:        "bearer",
		ExpiresIn:        3600,
		Scope:            "basic",
		OriginallyIssued: time.Now(),
	}
}

func TestGetWithoutTokenFailsBeforeNetwork(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}), nil)

	_, err := client.Get(context.Background(), "/user/info", nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, int64(0), calls.Load())
}

func TestGetWithExpiredTokenFailsBeforeNetwork(t *testing.T) {
	var calls atomic.Int64
	expired := validToken()
	expired.OriginallyIssued = time.Now().Add(-2 * time.Hour)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}), expired)

	_, err := client.Get(context.Background(), "/user/info", nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, int64(0), calls.Load())
	assert.False(t, client.IsAuthenticated())
}

func TestGetAttachesBearerHeaderAndUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"meta":{"status":200,"msg":"OK"},"response":{"hello":"world"}}`))
	}), validToken())

	raw, err := client.Get(context.Background(), "/user/info", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"world"}`, string(raw))
}

func TestPrivilegedHeadersAreFreshPerCall(t *testing.T) {
	client := NewClient("k", "s", "http://localhost/auth", validToken())

	first, err := client.privilegedHeaders()
	require.NoError(t, err)
	first.Set("Authorization", "tampered")

	second, err := client.privilegedHeaders()
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", second.Get("Authorization"))
}

func TestGetRateLimited(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}), validToken())

	_, err := client.Get(context.Background(), "/user/info", nil)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))

	var rateLimitErr *RateLimitError
	require.ErrorAs(t, err, &rateLimitErr)
	assert.Equal(t, 30*time.Second, rateLimitErr.RetryAfter)
}

func TestGetAPIErrorCarriesStatusAndBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	}), validToken())

	_, err := client.Get(context.Background(), "/user/info", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Body)
	assert.Equal(t, "/user/info", apiErr.Path)
}

func TestGetMalformedBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}), validToken())

	_, err := client.Get(context.Background(), "/user/info", nil)
	assert.True(t, IsMalformed(err))
}

func TestPostSendsForm(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "value", r.PostForm.Get("field"))
		w.Write([]byte(`{"meta":{"status":200,"msg":"OK"},"response":{}}`))
	}), validToken())

	_, err := client.Post(context.Background(), "/user/follow", url.Values{"field": {"value"}})
	assert.NoError(t, err)
}

const userInfoBody = `{
	"meta": {"status": 200, "msg": "OK"},
	"response": {
		"user": {
			"name": "examplist",
			"likes": 12,
			"following": 4,
			"blogs": [
				{
					"name": "examplist",
					"title": "Examples",
					"primary": true,
					"followers": 321,
					"description": "stuff",
					"url": "https://examplist.tumblr.com/",
					"uuid": "t:abc123",
					"theme": {"background_color": "#FAFAFA", "header_image": "https://assets.tumblr.com/h.png", "title_color": "#444444"}
				},
				{
					"name": "sideblog",
					"title": "",
					"primary": false,
					"followers": 7,
					"description": "",
					"url": "https://sideblog.tumblr.com/",
					"uuid": "t:def456"
				}
			]
		}
	}
}`

func TestUserBlogsParsesEntries(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/info", r.URL.Path)
		w.Write([]byte(userInfoBody))
	}), validToken())

	blogs, err := client.UserBlogs(context.Background())
	require.NoError(t, err)
	require.Len(t, blogs, 2)

	assert.Equal(t, models.BlogInfo{
		FollowerCount:   321,
		Name:            "examplist",
		Description:     "stuff",
		Primary:         true,
		BackgroundColor: "#FAFAFA",
		HeaderImage:     "https://assets.tumblr.com/h.png",
		TextColor:       "#444444",
		Title:           "Examples",
		URL:             "https://examplist.tumblr.com/",
		UUID:            "t:abc123",
	}, blogs[0])
	assert.Equal(t, "sideblog", blogs[1].Name)
	assert.Empty(t, blogs[1].BackgroundColor)
}

func TestUserBlogsMissingRequiredFieldFails(t *testing.T) {
	body := `{"meta":{"status":200,"msg":"OK"},"response":{"user":{"name":"x","blogs":[{"name":"broken","url":"https://broken.tumblr.com/"}]}}}`
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}), validToken())

	_, err := client.UserBlogs(context.Background())

	var malformedErr *MalformedResponseError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, "uuid", malformedErr.Field)
	assert.Equal(t, "broken", malformedErr.Entry)
}

func TestBlogFollowers(t *testing.T) {
	body := `{"meta":{"status":200,"msg":"OK"},"response":{"total_users":2,"users":[
		{"name":"quiet-one","url":"https://quiet-one.tumblr.com/","following":false},
		{"name":"mutual-pal","url":"https://mutual-pal.tumblr.com/","following":true}
	]}}`
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blog/t:abc123/followers", r.URL.Path)
		w.Write([]byte(body))
	}), validToken())

	followers, err := client.BlogFollowers(context.Background(), models.BlogInfo{Name: "examplist", UUID: "t:abc123"})
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "quiet-one", followers[0].Name)
	assert.False(t, followers[0].Following)
	assert.True(t, followers[1].Following)
}

func TestPublicPostCount(t *testing.T) {
	body := `{"meta":{"status":200,"msg":"OK"},"response":{"blog":{"posts":0,"avatar":[{"url":"https://assets.tumblr.com/a64.png"}]}}}`
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blog/quiet-one/info", r.URL.Path)
		assert.Equal(t, "consumer-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(body))
	}), validToken())

	count, avatar, err := client.PublicPostCount(context.Background(), "quiet-one")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, "https://assets.tumblr.com/a64.png", avatar)
}

func TestPublicPostCountMissingPosts(t *testing.T) {
	body := `{"meta":{"status":200,"msg":"OK"},"response":{"blog":{"title":"no posts field"}}}`
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}), validToken())

	_, _, err := client.PublicPostCount(context.Background(), "quiet-one")

	var malformedErr *MalformedResponseError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, "posts", malformedErr.Field)
	assert.Equal(t, "quiet-one", malformedErr.Entry)
}
