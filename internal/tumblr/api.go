package tumblr

import (
	"context"
	"encoding/json"
	"net/url"

	"followerscope/internal/models"
)

// User is the authenticated user's record from GET /user/info.
type User struct {
	Name      string            `json:"name"`
	Likes     int               `json:"likes"`
	Following int               `json:"following"`
	Blogs     []json.RawMessage `json:"blogs"`
}

type blogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Primary     bool   `json:"primary"`
	Followers   int    `json:"followers"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	UUID        string `json:"uuid"`
	Avatar      []struct {
		URL string `json:"url"`
	} `json:"avatar"`
	Theme struct {
		BackgroundColor string `json:"background_color"`
		HeaderImage     string `json:"header_image"`
		TitleColor      string `json:"title_color"`
	} `json:"theme"`
}

// UserInfo calls GET /user/info and unwraps the nested user record.
func (c *Client) UserInfo(ctx context.Context) (*User, error) {
	raw, err := c.Get(ctx, "/user/info", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.User == nil {
		return nil, &MalformedResponseError{Field: "user"}
	}
	return payload.User, nil
}

// UserBlogs returns the user's blogs parsed from the user-info response.
// A blog entry missing a required field fails the whole call rather than
// being silently skipped.
func (c *Client) UserBlogs(ctx context.Context) ([]models.BlogInfo, error) {
	user, err := c.UserInfo(ctx)
	if err != nil {
		return nil, err
	}

	blogs := make([]models.BlogInfo, 0, len(user.Blogs))
	for _, raw := range user.Blogs {
		blog, err := parseBlogInfo(raw)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}
	return blogs, nil
}

// parseBlogInfo validates and converts one API blog entry. Name, uuid and
// url are required; theme fields default to empty.
func parseBlogInfo(raw json.RawMessage) (models.BlogInfo, error) {
	var entry blogEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.BlogInfo{}, &MalformedResponseError{Field: "blogs"}
	}

	if entry.Name == "" {
		return models.BlogInfo{}, &MalformedResponseError{Field: "name"}
	}
	if entry.UUID == "" {
		return models.BlogInfo{}, &MalformedResponseError{Field: "uuid", Entry: entry.Name}
	}
	if entry.URL == "" {
		return models.BlogInfo{}, &MalformedResponseError{Field: "url", Entry: entry.Name}
	}

	avatar := ""
	if len(entry.Avatar) > 0 {
		avatar = entry.Avatar[0].URL
	}

	return models.BlogInfo{
		Avatar:          avatar,
		FollowerCount:   entry.Followers,
		Name:            entry.Name,
		Description:     entry.Description,
		Primary:         entry.Primary,
		BackgroundColor: entry.Theme.BackgroundColor,
		HeaderImage:     entry.Theme.HeaderImage,
		TextColor:       entry.Theme.TitleColor,
		Title:           entry.Title,
		URL:             entry.URL,
		UUID:            entry.UUID,
	}, nil
}

// BlogFollowers calls GET /blog/{uuid}/followers and unwraps the user
// list.
func (c *Client) BlogFollowers(ctx context.Context, blog models.BlogInfo) ([]models.Follower, error) {
	raw, err := c.Get(ctx, "/blog/"+blog.UUID+"/followers", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		TotalUsers int `json:"total_users"`
		Users      []struct {
			Name      string `json:"name"`
			URL       string `json:"url"`
			Following bool   `json:"following"`
		} `json:"users"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &MalformedResponseError{Field: "users", Entry: blog.Name}
	}

	followers := make([]models.Follower, 0, len(payload.Users))
	for _, user := range payload.Users {
		followers = append(followers, models.Follower{
			Name:      user.Name,
			URL:       user.URL,
			Following: user.Following,
		})
	}
	return followers, nil
}

// PublicPostCount returns the public post count and avatar URL for the
// named blog via the key-authenticated blog-info endpoint. A zero count
// is the suspicion signal for spam accounts.
func (c *Client) PublicPostCount(ctx context.Context, blogName string) (int, string, error) {
	query := url.Values{"api_key": []string{c.consumerKey}}
	raw, err := c.Get(ctx, "/blog/"+blogName+"/info", query)
	if err != nil {
		return 0, "", err
	}

	var payload struct {
		Blog *struct {
			Posts  *int `json:"posts"`
			Avatar []struct {
				URL string `json:"url"`
			} `json:"avatar"`
		} `json:"blog"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Blog == nil {
		return 0, "", &MalformedResponseError{Field: "blog", Entry: blogName}
	}
	if payload.Blog.Posts == nil {
		return 0, "", &MalformedResponseError{Field: "posts", Entry: blogName}
	}

	avatar := ""
	if len(payload.Blog.Avatar) > 0 {
		avatar = payload.Blog.Avatar[0].URL
	}
	return *payload.Blog.Posts, avatar, nil
}
