package models

// BlogInfo describes one of the user's blogs as returned by the API.
// Instances are parsed fresh on each user-info call and never mutated.
type BlogInfo struct {
	Avatar          string
	FollowerCount   int
	Name            string
	Description     string
	Primary         bool
	BackgroundColor string
	HeaderImage     string
	TextColor       string
	Title           string
	URL             string
	UUID            string
}
