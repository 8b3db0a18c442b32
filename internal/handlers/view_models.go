package handlers

import (
	"encoding/json"

	"followerscope/internal/models"
	"followerscope/internal/service"
)

// BlogView is one blog row on the review page.
type BlogView struct {
	Name          string
	Title         string
	URL           string
	Avatar        string
	FollowerCount int
	Primary       bool
	Flagged       []FollowerView
}

// FollowerView is one flagged suspicious follower, with the prebuilt
// report payload rendered as JSON for manual submission.
type FollowerView struct {
	Name       string
	URL        string
	Avatar     string
	ReportJSON string
}

func newFollowerView(follower models.Follower) FollowerView {
	view := FollowerView{
		Name:   follower.Name,
		URL:    follower.URL,
		Avatar: follower.Avatar,
	}
	if follower.Report != nil {
		if payload, err := json.MarshalIndent(follower.Report, "", "  "); err == nil {
			view.ReportJSON = string(payload)
		}
	}
	return view
}

func newBlogViews(report *service.Report) []BlogView {
	views := make([]BlogView, 0, len(report.Blogs))
	for _, blog := range report.Blogs {
		view := BlogView{
			Name:          blog.Name,
			Title:         blog.Title,
			URL:           blog.URL,
			Avatar:        blog.Avatar,
			FollowerCount: blog.FollowerCount,
			Primary:       blog.Primary,
		}
		for _, follower := range report.Flagged[blog.Name] {
			view.Flagged = append(view.Flagged, newFollowerView(follower))
		}
		views = append(views, view)
	}
	return views
}
