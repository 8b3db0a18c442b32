package service

import (
	"context"

	"followerscope/internal/models"
)

// PostCountLookup resolves a blog name to its public post count and
// avatar URL.
type PostCountLookup func(ctx context.Context, name string) (int, string, error)

// API is the subset of the Tumblr client the follower service needs.
type API interface {
	UserBlogs(ctx context.Context) ([]models.BlogInfo, error)
	BlogFollowers(ctx context.Context, blog models.BlogInfo) ([]models.Follower, error)
	PublicPostCount(ctx context.Context, blogName string) (int, string, error)
}

// FollowerService computes the non-mutual-follower report.
type FollowerService struct {
	api API
}

// NewFollowerService creates a new follower service
func NewFollowerService(api API) *FollowerService {
	return &FollowerService{api: api}
}

// Report is the aggregation result handed to the view layer.
type Report struct {
	Blogs   []models.BlogInfo
	Flagged map[string][]models.Follower
}

// BuildReport runs the full pipeline: blog list, follower list per blog,
// then the non-mutual filter with the suspicious-account check. All
// calls are sequential and blocking; the first error aborts.
func (s *FollowerService) BuildReport(ctx context.Context) (*Report, error) {
	blogs, err := s.api.UserBlogs(ctx)
	if err != nil {
		return nil, err
	}

	followersByBlog := make(map[string][]models.Follower, len(blogs))
	for _, blog := range blogs {
		followers, err := s.api.BlogFollowers(ctx, blog)
		if err != nil {
			return nil, err
		}
		followersByBlog[blog.Name] = followers
	}

	flagged, err := ComputeNonMutual(ctx, blogs, followersByBlog, s.api.PublicPostCount)
	if err != nil {
		return nil, err
	}

	return &Report{Blogs: blogs, Flagged: flagged}, nil
}

// ComputeNonMutual filters each blog's followers to those the owner does
// not follow back, tags them with the blog they follow, and looks up
// their public post count. Only suspicious accounts (exactly zero public
// posts) are retained, with an avatar and a prebuilt report payload
// attached; other non-mutual followers are dropped from the output.
// Groups preserve first-seen order. One lookup per non-mutual follower;
// no batching, caching or cross-blog deduplication.
func ComputeNonMutual(ctx context.Context, blogs []models.BlogInfo, followersByBlog map[string][]models.Follower, lookup PostCountLookup) (map[string][]models.Follower, error) {
	flagged := make(map[string][]models.Follower)

	for _, blog := range blogs {
		for _, follower := range followersByBlog[blog.Name] {
			if follower.Following {
				continue
			}
			follower.Blog = blog.Name

			count, avatar, err := lookup(ctx, follower.Name)
			if err != nil {
				return nil, err
			}
			if count != 0 {
				continue
			}

			follower.Avatar = avatar
			follower.Report = models.NewReportPayload(follower.Name)
			flagged[blog.Name] = append(flagged[blog.Name], follower)
		}
	}

	return flagged, nil
}
