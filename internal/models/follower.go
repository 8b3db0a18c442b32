package models

// Follower is one entry from a blog's follower list. Blog is attached
// during aggregation; Avatar and Report are only set for suspicious
// accounts (zero public posts).
type Follower struct {
	Name      string
	URL       string
	Following bool
	Blog      string
	Avatar    string
	Report    *ReportPayload
}

// ReportPayload is the prebuilt abuse report for a suspicious account.
// The shape is fixed: Post is always null and Context is always "blog".
type ReportPayload struct {
	Post      *string `json:"post"`
	URL       string  `json:"url"`
	Tumblelog string  `json:"tumblelog"`
	Context   string  `json:"context"`
}

// NewReportPayload builds the report record for the named account.
func NewReportPayload(name string) *ReportPayload {
	return &ReportPayload{
		URL:       "https://www.tumblr.com/" + name,
		Tumblelog: name,
		Context:   "blog",
	}
}
