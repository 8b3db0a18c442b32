package handlers

const (
	ErrInvalidState        = "Invalid OAuth state"
	ErrMissingCode         = "Missing authorization code"
	ErrRateLimited         = "Tumblr is rate limiting us right now - try again later"
	ErrBadUpstreamResponse = "Unexpected response from Tumblr"
	ErrInternalServerError = "Internal server error"
)
