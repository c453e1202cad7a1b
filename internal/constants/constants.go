package constants

// Context keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
)

// Activity feed
const (
	// RecentPerSource is how many records are pulled from each of the
	// two activity sources (projects, tasks) before merging.
	RecentPerSource = 5
	// ActivityFeedLimit caps the merged feed length.
	ActivityFeedLimit = 10
)
