package domain

// Profile carries the attributes of the current user that the engine
// forwards to callers. The engine never branches on them itself.
type Profile struct {
	UserID string
	Email  string
	Gender string
}

// Destination names a post-scoring navigation target.
type Destination string

const (
	DestinationDashboard Destination = "dashboard"
	DestinationRequest   Destination = "request"
)

// RouteFunc selects the destination to navigate to after an accepted
// score update. Business policy (such as branching on a profile
// attribute) stays with the caller.
type RouteFunc func(profile Profile) Destination
