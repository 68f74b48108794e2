package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// FirstProjectBadge is the badge awarded for publishing a first project.
const (
	FirstProjectBadge            = "First Project"
	FirstProjectBadgeDescription = "Awarded for publishing your first project!"
)
