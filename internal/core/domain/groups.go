package domain

// Well-known group names used by the ability engine.
const (
	// GroupPublic is included in every request's group set.
	GroupPublic = "public"
	// GroupRegistered is added for any known (non-anonymous) principal.
	GroupRegistered = "registered"
	// GroupAdministrator marks site administrators.
	GroupAdministrator = "administrator"
	// GroupManager marks users who may create collections.
	GroupManager = "manager"
)

// TokenDownloadGroupName returns the synthetic group granting download access
// to a media object via an access token. The group is derived per request and
// never persisted on the principal.
func TokenDownloadGroupName(mediaObjectID string) string {
	return "allow_download_" + mediaObjectID
}
