package domain

import "time"

// TokenStatus is the lifecycle state of an access token as shown to callers.
type TokenStatus string

const (
	TokenStatusActive  TokenStatus = "active"
	TokenStatusExpired TokenStatus = "expired"
	TokenStatusRevoked TokenStatus = "revoked"
	// TokenStatusAll is only valid as a list filter, never as a token state.
	TokenStatusAll TokenStatus = "all"
)

// ValidStatusFilter reports whether s is an accepted list filter value.
func ValidStatusFilter(s TokenStatus) bool {
	switch s {
	case TokenStatusActive, TokenStatusExpired, TokenStatusRevoked, TokenStatusAll:
		return true
	}
	return false
}

// AccessToken is a capability credential scoped to a single media object,
// granting streaming and/or download access until it expires or is revoked.
// While a token is active its token string is present in the media object's
// read-group list; the lifecycle service keeps the two in sync.
type AccessToken struct {
	AccessTokenID  string    `json:"accessTokenID"` // Primary Key (e.g., UUID)
	Token          string    `json:"token"`         // URL-safe random string, immutable once generated
	MediaObjectID  string    `json:"mediaObjectID"` // FK -> media_objects.media_object_id, immutable
	UserID         string    `json:"userID"`        // creating/owning principal
	Description    string    `json:"description"`
	Expiration     time.Time `json:"expiration"` // immutable once persisted
	AllowStreaming bool      `json:"allowStreaming"`
	AllowDownload  bool      `json:"allowDownload"`
	Revoked        bool      `json:"revoked"`
	Expired        bool      `json:"expired"` // cached flag, recomputed at save time and by the sweep
	AuditFields
}

// ShouldExpire reports whether the expiration timestamp has passed.
func (t *AccessToken) ShouldExpire() bool {
	return t.Expiration.Before(time.Now())
}

// IsExpired reports whether the token is past its expiration or has already
// been flagged expired. The time comparison wins regardless of the cached
// flag's prior value.
func (t *AccessToken) IsExpired() bool {
	return t.Expired || t.ShouldExpire()
}

// IsActive reports whether the token currently grants anything: not expired
// and not revoked.
func (t *AccessToken) IsActive() bool {
	return !t.IsExpired() && !t.Revoked
}

// AllowsStreamingOf reports whether this token grants streaming of the given
// media object: streaming must be allowed, the token active, and the id an
// exact match.
func (t *AccessToken) AllowsStreamingOf(mediaObjectID string) bool {
	return t.AllowStreaming && t.IsActive() && mediaObjectID != "" && t.MediaObjectID == mediaObjectID
}

// AllowsDownloadOf is the download counterpart of AllowsStreamingOf.
func (t *AccessToken) AllowsDownloadOf(mediaObjectID string) bool {
	return t.AllowDownload && t.IsActive() && mediaObjectID != "" && t.MediaObjectID == mediaObjectID
}

// AccessMode returns the token's grant flags as an AccessMode value.
func (t *AccessToken) AccessMode() AccessMode {
	return AccessModeFromFlags(t.AllowStreaming, t.AllowDownload)
}

// Status returns the display status. Revoked wins over expired.
func (t *AccessToken) Status() TokenStatus {
	switch {
	case t.Revoked:
		return TokenStatusRevoked
	case t.IsExpired():
		return TokenStatusExpired
	default:
		return TokenStatusActive
	}
}
