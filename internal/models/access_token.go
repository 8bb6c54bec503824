package models

import "time"

// AccessToken represents a media access token row.
type AccessToken struct {
	AccessTokenID  string    `json:"accessTokenID" db:"access_token_id"`
	Token          string    `json:"token" db:"token"`
	MediaObjectID  string    `json:"mediaObjectID" db:"media_object_id"`
	UserID         string    `json:"userID" db:"user_id"`
	Description    string    `json:"description" db:"description"`
	Expiration     time.Time `json:"expiration" db:"expiration"`
	AllowStreaming bool      `json:"allowStreaming" db:"allow_streaming"`
	AllowDownload  bool      `json:"allowDownload" db:"allow_download"`
	Revoked        bool      `json:"revoked" db:"revoked"`
	Expired        bool      `json:"expired" db:"expired"`
	AuditFields
}
