package dto

import (
	"time"

	"github.com/avstream/media_access_app/internal/core/domain"
)

// CreateAccessTokenRequest defines the data for minting a new access token.
type CreateAccessTokenRequest struct {
	MediaObjectID string    `json:"mediaObjectID" binding:"required"`
	Expiration    time.Time `json:"expiration" binding:"required"`
	// AccessMode is one of none, streaming_only, download_only,
	// streaming_and_download. Defaults to none when omitted.
	AccessMode  string `json:"accessMode" binding:"omitempty,oneof=none streaming_only download_only streaming_and_download"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateAccessTokenRequest defines the mutable fields of an existing token.
// Pointers differentiate omitted fields from zero values. Expiration is
// accepted here only so attempted changes can be detected and rejected with a
// warning; the stored expiration never changes.
type UpdateAccessTokenRequest struct {
	Description *string    `json:"description" binding:"omitempty,max=500"`
	AccessMode  *string    `json:"accessMode" binding:"omitempty,oneof=none streaming_only download_only streaming_and_download"`
	Revoked     *bool      `json:"revoked"`
	Expiration  *time.Time `json:"expiration"`
}

// ListAccessTokensRequest defines query parameters for listing tokens.
type ListAccessTokensRequest struct {
	Status    string `form:"status,default=active"`
	PageSize  int    `form:"pageSize,default=20" binding:"omitempty,min=1,max=100"`
	PageToken string `form:"pageToken"`
}

// AccessTokenResponse is the API representation of a token.
type AccessTokenResponse struct {
	AccessTokenID string     `json:"accessTokenID"`
	Token         string     `json:"token"`
	MediaObjectID string     `json:"mediaObjectID"`
	UserID        string     `json:"userID"`
	Description   string     `json:"description,omitempty"`
	Expiration    time.Time  `json:"expiration"`
	AccessMode    string     `json:"accessMode"`
	Status        string     `json:"status"`
	Revoked       bool       `json:"revoked"`
	Expired       bool       `json:"expired"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ListAccessTokensResponse wraps a page of tokens.
type ListAccessTokensResponse struct {
	AccessTokens  []AccessTokenResponse `json:"accessTokens"`
	NextPageToken string                `json:"nextPageToken,omitempty"`
}

// SweepResponse reports the outcome of a manually triggered cleanup sweep.
type SweepResponse struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// ToAccessTokenResponse converts a domain token to its API representation.
func ToAccessTokenResponse(token *domain.AccessToken) AccessTokenResponse {
	return AccessTokenResponse{
		AccessTokenID: token.AccessTokenID,
		Token:         token.Token,
		MediaObjectID: token.MediaObjectID,
		UserID:        token.UserID,
		Description:   token.Description,
		Expiration:    token.Expiration,
		AccessMode:    string(token.AccessMode()),
		Status:        string(token.Status()),
		Revoked:       token.Revoked,
		Expired:       token.IsExpired(),
		CreatedAt:     token.CreatedAt,
	}
}

// ToAccessTokenResponseList converts a slice of domain tokens.
func ToAccessTokenResponseList(tokens []domain.AccessToken) []AccessTokenResponse {
	responses := make([]AccessTokenResponse, len(tokens))
	for i := range tokens {
		responses[i] = ToAccessTokenResponse(&tokens[i])
	}
	return responses
}
