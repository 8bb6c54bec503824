package mapping

import (
	"github.com/avstream/media_access_app/internal/core/domain"
	"github.com/avstream/media_access_app/internal/models"
)

// ToModelAccessToken converts a domain AccessToken to a model AccessToken
func ToModelAccessToken(d domain.AccessToken) models.AccessToken {
	return models.AccessToken{
		AccessTokenID:  d.AccessTokenID,
		Token:          d.Token,
		MediaObjectID:  d.MediaObjectID,
		UserID:         d.UserID,
		Description:    d.Description,
		Expiration:     d.Expiration,
		AllowStreaming: d.AllowStreaming,
		AllowDownload:  d.AllowDownload,
		Revoked:        d.Revoked,
		Expired:        d.Expired,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccessToken converts a model AccessToken to a domain AccessToken
func ToDomainAccessToken(m models.AccessToken) domain.AccessToken {
	return domain.AccessToken{
		AccessTokenID:  m.AccessTokenID,
		Token:          m.Token,
		MediaObjectID:  m.MediaObjectID,
		UserID:         m.UserID,
		Description:    m.Description,
		Expiration:     m.Expiration,
		AllowStreaming: m.AllowStreaming,
		AllowDownload:  m.AllowDownload,
		Revoked:        m.Revoked,
		Expired:        m.Expired,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccessTokenSlice converts a slice of model AccessTokens to a slice of domain AccessTokens
func ToDomainAccessTokenSlice(ms []models.AccessToken) []domain.AccessToken {
	ds := make([]domain.AccessToken, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccessToken(m)
	}
	return ds
}
