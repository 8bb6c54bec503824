package dto

import (
	"github.com/avstream/media_access_app/internal/core/domain"
)

// CreateMediaObjectRequest registers a media object under a collection.
type CreateMediaObjectRequest struct {
	CollectionID string `json:"collectionID" binding:"required"`
	Title        string `json:"title" binding:"required,max=255"`
	Published    bool   `json:"published"`
}

// CreateMasterFileRequest registers a master file under a media object.
type CreateMasterFileRequest struct {
	MediaObjectID string `json:"mediaObjectID" binding:"required"`
	Label         string `json:"label" binding:"max=255"`
}

// SetPublishedRequest flips a media object's publication state. A pointer
// distinguishes an explicit false from an omitted field.
type SetPublishedRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// CreateCollectionRequest registers a collection with its role lists.
type CreateCollectionRequest struct {
	Name       string   `json:"name" binding:"required,max=255"`
	Managers   []string `json:"managers"`
	Editors    []string `json:"editors"`
	Depositors []string `json:"depositors"`
}

// MediaObjectResponse is the API representation of a media object. ReadGroups
// is only populated for callers allowed to see access control details.
type MediaObjectResponse struct {
	MediaObjectID string   `json:"mediaObjectID"`
	CollectionID  string   `json:"collectionID"`
	Title         string   `json:"title"`
	Published     bool     `json:"published"`
	ReadGroups    []string `json:"readGroups,omitempty"`
}

// MasterFileResponse is the API representation of a master file.
type MasterFileResponse struct {
	MasterFileID  string `json:"masterFileID"`
	MediaObjectID string `json:"mediaObjectID"`
	Label         string `json:"label"`
}

// CollectionResponse is the API representation of a collection.
type CollectionResponse struct {
	CollectionID string   `json:"collectionID"`
	Name         string   `json:"name"`
	Managers     []string `json:"managers"`
	Editors      []string `json:"editors"`
	Depositors   []string `json:"depositors"`
}

// AccessDecisionResponse reports an authorization decision for a media
// delivery action.
type AccessDecisionResponse struct {
	Allowed bool   `json:"allowed"`
	Action  string `json:"action"`
}

// ToMediaObjectResponse converts a domain media object.
func ToMediaObjectResponse(mo *domain.MediaObject, includeReadGroups bool) MediaObjectResponse {
	resp := MediaObjectResponse{
		MediaObjectID: mo.MediaObjectID,
		CollectionID:  mo.CollectionID,
		Title:         mo.Title,
		Published:     mo.Published,
	}
	if includeReadGroups {
		resp.ReadGroups = mo.ReadGroups
	}
	return resp
}

// ToMasterFileResponse converts a domain master file.
func ToMasterFileResponse(mf *domain.MasterFile) MasterFileResponse {
	return MasterFileResponse{
		MasterFileID:  mf.MasterFileID,
		MediaObjectID: mf.MediaObjectID,
		Label:         mf.Label,
	}
}

// ToCollectionResponse converts a domain collection.
func ToCollectionResponse(c *domain.Collection) CollectionResponse {
	return CollectionResponse{
		CollectionID: c.CollectionID,
		Name:         c.Name,
		Managers:     c.Managers,
		Editors:      c.Editors,
		Depositors:   c.Depositors,
	}
}
