package domain

import "slices"

// MediaObject represents a published or unpublished audio-video item. The
// authorization core only needs its collection, publication state and the
// access-control read-group list; descriptive metadata stays in the media
// system proper.
type MediaObject struct {
	MediaObjectID string   `json:"mediaObjectID"` // Primary Key (e.g., UUID)
	CollectionID  string   `json:"collectionID"`  // FK -> collections.collection_id
	Title         string   `json:"title"`
	Published     bool     `json:"published"`
	ReadGroups    []string `json:"readGroups"` // group names granting read access
	AuditFields
}

// HasReadGroup reports whether the given group name is present in the
// object's read-group list.
func (m *MediaObject) HasReadGroup(group string) bool {
	return slices.Contains(m.ReadGroups, group)
}

// MasterFile is a single playable/downloadable file belonging to a media
// object. Download permission is evaluated against the parent media object.
type MasterFile struct {
	MasterFileID  string `json:"masterFileID"`
	MediaObjectID string `json:"mediaObjectID"` // FK -> media_objects.media_object_id
	Label         string `json:"label"`
}
