package models

// MediaObject represents a media object row. ReadGroups maps to a text[]
// column.
type MediaObject struct {
	MediaObjectID string   `json:"mediaObjectID" db:"media_object_id"`
	CollectionID  string   `json:"collectionID" db:"collection_id"`
	Title         string   `json:"title" db:"title"`
	Published     bool     `json:"published" db:"published"`
	ReadGroups    []string `json:"readGroups" db:"read_groups"`
	AuditFields
}

// MasterFile represents a master file row.
type MasterFile struct {
	MasterFileID  string `json:"masterFileID" db:"master_file_id"`
	MediaObjectID string `json:"mediaObjectID" db:"media_object_id"`
	Label         string `json:"label" db:"label"`
}
