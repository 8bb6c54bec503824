package models

// Collection represents a collection row. The role lists map to text[]
// columns.
type Collection struct {
	CollectionID string   `json:"collectionID" db:"collection_id"`
	Name         string   `json:"name" db:"name"`
	Managers     []string `json:"managers" db:"managers"`
	Editors      []string `json:"editors" db:"editors"`
	Depositors   []string `json:"depositors" db:"depositors"`
	AuditFields
}
