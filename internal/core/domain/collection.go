package domain

import "slices"

// Collection is the owning unit for media objects. Only the role membership
// the authorization core needs is modeled here; collection management itself
// lives in the wider media system.
type Collection struct {
	CollectionID string   `json:"collectionID"` // Primary Key (e.g., UUID)
	Name         string   `json:"name"`
	Managers     []string `json:"managers"`   // UserIDs
	Editors      []string `json:"editors"`    // UserIDs
	Depositors   []string `json:"depositors"` // UserIDs
	AuditFields
}

// IsManager reports whether userID manages this collection.
func (c *Collection) IsManager(userID string) bool {
	return slices.Contains(c.Managers, userID)
}

// IsEditor reports whether userID is an editor of this collection.
func (c *Collection) IsEditor(userID string) bool {
	return slices.Contains(c.Editors, userID)
}

// IsDepositor reports whether userID is a depositor of this collection.
func (c *Collection) IsDepositor(userID string) bool {
	return slices.Contains(c.Depositors, userID)
}

// IsMember reports whether userID holds any role (manager, editor or
// depositor) on this collection.
func (c *Collection) IsMember(userID string) bool {
	return c.IsManager(userID) || c.IsEditor(userID) || c.IsDepositor(userID)
}

// IsEditorOrManager reports whether userID is an editor or manager.
func (c *Collection) IsEditorOrManager(userID string) bool {
	return c.IsManager(userID) || c.IsEditor(userID)
}
