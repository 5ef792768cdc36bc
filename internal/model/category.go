package model

// Category groups the items needed for a potluck. The number of distinct
// items a category may hold is bounded by MaxItems; DisplayOrder controls
// presentation ordering only and carries no uniqueness constraint.
// Corresponds to a row in the `categories` table.
//
// Fields:
//  ID           – primary key identifier.
//  PotluckID    – owning potluck.
//  Name         – category name (1–200 chars).
//  Description  – optional free-text description.
//  MaxItems     – ceiling on distinct items in this category (1–100).
//  DisplayOrder – presentation ordering hint (>= 0).
type Category struct {
	ID           uint64  // categories.id
	PotluckID    uint64  // categories.potluck_id
	Name         string  // categories.name
	Description  *string // categories.description (nullable)
	MaxItems     int     // categories.max_items
	DisplayOrder int     // categories.display_order
}
