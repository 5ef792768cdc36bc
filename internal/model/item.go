package model

import "time"

// Item is a specific thing attendees can bring. The number of simultaneous
// claims is bounded by ClaimLimit. When RequireDetails is set, every claim
// on the item must carry non-empty details describing what exactly is being
// brought. Corresponds to a row in the `items` table.
//
// Fields:
//  ID             – primary key identifier.
//  CategoryID     – owning category.
//  Name           – item name (1–200 chars).
//  Description    – optional free-text description.
//  ClaimLimit     – max simultaneous claims (1–100).
//  CreatedByAdmin – informational flag; no public route creates items today.
//  RequireDetails – claims must carry non-empty details when true.
//  CreatedAt      – creation timestamp.
type Item struct {
	ID             uint64    // items.id
	CategoryID     uint64    // items.category_id
	Name           string    // items.name
	Description    *string   // items.description (nullable)
	ClaimLimit     int       // items.claim_limit
	CreatedByAdmin bool      // items.created_by_admin
	RequireDetails bool      // items.require_details
	CreatedAt      time.Time // items.created_at
}
