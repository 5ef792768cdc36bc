package model

import "time"

// Claim records an attendee's commitment to bring an item. AttendeeName is
// unauthenticated free text; SessionID is the opaque per-browser token that
// anchors deletion rights. SessionID is nil only for claims created before
// the token scheme existed (or without a browser session) — those rows can
// only be removed by an admin. Corresponds to a row in the `claims` table.
//
// Fields:
//  ID           – primary key identifier.
//  ItemID       – claimed item.
//  AttendeeName – declared name (1–200 chars, not a verified identity).
//  ItemDetails  – optional free text (<= 500 chars).
//  SessionID    – owning browser-session token (nullable).
//  ClaimedAt    – creation timestamp.
type Claim struct {
	ID           uint64    // claims.id
	ItemID       uint64    // claims.item_id
	AttendeeName string    // claims.attendee_name
	ItemDetails  *string   // claims.item_details (nullable)
	SessionID    *string   // claims.session_id (nullable)
	ClaimedAt    time.Time // claims.claimed_at
}
