package model

import "time"

// Potluck represents a single organized event. Each potluck is created by
// an admin and shared with attendees through its public URL slug. A potluck
// owns a sequence of categories; deleting it cascades to every category,
// item and claim beneath it. This struct corresponds to a row in the
// `potlucks` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – event name (1–200 chars).
//  Description – optional free-text description.
//  URLSlug     – unique 8-char lowercase-alphanumeric public identifier.
//  CreatedAt   – timestamp when the potluck was created.
//  UpdatedAt   – timestamp of last update.
type Potluck struct {
	ID          uint64    // potlucks.id
	Name        string    // potlucks.name
	Description *string   // potlucks.description (nullable)
	URLSlug     string    // potlucks.url_slug
	CreatedAt   time.Time // potlucks.created_at
	UpdatedAt   time.Time // potlucks.updated_at
}
