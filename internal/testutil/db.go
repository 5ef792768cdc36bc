// Package testutil provides shared helpers for package tests: an
// in-memory database with the full schema applied, and seed functions
// for the common entity shapes.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/potluck-organizer/internal/database"
	"github.com/iliyamo/potluck-organizer/internal/model"
	"github.com/iliyamo/potluck-organizer/internal/repository"
)

// OpenDB returns an in-memory SQLite database with the schema applied.
// The connection is closed when the test finishes.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.EnsureSchema(db, "sqlite"))
	return db
}

// Repos bundles one repository per entity over a shared database.
type Repos struct {
	Potlucks   *repository.PotluckRepo
	Categories *repository.CategoryRepo
	Items      *repository.ItemRepo
	Claims     *repository.ClaimRepo
}

// NewRepos constructs the full repository set over db.
func NewRepos(db *sql.DB) Repos {
	return Repos{
		Potlucks:   repository.NewPotluckRepo(db),
		Categories: repository.NewCategoryRepo(db),
		Items:      repository.NewItemRepo(db),
		Claims:     repository.NewClaimRepo(db),
	}
}

// SeedPotluck inserts a potluck with the given slug.
func SeedPotluck(t *testing.T, r Repos, slug string) *model.Potluck {
	t.Helper()
	p := &model.Potluck{Name: "Summer BBQ", URLSlug: slug}
	require.NoError(t, r.Potlucks.Create(context.Background(), p))
	return p
}

// SeedCategory inserts a category under the potluck with the given
// max_items ceiling.
func SeedCategory(t *testing.T, r Repos, potluckID uint64, maxItems int) *model.Category {
	t.Helper()
	c := &model.Category{PotluckID: potluckID, Name: "Mains", MaxItems: maxItems}
	require.NoError(t, r.Categories.Create(context.Background(), c))
	return c
}

// SeedItem inserts an item under the category with the given claim_limit.
func SeedItem(t *testing.T, r Repos, categoryID uint64, claimLimit int) *model.Item {
	t.Helper()
	it := &model.Item{CategoryID: categoryID, Name: "Potato salad", ClaimLimit: claimLimit, CreatedByAdmin: true}
	require.NoError(t, r.Items.CreateIfBelowLimit(context.Background(), it))
	return it
}

// SeedClaim inserts a claim on the item owned by the given session token;
// pass an empty token for an ownerless claim.
func SeedClaim(t *testing.T, r Repos, itemID uint64, name, token string) *model.Claim {
	t.Helper()
	cl := &model.Claim{ItemID: itemID, AttendeeName: name}
	if token != "" {
		cl.SessionID = &token
	}
	require.NoError(t, r.Claims.CreateIfBelowLimit(context.Background(), cl))
	return cl
}
