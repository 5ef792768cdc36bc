package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/potluck-organizer/internal/model"
)

// ErrPotluckNotFound is returned when a potluck cannot be found in the DB.
var ErrPotluckNotFound = errors.New("potluck not found")

// PotluckRepo encapsulates all database queries related to potlucks. It
// depends on a sql.DB connection which should be configured elsewhere.
type PotluckRepo struct {
	db *sql.DB
}

// NewPotluckRepo constructs a PotluckRepo with the provided DB handle. This
// function allows dependency injection of the database in tests and at
// startup.
func NewPotluckRepo(db *sql.DB) *PotluckRepo { return &PotluckRepo{db: db} }

// DB exposes the underlying connection pool for callers that need to
// coordinate transactions across repositories.
func (r *PotluckRepo) DB() *sql.DB { return r.db }

// Create inserts a new potluck. The caller must have assigned a URL slug;
// the uniqueness constraint on url_slug rejects a concurrent duplicate, in
// which case the database error is returned unchanged so the caller can
// retry with a fresh slug. On success the ID and timestamp fields are
// populated.
func (r *PotluckRepo) Create(ctx context.Context, p *model.Potluck) error {
	now := time.Now().UTC().Truncate(time.Second)
	const q = `INSERT INTO potlucks (name, description, url_slug, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.Description, p.URLSlug, now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetBySlug fetches a potluck by its public URL slug. It returns
// ErrPotluckNotFound if no row is found.
func (r *PotluckRepo) GetBySlug(ctx context.Context, slug string) (*model.Potluck, error) {
	const q = `SELECT id, name, description, url_slug, created_at, updated_at
	           FROM potlucks WHERE url_slug = ?`
	var p model.Potluck
	err := r.db.QueryRowContext(ctx, q, slug).Scan(
		&p.ID, &p.Name, &p.Description, &p.URLSlug, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPotluckNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SlugExists reports whether any potluck already uses the given slug. The
// slug generator probes this before accepting a candidate.
func (r *PotluckRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT 1 FROM potlucks WHERE url_slug = ?`
	var one int
	err := r.db.QueryRowContext(ctx, q, slug).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateInfo updates a potluck's name and description and bumps
// updated_at. It returns ErrPotluckNotFound when no row is affected.
func (r *PotluckRepo) UpdateInfo(ctx context.Context, id uint64, name string, description *string) error {
	const q = `UPDATE potlucks SET name = ?, description = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, description, time.Now().UTC().Truncate(time.Second), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPotluckNotFound
	}
	return nil
}

// Delete removes a potluck. The ON DELETE CASCADE foreign keys take every
// descendant category, item and claim down with it. Returns
// ErrPotluckNotFound when the potluck does not exist.
func (r *PotluckRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM potlucks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPotluckNotFound
	}
	return nil
}

// DashboardRow pairs a potluck with aggregate counts of everything beneath
// it. It is returned by ListDashboard for the admin dashboard.
type DashboardRow struct {
	Potluck         model.Potluck `json:"potluck"`
	TotalCategories int           `json:"total_categories"`
	TotalItems      int           `json:"total_items"`
	TotalClaims     int           `json:"total_claims"`
}

// ListDashboard returns every potluck ordered most-recent first, each with
// its category, item and claim counts computed in SQL.
func (r *PotluckRepo) ListDashboard(ctx context.Context) ([]DashboardRow, error) {
	const q = `SELECT p.id, p.name, p.description, p.url_slug, p.created_at, p.updated_at,
	                  (SELECT COUNT(*) FROM categories c WHERE c.potluck_id = p.id),
	                  (SELECT COUNT(*) FROM items i
	                     JOIN categories c ON c.id = i.category_id
	                    WHERE c.potluck_id = p.id),
	                  (SELECT COUNT(*) FROM claims cl
	                     JOIN items i ON i.id = cl.item_id
	                     JOIN categories c ON c.id = i.category_id
	                    WHERE c.potluck_id = p.id)
	           FROM potlucks p
	           ORDER BY p.created_at DESC, p.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DashboardRow
	for rows.Next() {
		var d DashboardRow
		if err := rows.Scan(
			&d.Potluck.ID, &d.Potluck.Name, &d.Potluck.Description, &d.Potluck.URLSlug,
			&d.Potluck.CreatedAt, &d.Potluck.UpdatedAt,
			&d.TotalCategories, &d.TotalItems, &d.TotalClaims,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimInfo is one claim as shown on the public potluck page. The session
// token is carried for ownership computation but never serialized.
type ClaimInfo struct {
	ID           uint64    `json:"id"`
	AttendeeName string    `json:"attendee_name"`
	ItemDetails  *string   `json:"item_details,omitempty"`
	ClaimedAt    time.Time `json:"claimed_at"`
	SessionID    *string   `json:"-"`
	// Mine is filled per request by the public handler when the viewer's
	// session token matches; it is never persisted.
	Mine bool `json:"mine"`
}

// ItemInfo is one item with its live claim state.
type ItemInfo struct {
	ID             uint64      `json:"id"`
	Name           string      `json:"name"`
	Description    *string     `json:"description,omitempty"`
	ClaimLimit     int         `json:"claim_limit"`
	RequireDetails bool        `json:"require_details"`
	ClaimCount     int         `json:"claim_count"`
	CanClaim       bool        `json:"can_claim"`
	Claims         []ClaimInfo `json:"claims"`
}

// CategoryInfo is one category with its items, ordered for display.
type CategoryInfo struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	MaxItems    int        `json:"max_items"`
	ItemCount   int        `json:"item_count"`
	Items       []ItemInfo `json:"items"`
}

// PotluckDetail is the full aggregate handed to the presentation layer:
// the potluck with every category, item and claim beneath it, plus the
// derived counts and can-claim flags the page needs.
type PotluckDetail struct {
	ID          uint64         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	URLSlug     string         `json:"url_slug"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Categories  []CategoryInfo `json:"categories"`
}

// GetDetailBySlug loads the complete potluck tree in three queries and
// assembles it in memory. Categories are ordered by display_order then id;
// items and claims by id (insertion order).
func (r *PotluckRepo) GetDetailBySlug(ctx context.Context, slug string) (*PotluckDetail, error) {
	p, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	det := &PotluckDetail{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		URLSlug:     p.URLSlug,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Categories:  []CategoryInfo{},
	}

	const qCat = `SELECT id, name, description, max_items
	              FROM categories WHERE potluck_id = ?
	              ORDER BY display_order, id`
	rows, err := r.db.QueryContext(ctx, qCat, p.ID)
	if err != nil {
		return nil, err
	}
	catIndex := map[uint64]int{}
	for rows.Next() {
		var c CategoryInfo
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.MaxItems); err != nil {
			rows.Close()
			return nil, err
		}
		c.Items = []ItemInfo{}
		catIndex[c.ID] = len(det.Categories)
		det.Categories = append(det.Categories, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	const qItem = `SELECT i.id, i.category_id, i.name, i.description, i.claim_limit, i.require_details
	               FROM items i
	               JOIN categories c ON c.id = i.category_id
	               WHERE c.potluck_id = ?
	               ORDER BY i.id`
	rows, err = r.db.QueryContext(ctx, qItem, p.ID)
	if err != nil {
		return nil, err
	}
	itemCat := map[uint64]uint64{}
	itemIndex := map[uint64]int{}
	for rows.Next() {
		var it ItemInfo
		var categoryID uint64
		if err := rows.Scan(&it.ID, &categoryID, &it.Name, &it.Description, &it.ClaimLimit, &it.RequireDetails); err != nil {
			rows.Close()
			return nil, err
		}
		it.Claims = []ClaimInfo{}
		ci, ok := catIndex[categoryID]
		if !ok {
			continue
		}
		itemCat[it.ID] = categoryID
		itemIndex[it.ID] = len(det.Categories[ci].Items)
		det.Categories[ci].Items = append(det.Categories[ci].Items, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	const qClaim = `SELECT cl.id, cl.item_id, cl.attendee_name, cl.item_details, cl.session_id, cl.claimed_at
	                FROM claims cl
	                JOIN items i ON i.id = cl.item_id
	                JOIN categories c ON c.id = i.category_id
	                WHERE c.potluck_id = ?
	                ORDER BY cl.id`
	rows, err = r.db.QueryContext(ctx, qClaim, p.ID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var cl ClaimInfo
		var itemID uint64
		if err := rows.Scan(&cl.ID, &itemID, &cl.AttendeeName, &cl.ItemDetails, &cl.SessionID, &cl.ClaimedAt); err != nil {
			rows.Close()
			return nil, err
		}
		catID, ok := itemCat[itemID]
		if !ok {
			continue
		}
		it := &det.Categories[catIndex[catID]].Items[itemIndex[itemID]]
		it.Claims = append(it.Claims, cl)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Derived counts and flags
	for ci := range det.Categories {
		c := &det.Categories[ci]
		c.ItemCount = len(c.Items)
		for ii := range c.Items {
			it := &c.Items[ii]
			it.ClaimCount = len(it.Claims)
			it.CanClaim = it.ClaimCount < it.ClaimLimit
		}
	}
	return det, nil
}
