package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/potluck-organizer/internal/model"
)

// ErrClaimNotFound is returned when a claim cannot be found in the DB.
var ErrClaimNotFound = errors.New("claim not found")

// ClaimRepo encapsulates all database queries related to claims.
type ClaimRepo struct {
	db *sql.DB
}

// NewClaimRepo constructs a ClaimRepo with the provided DB handle.
func NewClaimRepo(db *sql.DB) *ClaimRepo { return &ClaimRepo{db: db} }

// CreateIfBelowLimit inserts a claim only while its item holds fewer
// claims than the item's claim_limit. Like ItemRepo.CreateIfBelowLimit the
// check and insert are one conditional statement; the losing writer in a
// race affects zero rows and gets ErrAtCapacity back. The item's live
// claim_limit is read inside the same statement.
func (r *ClaimRepo) CreateIfBelowLimit(ctx context.Context, cl *model.Claim) error {
	cl.ClaimedAt = time.Now().UTC().Truncate(time.Second)
	const q = `INSERT INTO claims (item_id, attendee_name, item_details, session_id, claimed_at)
	           SELECT i.id, ?, ?, ?, ?
	             FROM items i
	            WHERE i.id = ?
	              AND (SELECT COUNT(*) FROM claims c WHERE c.item_id = i.id) < i.claim_limit`
	res, err := r.db.ExecContext(ctx, q,
		cl.AttendeeName, cl.ItemDetails, cl.SessionID, cl.ClaimedAt,
		cl.ItemID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAtCapacity
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cl.ID = uint64(id)
	return nil
}

// GetByID fetches a claim by its ID. Returns ErrClaimNotFound if no row is
// found.
func (r *ClaimRepo) GetByID(ctx context.Context, id uint64) (*model.Claim, error) {
	const q = `SELECT id, item_id, attendee_name, item_details, session_id, claimed_at
	           FROM claims WHERE id = ?`
	var cl model.Claim
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&cl.ID, &cl.ItemID, &cl.AttendeeName, &cl.ItemDetails, &cl.SessionID, &cl.ClaimedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return &cl, nil
}

// GetByIDForPotluck fetches a claim by id but only if it belongs to the
// given potluck (through its item's category). Claims addressed through a
// foreign potluck's slug are treated as not found.
func (r *ClaimRepo) GetByIDForPotluck(ctx context.Context, id, potluckID uint64) (*model.Claim, error) {
	const q = `SELECT cl.id, cl.item_id, cl.attendee_name, cl.item_details, cl.session_id, cl.claimed_at
	           FROM claims cl
	           JOIN items i ON i.id = cl.item_id
	           JOIN categories c ON c.id = i.category_id
	           WHERE cl.id = ? AND c.potluck_id = ?`
	var cl model.Claim
	err := r.db.QueryRowContext(ctx, q, id, potluckID).Scan(
		&cl.ID, &cl.ItemID, &cl.AttendeeName, &cl.ItemDetails, &cl.SessionID, &cl.ClaimedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return &cl, nil
}

// Delete removes a claim. Returns ErrClaimNotFound when no row matches.
func (r *ClaimRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrClaimNotFound
	}
	return nil
}
