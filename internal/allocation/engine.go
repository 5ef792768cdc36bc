package allocation

import (
	"context"
	"strings"

	"github.com/iliyamo/potluck-organizer/internal/model"
	"github.com/iliyamo/potluck-organizer/internal/repository"
	"github.com/iliyamo/potluck-organizer/internal/slug"
)

// Limits on input fields. Names are shared by potlucks, categories, items
// and attendee names; the numeric ranges bound both capacity ceilings.
const (
	MaxNameLen        = 200
	MaxDetailsLen     = 500
	MinLimit          = 1
	MaxLimit          = 100
	DefaultMaxItems   = 10
	DefaultClaimLimit = 1
)

// Engine couples capacity and content checks to the mutations they guard.
// It sits between the handlers and the repositories: handlers resolve and
// authorize entities, the engine enforces the invariants, the repositories
// persist.
type Engine struct {
	Potlucks   *repository.PotluckRepo
	Categories *repository.CategoryRepo
	Items      *repository.ItemRepo
	Claims     *repository.ClaimRepo
	Slugs      *slug.Generator
}

// NewEngine constructs an Engine. All dependencies must be non-nil.
func NewEngine(potlucks *repository.PotluckRepo, categories *repository.CategoryRepo, items *repository.ItemRepo, claims *repository.ClaimRepo, slugs *slug.Generator) *Engine {
	if potlucks == nil || categories == nil || items == nil || claims == nil || slugs == nil {
		panic("nil dependency passed to allocation.NewEngine")
	}
	return &Engine{
		Potlucks:   potlucks,
		Categories: categories,
		Items:      items,
		Claims:     claims,
		Slugs:      slugs,
	}
}

// CanAddItem reports whether the category has room for one more item at
// the instant of the check. Advisory only: CreateItem re-evaluates the
// count atomically with the insert.
func (e *Engine) CanAddItem(ctx context.Context, categoryID uint64) (bool, error) {
	cat, err := e.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return false, err
	}
	n, err := e.Categories.CountItems(ctx, categoryID)
	if err != nil {
		return false, err
	}
	return n < cat.MaxItems, nil
}

// CanClaim reports whether the item has an open claim slot at the instant
// of the check. Advisory only, like CanAddItem.
func (e *Engine) CanClaim(ctx context.Context, itemID uint64) (bool, error) {
	it, err := e.Items.GetByID(ctx, itemID)
	if err != nil {
		return false, err
	}
	n, err := e.Items.CountClaims(ctx, itemID)
	if err != nil {
		return false, err
	}
	return n < it.ClaimLimit, nil
}

// ValidateClaimContent fails with ErrMissingDetails when the item requires
// details and the trimmed details are empty.
func (e *Engine) ValidateClaimContent(it *model.Item, itemDetails string) error {
	if it.RequireDetails && strings.TrimSpace(itemDetails) == "" {
		return ErrMissingDetails
	}
	return nil
}

// PotluckInput carries the admin-supplied fields for a new or updated
// potluck.
type PotluckInput struct {
	Name        string
	Description string
}

// CreatePotluck validates the input, assigns a fresh unique slug and
// persists the potluck. If a concurrent creation grabs the same slug
// between our probe and the insert, the database's uniqueness constraint
// rejects the insert and a new slug is generated; the slug never changes
// once a row exists.
func (e *Engine) CreatePotluck(ctx context.Context, in PotluckInput) (*model.Potluck, error) {
	name, err := validName("name", in.Name)
	if err != nil {
		return nil, err
	}
	const maxSlugRetries = 5
	var lastErr error
	for attempt := 0; attempt < maxSlugRetries; attempt++ {
		s, err := e.Slugs.Generate(ctx)
		if err != nil {
			return nil, err
		}
		p := &model.Potluck{
			Name:        name,
			Description: optionalText(in.Description),
			URLSlug:     s,
		}
		err = e.Potlucks.Create(ctx, p)
		if err == nil {
			return p, nil
		}
		if !isDuplicateKey(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// UpdatePotluck validates the input and rewrites the potluck's name and
// description. The slug is immutable once assigned and is not touched.
func (e *Engine) UpdatePotluck(ctx context.Context, existing *model.Potluck, in PotluckInput) error {
	name, err := validName("name", in.Name)
	if err != nil {
		return err
	}
	return e.Potlucks.UpdateInfo(ctx, existing.ID, name, optionalText(in.Description))
}

// CategoryInput carries the admin-supplied fields for a new or updated
// category.
type CategoryInput struct {
	Name         string
	Description  string
	MaxItems     int
	DisplayOrder int
}

// CreateCategory validates the input and persists a category under the
// potluck. Categories are not capacity-bounded; only the items inside
// them are.
func (e *Engine) CreateCategory(ctx context.Context, potluckID uint64, in CategoryInput) (*model.Category, error) {
	c, err := buildCategory(potluckID, in)
	if err != nil {
		return nil, err
	}
	if err := e.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory validates the input and rewrites the category's fields.
func (e *Engine) UpdateCategory(ctx context.Context, existing *model.Category, in CategoryInput) (*model.Category, error) {
	c, err := buildCategory(existing.PotluckID, in)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	if err := e.Categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ItemInput carries the admin-supplied fields for a new or updated item.
type ItemInput struct {
	Name           string
	Description    string
	ClaimLimit     int
	RequireDetails bool
	CreatedByAdmin bool
}

// CreateItem validates the input and inserts the item if and only if the
// category is below its max_items ceiling. The capacity check and the
// insert are one atomic statement in the repository; at the ceiling the
// item is not created and ErrCapacityExceeded is returned.
func (e *Engine) CreateItem(ctx context.Context, categoryID uint64, in ItemInput) (*model.Item, error) {
	it, err := buildItem(categoryID, in)
	if err != nil {
		return nil, err
	}
	if err := e.Items.CreateIfBelowLimit(ctx, it); err != nil {
		if err == repository.ErrAtCapacity {
			return nil, ErrCapacityExceeded
		}
		return nil, err
	}
	return it, nil
}

// UpdateItem validates the input and rewrites the item's fields. Lowering
// claim_limit below the current claim count is permitted; existing claims
// are untouched and only future claims are gated.
func (e *Engine) UpdateItem(ctx context.Context, existing *model.Item, in ItemInput) (*model.Item, error) {
	it, err := buildItem(existing.CategoryID, in)
	if err != nil {
		return nil, err
	}
	it.ID = existing.ID
	it.CreatedByAdmin = existing.CreatedByAdmin
	it.CreatedAt = existing.CreatedAt
	if err := e.Items.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// ClaimInput carries the attendee-supplied fields for a new claim.
type ClaimInput struct {
	AttendeeName string
	ItemDetails  string
}

// CreateClaim validates content requirements and inserts the claim if and
// only if the item is below its claim_limit. ownerToken is the caller's
// attendee session token and is stamped onto the claim as its ownership
// anchor; pass empty when the caller has no session (the claim is then
// admin-deletable only).
func (e *Engine) CreateClaim(ctx context.Context, it *model.Item, in ClaimInput, ownerToken string) (*model.Claim, error) {
	name, err := validName("attendee_name", in.AttendeeName)
	if err != nil {
		return nil, err
	}
	if len(in.ItemDetails) > MaxDetailsLen {
		return nil, &ValidationError{Field: "item_details", Reason: "must be at most 500 characters"}
	}
	if err := e.ValidateClaimContent(it, in.ItemDetails); err != nil {
		return nil, err
	}
	cl := &model.Claim{
		ItemID:       it.ID,
		AttendeeName: name,
		ItemDetails:  optionalText(in.ItemDetails),
		SessionID:    optionalText(ownerToken),
	}
	if err := e.Claims.CreateIfBelowLimit(ctx, cl); err != nil {
		if err == repository.ErrAtCapacity {
			return nil, ErrCapacityExceeded
		}
		return nil, err
	}
	return cl, nil
}

func buildCategory(potluckID uint64, in CategoryInput) (*model.Category, error) {
	name, err := validName("name", in.Name)
	if err != nil {
		return nil, err
	}
	maxItems := in.MaxItems
	if maxItems == 0 {
		maxItems = DefaultMaxItems
	}
	if maxItems < MinLimit || maxItems > MaxLimit {
		return nil, &ValidationError{Field: "max_items", Reason: "must be between 1 and 100"}
	}
	if in.DisplayOrder < 0 {
		return nil, &ValidationError{Field: "display_order", Reason: "must not be negative"}
	}
	return &model.Category{
		PotluckID:    potluckID,
		Name:         name,
		Description:  optionalText(in.Description),
		MaxItems:     maxItems,
		DisplayOrder: in.DisplayOrder,
	}, nil
}

func buildItem(categoryID uint64, in ItemInput) (*model.Item, error) {
	name, err := validName("name", in.Name)
	if err != nil {
		return nil, err
	}
	limit := in.ClaimLimit
	if limit == 0 {
		limit = DefaultClaimLimit
	}
	if limit < MinLimit || limit > MaxLimit {
		return nil, &ValidationError{Field: "claim_limit", Reason: "must be between 1 and 100"}
	}
	return &model.Item{
		CategoryID:     categoryID,
		Name:           name,
		Description:    optionalText(in.Description),
		ClaimLimit:     limit,
		CreatedByAdmin: in.CreatedByAdmin,
		RequireDetails: in.RequireDetails,
	}, nil
}

func validName(field, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if len(name) > MaxNameLen {
		return "", &ValidationError{Field: field, Reason: "must be at most 200 characters"}
	}
	return name, nil
}

func optionalText(s string) *string {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return &v
}

// isDuplicateKey recognizes unique-constraint violations from both
// supported drivers: MySQL error 1062 and SQLite's UNIQUE constraint
// message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "1062") || strings.Contains(msg, "UNIQUE constraint")
}
