// Package slug produces the short public identifiers used in a potluck's
// shareable URL. Slugs are 8 characters drawn from [a-z0-9] with a
// cryptographically strong source; the 36^8 space makes collisions
// negligible at expected scale, but every candidate is still probed
// against the store before being accepted.
package slug

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Length is the number of characters in a generated slug.
	Length = 8

	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// maxAttempts bounds the probe loop so a pathological store cannot
	// spin the request forever.
	maxAttempts = 20
)

// Store is the lookup the generator needs: whether a slug is already
// assigned to an existing potluck.
type Store interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Generator draws candidate slugs and probes the store until it finds an
// unused one.
type Generator struct {
	store Store
}

// New returns a Generator bound to the given store.
func New(store Store) *Generator {
	if store == nil {
		panic("nil store passed to slug.New")
	}
	return &Generator{store: store}
}

// Generate returns a slug that was unused at the instant of the check.
// A concurrent insert can still collide right before ours lands; the
// store's uniqueness constraint rejects that insert and the caller is
// expected to call Generate again.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := random()
		if err != nil {
			return "", err
		}
		exists, err := g.store.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no unused slug found after %d attempts", maxAttempts)
}

// IsValid reports whether s matches the 8-char lowercase-alphanumeric
// slug pattern.
func IsValid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// random draws one slug candidate. Each character is chosen with
// crypto/rand.Int so the per-character distribution is uniform.
func random() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
