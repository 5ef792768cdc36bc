package slug_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/potluck-organizer/internal/slug"
)

// memStore is a Store over an in-memory slug set.
type memStore struct {
	taken map[string]bool
}

func (s *memStore) SlugExists(_ context.Context, candidate string) (bool, error) {
	return s.taken[candidate], nil
}

func TestGenerate(t *testing.T) {
	g := slug.New(&memStore{taken: map[string]bool{}})

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s, err := g.Generate(context.Background())
		require.NoError(t, err)
		assert.True(t, slug.IsValid(s), "generated slug %q must match the pattern", s)
		seen[s] = true
	}
	// 50 draws from a 36^8 space colliding would mean a broken source.
	assert.Len(t, seen, 50)
}

func TestGenerateSkipsTakenSlugs(t *testing.T) {
	store := &memStore{taken: map[string]bool{}}
	g := slug.New(store)

	s, err := g.Generate(context.Background())
	require.NoError(t, err)
	store.taken[s] = true

	next, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, s, next)
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"abcd1234", true},
		{"00000000", true},
		{"zzzzzzzz", true},
		{"", false},
		{"short", false},
		{"toolong123", false},
		{"ABCD1234", false},
		{"abcd-123", false},
		{"abcd 123", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slug.IsValid(tc.in), "IsValid(%q)", tc.in)
	}
}
