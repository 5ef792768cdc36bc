package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/potluck-organizer/internal/auth"
	"github.com/iliyamo/potluck-organizer/internal/model"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	token, exp, err := auth.NewAdminToken("secret")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(auth.AdminSessionTTL), exp, time.Minute)
	assert.NoError(t, auth.ParseAdminToken("secret", token))
}

func TestParseAdminTokenRejectsForgeries(t *testing.T) {
	token, _, err := auth.NewAdminToken("secret")
	require.NoError(t, err)

	// Wrong signing secret.
	assert.ErrorIs(t, auth.ParseAdminToken("other-secret", token), auth.ErrForbidden)
	// Garbage.
	assert.ErrorIs(t, auth.ParseAdminToken("secret", "not-a-token"), auth.ErrForbidden)
	assert.ErrorIs(t, auth.ParseAdminToken("secret", ""), auth.ErrForbidden)
}

func TestParseAdminTokenRejectsWrongRole(t *testing.T) {
	claims := jwt.MapClaims{
		"role": "attendee",
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	assert.ErrorIs(t, auth.ParseAdminToken("secret", signed), auth.ErrForbidden)
}

func TestParseAdminTokenRejectsExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(-time.Hour).Unix(),
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	assert.ErrorIs(t, auth.ParseAdminToken("secret", signed), auth.ErrForbidden)
}

func TestNewAttendeeToken(t *testing.T) {
	a, err := auth.NewAttendeeToken()
	require.NoError(t, err)
	b, err := auth.NewAttendeeToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("potluck-secret", 4)
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(hash, "potluck-secret"))
	assert.False(t, auth.VerifyPassword(hash, "wrong"))
	assert.False(t, auth.VerifyPassword("not-a-hash", "potluck-secret"))
}

func TestCanDeleteClaim(t *testing.T) {
	token := "tok-1"
	owned := func() *model.Claim {
		return &model.Claim{AttendeeName: "Alice", SessionID: &token}
	}

	cases := []struct {
		name         string
		claim        *model.Claim
		sessionToken string
		attendee     string
		want         bool
	}{
		{"token and name match", owned(), "tok-1", "Alice", true},
		{"name match is case-insensitive", owned(), "tok-1", "alice", true},
		{"name match trims whitespace", owned(), "tok-1", "  Alice  ", true},
		{"wrong token", owned(), "tok-2", "Alice", false},
		{"empty token", owned(), "", "Alice", false},
		{"wrong name", owned(), "tok-1", "Bob", false},
		{"empty name", owned(), "tok-1", "", false},
		{"ownerless claim never matches", &model.Claim{AttendeeName: "Alice"}, "tok-1", "Alice", false},
		{"nil claim", nil, "tok-1", "Alice", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, auth.CanDeleteClaim(tc.claim, tc.sessionToken, tc.attendee))
		})
	}
}
