package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/iliyamo/potluck-organizer/internal/model"
)

// CanDeleteClaim decides whether the holder of sessionToken may delete the
// given claim as an attendee. Both checks must pass: the token must equal
// the claim's stored session id, and the supplied name must match the
// claim's attendee name case-insensitively after trimming. The token is
// the authorization anchor; the name is a user-facing confirmation on top
// of it, since names are unauthenticated free text.
//
// Claims whose session id is NULL (rows created before the token scheme,
// or stored without a browser session) are never deletable through this
// path; cleaning those up is an admin operation.
func CanDeleteClaim(cl *model.Claim, sessionToken, attendeeName string) bool {
	if cl == nil || cl.SessionID == nil || *cl.SessionID == "" {
		return false
	}
	if sessionToken == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(*cl.SessionID), []byte(sessionToken)) != 1 {
		return false
	}
	return strings.EqualFold(
		strings.TrimSpace(cl.AttendeeName),
		strings.TrimSpace(attendeeName),
	)
}
