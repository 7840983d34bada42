// Package auth gates mutating activity operations behind the shared team code.
package auth

import (
	"crypto/subtle"
	"net/http"
)

// HeaderTeamCode is the request header carrying the shared secret. Reads and
// signup/unavailable mutations stay open: any team member may sign up or mark
// themselves out without the code.
const HeaderTeamCode = "x-team-code"

// Guard compares the team-code header against the configured secret.
type Guard struct {
	secret []byte
}

// NewGuard constructs a Guard for the given secret.
func NewGuard(secret string) Guard {
	return Guard{secret: []byte(secret)}
}

// Allow reports whether the request carries the correct team code.
func (g Guard) Allow(r *http.Request) bool {
	provided := []byte(r.Header.Get(HeaderTeamCode))
	return subtle.ConstantTimeCompare(provided, g.secret) == 1
}
