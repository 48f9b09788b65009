package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether a stored token is already past its JWT exp
// claim, or is not a parseable JWT at all. The claim is read without
// signature verification; the server remains the authority, this only saves
// a doomed round trip on restore. Degraded-session placeholders are not
// JWTs, so they land in the unparseable bucket and never survive a restart.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
