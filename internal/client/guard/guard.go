// Package guard makes the navigation decision for protected views: given a
// view's required role and the current session, it either allows entry or
// names the path to redirect to. The decision is pure and must be taken
// fresh on every navigation, never cached, since role and expiry can change
// between navigations.
package guard

import (
	"time"

	"mpcconsole/internal/client/models"
)

// Navigation targets known to the console.
const (
	PathLogin     = "/login"
	PathAdminHome = "/admin"
	PathUserHome  = "/user"
)

// Verdict is the outcome of an Evaluate call.
type Verdict struct {
	Allowed    bool
	RedirectTo string
}

// Allow is the verdict permitting navigation.
var Allow = Verdict{Allowed: true}

// RedirectTo builds a denying verdict pointing at path.
func RedirectTo(path string) Verdict {
	return Verdict{RedirectTo: path}
}

// HomeFor returns the landing path for a role. Both enum values are handled
// explicitly; anything else lands on the login entry point.
func HomeFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return PathAdminHome
	case models.RoleUser:
		return PathUserHome
	default:
		return PathLogin
	}
}

// Evaluate decides whether a session may enter a view requiring the given
// role.
//
// An absent or expired session is sent to the login entry point. An
// authenticated session with the wrong role is silently steered to its own
// home rather than shown an error; this mirrors the product behavior of the
// web console.
func Evaluate(required models.Role, session *models.Session, now time.Time) Verdict {
	if session == nil || session.Expired(now) {
		return RedirectTo(PathLogin)
	}
	if session.User.Role != required {
		return RedirectTo(HomeFor(session.User.Role))
	}
	return Allow
}
