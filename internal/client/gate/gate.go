// Package gate decides whether a requested view may render for the current
// session state. It is a pure function of its inputs and holds no state.
package gate

import "github.com/securevault/vaultctl/internal/client/session"

// Decision is the outcome of a gate check.
type Decision int

const (
	// Wait: the session restore has not finished. Render a neutral waiting
	// state; never the guarded view and never a redirect.
	Wait Decision = iota
	// RedirectLogin: no authenticated identity.
	RedirectLogin
	// NotFound: the view requires the admin role and the identity lacks it.
	// Rendered indistinguishably from a missing route so the view's
	// existence is not confirmed to non-admins.
	NotFound
	// Render: all checks passed.
	Render
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case RedirectLogin:
		return "redirect-login"
	case NotFound:
		return "not-found"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decide evaluates the gate. The check order is load-bearing: loading before
// authentication, authentication before role. Checking authentication first
// prevents a flash of "not found" for an unauthenticated user who happens to
// request an admin view.
func Decide(state session.State, adminOnly bool) Decision {
	if state.Loading {
		return Wait
	}
	if !state.IsAuthenticated() {
		return RedirectLogin
	}
	if adminOnly && state.Identity.Role != session.RoleAdmin {
		return NotFound
	}
	return Render
}
