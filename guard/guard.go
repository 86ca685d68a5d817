// Package guard is the route-guarding policy applied by session-gated
// pages. Each gated page checks exactly one auth domain; user and admin
// sessions are never cross-checked.
package guard

import "github.com/TechNas12/samruddhi-organic/session"

type Action int

const (
	// Wait means the session is still unresolved: render nothing, decide
	// nothing, avoid a flash of protected content or a premature redirect.
	Wait Action = iota
	Allow
	Redirect
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "wait"
	}
}

// Decision is the outcome for one page mount. ReturnTo preserves the
// originally requested path so login can send the user back.
type Decision struct {
	Action   Action
	Target   string
	ReturnTo string
}

// Session is the read surface the guard needs from a session store.
type Session interface {
	State() session.State
}

// Check gates one destination against one auth domain.
func Check(s Session, destination, loginRoute string) Decision {
	switch s.State() {
	case session.Authenticated:
		return Decision{Action: Allow}
	case session.Anonymous:
		return Decision{Action: Redirect, Target: loginRoute, ReturnTo: destination}
	default:
		return Decision{Action: Wait}
	}
}
