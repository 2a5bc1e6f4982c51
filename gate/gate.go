// Package gate decides, for one navigation, whether a view renders or the
// caller is sent elsewhere. Decisions are pure functions of session status.
package gate

import (
	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/session"
)

type Outcome string

const (
	// Loading is returned while the session is still initializing. Callers
	// must neither render nor redirect.
	Loading         Outcome = "loading"
	Render          Outcome = "render"
	RedirectLogin   Outcome = "redirect_login"
	RedirectDefault Outcome = "redirect_default"
	// RedirectHome is produced only by the default resolver and points at the
	// role's own landing view.
	RedirectHome Outcome = "redirect_home"
)

type Decision struct {
	Outcome  Outcome
	Location string
}

func (d Decision) IsRedirect() bool {
	return d.Location != ""
}

var (
	loading = Decision{Outcome: Loading}
	render  = Decision{Outcome: Render}
	toLogin = Decision{Outcome: RedirectLogin, Location: enums.ViewLogin.Path()}
)

// Decide gates a protected view. required == RoleNone admits any active
// session.
func Decide(status session.Status, required enums.Role) Decision {
	switch {
	case status.IsInitializing():
		return loading
	case !status.IsAuthenticated():
		return toLogin
	case required == enums.RoleNone || required == status.Role():
		return render
	default:
		return Decision{Outcome: RedirectDefault, Location: enums.ViewDashboard.Path()}
	}
}

// ResolveDefault runs the gate with no role requirement and then points an
// active session at its role's home view. It never yields RedirectDefault, so
// a role mismatch settles in one extra hop.
func ResolveDefault(status session.Status) Decision {
	d := Decide(status, enums.RoleNone)
	if d.Outcome != Render {
		return d
	}
	return Decision{Outcome: RedirectHome, Location: enums.HomeView(status.Role()).Path()}
}

// DecidePublic gates the login and register pages: an active session is sent
// to the default resolver instead of seeing the form again.
func DecidePublic(status session.Status) Decision {
	if status.IsAuthenticated() {
		return Decision{Outcome: RedirectDefault, Location: enums.ViewDashboard.Path()}
	}
	return render
}
