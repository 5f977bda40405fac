package authclient

import (
	"slices"
	"sync"

	"go-esg-platform/pkg/role"
)

// Constraint restricts a view. RequiredRole wins over AllowedRoles; an empty
// constraint only requires a session.
type Constraint struct {
	RequiredRole role.Role
	AllowedRoles []role.Role
}

type Outcome int

const (
	// Pending means the session is not known yet; nothing should render.
	Pending Outcome = iota
	Permit
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Permit:
		return "permit"
	case Redirect:
		return "redirect"
	default:
		return "pending"
	}
}

type Decision struct {
	Outcome Outcome
	Target  string
}

// HomePath is the landing view of r.
func HomePath(r role.Role) string {
	return "/dashboard/" + string(r)
}

// Decide is a pure function of the snapshot and the constraint.
func Decide(s Snapshot, c Constraint) Decision {
	switch s.State {
	case StateUnknown:
		return Decision{Outcome: Pending}
	case StateAnonymous:
		return Decision{Outcome: Redirect, Target: EntryPoint}
	}
	if !s.IsAuthenticated() {
		return Decision{Outcome: Redirect, Target: EntryPoint}
	}

	current := s.Session.Role
	switch {
	case c.RequiredRole != "":
		if current != c.RequiredRole {
			return Decision{Outcome: Redirect, Target: HomePath(current)}
		}
	case len(c.AllowedRoles) > 0:
		if !slices.Contains(c.AllowedRoles, current) {
			return Decision{Outcome: Redirect, Target: HomePath(current)}
		}
	}
	return Decision{Outcome: Permit}
}

// Guard keeps a Decision current for one view, re-deciding on every session
// change.
type Guard struct {
	constraint  Constraint
	onRedirect  func(target string)
	unsubscribe func()

	mu       sync.Mutex
	decision Decision
}

// NewGuard decides immediately and after every change of m. onRedirect runs
// each time the decision turns into a redirect.
func NewGuard(m *Manager, c Constraint, onRedirect func(target string)) *Guard {
	g := &Guard{constraint: c, onRedirect: onRedirect}
	g.unsubscribe = m.Subscribe(g.evaluate)
	g.evaluate(m.Snapshot())
	return g
}

func (g *Guard) evaluate(s Snapshot) {
	next := Decide(s, g.constraint)

	g.mu.Lock()
	changed := next != g.decision
	g.decision = next
	g.mu.Unlock()

	if changed && next.Outcome == Redirect && g.onRedirect != nil {
		g.onRedirect(next.Target)
	}
}

func (g *Guard) Decision() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decision
}

func (g *Guard) Permitted() bool {
	return g.Decision().Outcome == Permit
}

// Close stops following session changes.
func (g *Guard) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
}
