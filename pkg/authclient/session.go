package authclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go-esg-platform/pkg/role"
	"go-esg-platform/pkg/token"
)

// EntryPoint is where anonymous visitors are sent.
const EntryPoint = "/login"

// API is the part of the server the manager talks to. *Client implements it.
type API interface {
	Login(ctx context.Context, r role.Role, email string, password string) (AuthPayload, error)
	Signup(ctx context.Context, r role.Role, input SignupInput) (AuthPayload, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, token string, current string, next string, confirm string) error
	DeleteAccount(ctx context.Context, token string, password string) error
}

type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is who is logged in. UserID and Role always come from the token.
type Session struct {
	UserID           string
	Role             role.Role
	Email            string
	Name             string
	OrganizationName string
	CompanyName      string
	ContactPerson    string
	Token            string
	ExpiresAt        time.Time
}

type Snapshot struct {
	State   State
	Session *Session
	Loading bool
}

func (s Snapshot) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.Session != nil
}

func (s Snapshot) HasRole(r role.Role) bool {
	return s.IsAuthenticated() && s.Session.Role == r
}

// Result is what every manager operation reports; failures never escape as
// errors or panics.
type Result struct {
	Success  bool
	Message  string
	LoggedIn bool
}

// ResetFunc performs the full reset after logout, such as navigating to the
// entry point and dropping cached views.
type ResetFunc func(entryPoint string)

type ManagerOption func(*Manager)

func WithResetFunc(fn ResetFunc) ManagerOption {
	return func(m *Manager) {
		m.reset = fn
	}
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager owns the client-side session and its persisted copy. It is the
// only writer of the store.
type Manager struct {
	api   API
	store Store
	reset ResetFunc
	now   func() time.Time

	mu          sync.Mutex
	state       State
	session     *Session
	loading     int
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

func NewManager(api API, store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		api:         api,
		store:       store,
		now:         time.Now,
		state:       StateUnknown,
		subscribers: map[int]func(Snapshot){},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Hydrate rebuilds the session from the store. It only acts while the state
// is still unknown.
func (m *Manager) Hydrate() Snapshot {
	m.mu.Lock()
	if m.state != StateUnknown {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}
	m.mu.Unlock()

	session, err := m.restore()
	if err != nil {
		slog.Debug("discarding persisted session", "error", err)
		if clearErr := m.store.Clear(); clearErr != nil {
			slog.Warn("failed to clear persisted session", "error", clearErr)
		}
	}

	m.mu.Lock()
	if session != nil {
		m.state = StateAuthenticated
	} else {
		m.state = StateAnonymous
	}
	m.session = session
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	return snap
}

func (m *Manager) restore() (*Session, error) {
	persisted, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if persisted.Token == "" {
		return nil, errors.New("no token")
	}

	claims, err := token.Inspect(persisted.Token, m.now())
	if err != nil {
		return nil, err
	}

	return newSession(persisted.Token, claims, persisted.User), nil
}

func newSession(tok string, claims token.Claims, profile *Profile) *Session {
	s := &Session{
		UserID:    claims.UserID,
		Role:      claims.Role,
		Token:     tok,
		ExpiresAt: claims.ExpiresAt,
	}
	if profile != nil {
		s.Email = profile.Email
		s.Name = profile.Name
		s.OrganizationName = profile.OrganizationName
		s.CompanyName = profile.CompanyName
		s.ContactPerson = profile.ContactPerson
	}
	return s
}

func (m *Manager) Login(ctx context.Context, rawRole string, email string, password string) Result {
	r, err := role.Parse(rawRole)
	if err != nil {
		return Result{Message: "invalid role: " + rawRole}
	}

	done := m.begin()
	defer done()

	payload, err := m.api.Login(ctx, r, email, password)
	if err != nil {
		return failure(err)
	}
	if payload.Token == "" {
		return Result{Message: "login response did not include a token"}
	}

	if err := m.establish(payload); err != nil {
		return Result{Message: err.Error()}
	}
	return Result{Success: true, Message: "logged in", LoggedIn: true}
}

// Signup registers an account. When the server answers without a token the
// account waits for approval and no session is created.
func (m *Manager) Signup(ctx context.Context, rawRole string, input SignupInput) Result {
	r, err := role.Parse(rawRole)
	if err != nil {
		return Result{Message: "invalid role: " + rawRole}
	}

	done := m.begin()
	defer done()

	payload, err := m.api.Signup(ctx, r, input)
	if err != nil {
		return failure(err)
	}

	if payload.Token == "" {
		return Result{Success: true, Message: "account created; it will be available once approved", LoggedIn: false}
	}

	if err := m.establish(payload); err != nil {
		return Result{Message: err.Error()}
	}
	return Result{Success: true, Message: "account created", LoggedIn: true}
}

// Logout drops the local session before anything else, then tells the server
// on a best-effort basis so it can revoke the token.
func (m *Manager) Logout(ctx context.Context) Result {
	tok := m.currentToken()
	resetErr := m.hardReset()

	if tok != "" {
		if err := m.api.Logout(ctx, tok); err != nil {
			slog.Debug("server logout failed", "error", err)
		}
	}

	if resetErr != nil {
		return Result{Message: resetErr.Error()}
	}
	return Result{Success: true, Message: "logged out"}
}

func (m *Manager) ChangePassword(ctx context.Context, current string, next string, confirm string) Result {
	tok := m.currentToken()
	if tok == "" {
		return Result{Message: "not logged in"}
	}

	done := m.begin()
	defer done()

	if err := m.api.ChangePassword(ctx, tok, current, next, confirm); err != nil {
		res := failure(err)
		res.LoggedIn = true
		return res
	}
	return Result{Success: true, Message: "password changed", LoggedIn: true}
}

// DeleteAccount removes the account on the server and then resets the
// session as logout does.
func (m *Manager) DeleteAccount(ctx context.Context, password string) Result {
	tok := m.currentToken()
	if tok == "" {
		return Result{Message: "not logged in"}
	}

	done := m.begin()
	err := m.api.DeleteAccount(ctx, tok, password)
	done()
	if err != nil {
		res := failure(err)
		res.LoggedIn = true
		return res
	}

	if err := m.hardReset(); err != nil {
		return Result{Message: err.Error()}
	}
	return Result{Success: true, Message: "account deleted"}
}

func (m *Manager) establish(payload AuthPayload) error {
	claims, err := token.Inspect(payload.Token, m.now())
	if err != nil {
		return fmt.Errorf("server returned an unusable token: %w", err)
	}

	user := payload.User
	if err := m.store.Save(Persisted{Token: payload.Token, User: &user}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.session = newSession(payload.Token, claims, &user)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	return nil
}

func (m *Manager) hardReset() error {
	err := m.store.Clear()

	m.mu.Lock()
	m.state = StateAnonymous
	m.session = nil
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	if m.reset != nil {
		m.reset(EntryPoint)
	}

	if err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

// begin marks an operation in flight; the returned func must run when it ends.
func (m *Manager) begin() func() {
	m.mu.Lock()
	m.loading++
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.loading--
			snap := m.snapshotLocked()
			m.mu.Unlock()
			m.notify(snap)
		})
	}
}

func (m *Manager) currentToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{State: m.state, Loading: m.loading > 0}
	if m.session != nil {
		copied := *m.session
		snap.Session = &copied
	}
	return snap
}

// Session returns a copy of the current session, or nil.
func (m *Manager) Session() *Session {
	return m.Snapshot().Session
}

func (m *Manager) State() State { return m.Snapshot().State }
func (m *Manager) IsLoading() bool { return m.Snapshot().Loading }
func (m *Manager) IsAuthenticated() bool { return m.Snapshot().IsAuthenticated() }
func (m *Manager) IsSimpleUser() bool { return m.Snapshot().HasRole(role.SimpleUser) }
func (m *Manager) IsNGO() bool { return m.Snapshot().HasRole(role.NGO) }
func (m *Manager) IsCorporate() bool { return m.Snapshot().HasRole(role.Corporate) }
func (m *Manager) IsCarbon() bool { return m.Snapshot().HasRole(role.Carbon) }
func (m *Manager) IsAdmin() bool { return m.Snapshot().HasRole(role.Admin) }

// Subscribe registers fn for every change of state or loading flag. The
// returned func removes it.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify(snap Snapshot) {
	m.mu.Lock()
	fns := make([]func(Snapshot), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func failure(err error) Result {
	if apiErr, ok := IsAPIError(err); ok {
		return Result{Message: apiErr.Error()}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Result{Message: "request cancelled"}
	}
	return Result{Message: "network error: " + err.Error()}
}
