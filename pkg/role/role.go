package role

import (
	"errors"
	"strings"
)

// Role identifies one account partition of the platform.
type Role string

const (
	SimpleUser Role = "simple-user"
	NGO        Role = "ngo"
	Corporate  Role = "corporate"
	Carbon     Role = "carbon"
	Admin      Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

var all = []Role{SimpleUser, NGO, Corporate, Carbon, Admin}

// All returns every known role in registration order.
func All() []Role {
	out := make([]Role, len(all))
	copy(out, all)
	return out
}

// Parse normalises raw and returns the matching role or ErrInvalidRole.
func Parse(raw string) (Role, error) {
	candidate := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !candidate.Valid() {
		return "", ErrInvalidRole
	}
	return candidate, nil
}

func (r Role) Valid() bool {
	switch r {
	case SimpleUser, NGO, Corporate, Carbon, Admin:
		return true
	}
	return false
}

// AutoLogin reports whether a successful signup issues a session token right away.
// Organisational roles wait for admin approval instead.
func (r Role) AutoLogin() bool {
	switch r {
	case SimpleUser, Carbon:
		return true
	}
	return false
}

// SelfRegister reports whether the role may be created through public signup.
func (r Role) SelfRegister() bool {
	return r.Valid() && r != Admin
}

// Deletable reports whether accounts of this role may delete themselves.
func (r Role) Deletable() bool {
	return r.Valid() && r != Admin
}

func (r Role) String() string {
	return string(r)
}
