package model

import (
	"time"

	"go-esg-platform/pkg/role"
)

const (
	StatusActive  = "active"
	StatusPending = "pending"
)

// Account is one record of a role partition.
type Account struct {
	ID               string    `json:"id"`
	Role             role.Role `json:"role"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Name             string    `json:"name,omitempty"`
	OrganizationName string    `json:"organizationName,omitempty"`
	CompanyName      string    `json:"companyName,omitempty"`
	ContactPerson    string    `json:"contactPerson,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// AccountProfile is the public projection of an account.
type AccountProfile struct {
	ID               string    `json:"id"`
	Name             string    `json:"name,omitempty"`
	Email            string    `json:"email"`
	Role             role.Role `json:"role"`
	OrganizationName string    `json:"organizationName,omitempty"`
	CompanyName      string    `json:"companyName,omitempty"`
	ContactPerson    string    `json:"contactPerson,omitempty"`
	Status           string    `json:"status,omitempty"`
}

func (a Account) Profile() AccountProfile {
	return AccountProfile{
		ID:               a.ID,
		Name:             a.Name,
		Email:            a.Email,
		Role:             a.Role,
		OrganizationName: a.OrganizationName,
		CompanyName:      a.CompanyName,
		ContactPerson:    a.ContactPerson,
		Status:           a.Status,
	}
}

// AuthClaims is the authenticated identity attached to a request.
type AuthClaims struct {
	UserID    string
	Role      role.Role
	TokenID   string
	ExpiresAt time.Time
}

// AuthResult is returned by login and signup. Token is empty for accounts
// awaiting approval.
type AuthResult struct {
	Token string         `json:"token,omitempty"`
	User  AccountProfile `json:"user"`
}

type AccountList struct {
	Accounts []AccountProfile `json:"accounts"`
}
