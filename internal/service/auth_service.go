package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-esg-platform/internal/credential"
	"go-esg-platform/internal/metrics"
	"go-esg-platform/internal/model"
	"go-esg-platform/internal/repository"
	"go-esg-platform/internal/revocation"
	"go-esg-platform/internal/validation"
	"go-esg-platform/pkg/apierror"
	"go-esg-platform/pkg/role"
	"go-esg-platform/pkg/token"
)

type AuthService struct {
	credentials *credential.Store
	accounts    repository.AccountRepository
	codec       *token.Codec
	denylist    revocation.Denylist
	audit       *AuditService
	now         func() time.Time
}

func NewAuthService(credentials *credential.Store, accounts repository.AccountRepository, codec *token.Codec, denylist revocation.Denylist, audit *AuditService) *AuthService {
	if denylist == nil {
		denylist = revocation.Noop{}
	}
	return &AuthService{
		credentials: credentials,
		accounts:    accounts,
		codec:       codec,
		denylist:    denylist,
		audit:       audit,
		now:         time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, rawRole string, req model.LoginRequest) (result model.AuthResult, err error) {
	r, err := parseRole(rawRole)
	if err != nil {
		metrics.RecordLogin("unknown", outcomeOf(err))
		return model.AuthResult{}, err
	}
	defer func() {
		metrics.RecordLogin(string(r), outcomeOf(err))
		s.audit.Log(ctx, "auth.login", actorFrom(ctx, result.User.ID, r), auditStatus(err), string(r)+"/"+strings.ToLower(strings.TrimSpace(req.Email)), errorText(err))
	}()

	if err := validation.Struct(req); err != nil {
		return model.AuthResult{}, err
	}

	account, found, err := s.credentials.FindByEmail(ctx, r, req.Email)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("load account for login: %w", err)
	}
	// verify even when nothing was found so unknown emails cost the same
	matched := s.credentials.VerifyPassword(account, req.Password)
	if !found || !matched {
		return model.AuthResult{}, apierror.Unauthorized("invalid credentials")
	}
	if account.Status == model.StatusPending {
		return model.AuthResult{}, apierror.Forbidden("account pending approval")
	}

	signed, _, err := s.codec.Issue(account.ID, account.Role)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{Token: signed, User: account.Profile()}, nil
}

// Signup creates an account in the partition of rawRole. Roles that log in
// automatically get a token; organisational roles are created pending.
func (s *AuthService) Signup(ctx context.Context, rawRole string, req model.SignupRequest) (result model.AuthResult, err error) {
	r, err := parseRole(rawRole)
	if err != nil {
		metrics.RecordSignup("unknown", outcomeOf(err))
		return model.AuthResult{}, err
	}
	defer func() {
		metrics.RecordSignup(string(r), outcomeOf(err))
		s.audit.Log(ctx, "auth.signup", actorFrom(ctx, result.User.ID, r), auditStatus(err), string(r)+"/"+strings.ToLower(strings.TrimSpace(req.Email)), errorText(err))
	}()

	if !r.SelfRegister() {
		return model.AuthResult{}, apierror.Forbidden(string(r) + " accounts cannot be registered")
	}

	req = trimSignup(req)
	if err := validateSignup(r, req); err != nil {
		return model.AuthResult{}, err
	}

	hash, err := s.credentials.HashPassword(req.Password)
	if err != nil {
		return model.AuthResult{}, err
	}

	status := model.StatusActive
	if !r.AutoLogin() {
		status = model.StatusPending
	}

	now := s.now().UTC()
	account := model.Account{
		ID:               uuid.NewString(),
		Role:             r,
		Email:            strings.ToLower(req.Email),
		PasswordHash:     hash,
		Name:             req.Name,
		OrganizationName: req.OrganizationName,
		CompanyName:      req.CompanyName,
		ContactPerson:    req.ContactPerson,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, model.ErrAccountAlreadyExists) {
			return model.AuthResult{}, apierror.Conflict("an account with this email already exists")
		}
		return model.AuthResult{}, fmt.Errorf("create account: %w", err)
	}

	result = model.AuthResult{User: account.Profile()}
	if r.AutoLogin() {
		signed, _, err := s.codec.Issue(account.ID, r)
		if err != nil {
			return model.AuthResult{}, err
		}
		result.Token = signed
	}

	slog.Info("account registered", "role", r, "user_id", account.ID, "status", status)
	return result, nil
}

// ValidateToken checks the bearer token of a request, including the
// revocation list when one is configured.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*model.AuthClaims, error) {
	claims, err := s.codec.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, model.ErrTokenRevoked
	}

	return &model.AuthClaims{
		UserID:    claims.UserID,
		Role:      claims.Role,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func (s *AuthService) Profile(ctx context.Context, who model.AuthClaims) (model.AccountProfile, error) {
	if err := checkRole(who.Role); err != nil {
		return model.AccountProfile{}, err
	}

	account, found, err := s.credentials.FindByID(ctx, who.Role, who.UserID)
	if err != nil {
		return model.AccountProfile{}, fmt.Errorf("load profile: %w", err)
	}
	if !found {
		return model.AccountProfile{}, apierror.NotFound("account not found")
	}
	return account.Profile(), nil
}

// Logout revokes the presented token. Without a revocation list it is a no-op
// and the token stays valid until it expires.
func (s *AuthService) Logout(ctx context.Context, who model.AuthClaims) (revoked bool, err error) {
	if !revocation.Enabled(s.denylist) || who.TokenID == "" {
		return false, nil
	}
	if err := s.denylist.Revoke(ctx, who.TokenID, who.ExpiresAt); err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	s.audit.Log(ctx, "auth.logout", actorFrom(ctx, who.UserID, who.Role), auditSuccess, string(who.Role)+"/"+who.UserID, "")
	return true, nil
}

func (s *AuthService) ListPending(ctx context.Context, rawRole string) ([]model.AccountProfile, error) {
	r, err := parseRole(rawRole)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accounts.List(ctx, r, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending accounts: %w", err)
	}

	out := make([]model.AccountProfile, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, account.Profile())
	}
	return out, nil
}

// Approve activates a pending account so that it can log in.
func (s *AuthService) Approve(ctx context.Context, approver model.AuthClaims, rawRole string, id string) (profile model.AccountProfile, err error) {
	r, err := parseRole(rawRole)
	if err != nil {
		return model.AccountProfile{}, err
	}
	defer func() {
		s.audit.Log(ctx, "account.approve", actorFrom(ctx, approver.UserID, approver.Role), auditStatus(err), string(r)+"/"+id, errorText(err))
	}()

	account, found, err := s.credentials.FindByID(ctx, r, id)
	if err != nil {
		return model.AccountProfile{}, fmt.Errorf("load account for approval: %w", err)
	}
	if !found {
		return model.AccountProfile{}, apierror.NotFound("account not found")
	}
	if account.Status != model.StatusPending {
		return model.AccountProfile{}, apierror.Conflict("account is not pending approval")
	}

	if err := s.accounts.UpdateStatus(ctx, r, id, model.StatusActive); err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return model.AccountProfile{}, apierror.NotFound("account not found")
		}
		return model.AccountProfile{}, fmt.Errorf("approve account: %w", err)
	}

	account.Status = model.StatusActive
	return account.Profile(), nil
}

func trimSignup(req model.SignupRequest) model.SignupRequest {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.OrganizationName = strings.TrimSpace(req.OrganizationName)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.ContactPerson = strings.TrimSpace(req.ContactPerson)
	return req
}

func validateSignup(r role.Role, req model.SignupRequest) error {
	var fields []apierror.FieldError

	if err := validation.Struct(req); err != nil {
		var apiErr *apierror.APIError
		if !errors.As(err, &apiErr) {
			return err
		}
		fields = append(fields, apiErr.Fields...)
	}

	required, err := repository.RequiredFields(r)
	if err != nil {
		return apierror.InvalidRole(string(r))
	}
	fields = append(fields, validation.Required(map[string]string{
		"name":             req.Name,
		"organizationName": req.OrganizationName,
		"companyName":      req.CompanyName,
		"contactPerson":    req.ContactPerson,
	}, required...)...)

	if len(fields) > 0 {
		return apierror.Validation("validation failed", fields...)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account unless one with that email
// already exists. Admins cannot sign up, so this is the only way to get one.
func (s *AuthService) EnsureAdmin(ctx context.Context, email string, password string) (created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	_, found, err := s.credentials.FindByEmail(ctx, role.Admin, email)
	if err != nil {
		return false, fmt.Errorf("look up bootstrap admin: %w", err)
	}
	if found {
		return false, nil
	}

	hash, err := s.credentials.HashPassword(password)
	if err != nil {
		return false, err
	}

	now := s.now().UTC()
	err = s.accounts.Create(ctx, model.Account{
		ID:           uuid.NewString(),
		Role:         role.Admin,
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Status:       model.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil && !errors.Is(err, model.ErrAccountAlreadyExists) {
		return false, fmt.Errorf("create bootstrap admin: %w", err)
	}

	slog.Info("bootstrap admin ensured", "email", email)
	return err == nil, nil
}
