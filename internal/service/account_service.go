package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go-esg-platform/internal/credential"
	"go-esg-platform/internal/metrics"
	"go-esg-platform/internal/model"
	"go-esg-platform/internal/repository"
	"go-esg-platform/internal/revocation"
	"go-esg-platform/internal/validation"
	"go-esg-platform/pkg/apierror"
)

// AccountService mutates the account of the authenticated caller.
type AccountService struct {
	credentials *credential.Store
	accounts    repository.AccountRepository
	denylist    revocation.Denylist
	audit       *AuditService
}

func NewAccountService(credentials *credential.Store, accounts repository.AccountRepository, denylist revocation.Denylist, audit *AuditService) *AccountService {
	if denylist == nil {
		denylist = revocation.Noop{}
	}
	return &AccountService{
		credentials: credentials,
		accounts:    accounts,
		denylist:    denylist,
		audit:       audit,
	}
}

func (s *AccountService) ChangePassword(ctx context.Context, who model.AuthClaims, req model.ChangePasswordRequest) (err error) {
	defer func() {
		metrics.RecordAccountMutation("change_password", string(who.Role), outcomeOf(err))
		s.audit.Log(ctx, "account.change_password", actorFrom(ctx, who.UserID, who.Role), auditStatus(err), string(who.Role)+"/"+who.UserID, errorText(err))
	}()

	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := checkRole(who.Role); err != nil {
		return err
	}

	account, found, err := s.credentials.FindByID(ctx, who.Role, who.UserID)
	if err != nil {
		return fmt.Errorf("load account for password change: %w", err)
	}
	if !found {
		return apierror.NotFound("account not found")
	}

	if !s.credentials.VerifyPassword(account, req.CurrentPassword) {
		return apierror.Unauthorized("current password is incorrect")
	}

	hash, err := s.credentials.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, who.Role, who.UserID, hash); err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return apierror.NotFound("account not found")
		}
		return fmt.Errorf("store new password: %w", err)
	}

	slog.Info("password changed", "role", who.Role, "user_id", who.UserID)
	return nil
}

// DeleteAccount removes the caller's account for good. Admin accounts are
// never deletable here, whatever password is supplied.
func (s *AccountService) DeleteAccount(ctx context.Context, who model.AuthClaims, req model.DeleteAccountRequest) (err error) {
	defer func() {
		metrics.RecordAccountMutation("delete_account", string(who.Role), outcomeOf(err))
		s.audit.Log(ctx, "account.delete", actorFrom(ctx, who.UserID, who.Role), auditStatus(err), string(who.Role)+"/"+who.UserID, errorText(err))
	}()

	if err := checkRole(who.Role); err != nil {
		return err
	}
	if !who.Role.Deletable() {
		return apierror.Forbidden("admin accounts cannot be deleted")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	account, found, err := s.credentials.FindByID(ctx, who.Role, who.UserID)
	if err != nil {
		return fmt.Errorf("load account for deletion: %w", err)
	}
	if !found {
		return apierror.NotFound("account not found")
	}

	if !s.credentials.VerifyPassword(account, req.Password) {
		return apierror.Unauthorized("password is incorrect")
	}

	if err := s.accounts.Delete(ctx, who.Role, who.UserID); err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return apierror.NotFound("account not found")
		}
		return fmt.Errorf("delete account: %w", err)
	}

	if who.TokenID != "" {
		if err := s.denylist.Revoke(ctx, who.TokenID, who.ExpiresAt); err != nil {
			slog.Warn("failed to revoke token of deleted account", "user_id", who.UserID, "error", err)
		}
	}

	slog.Info("account deleted", "role", who.Role, "user_id", who.UserID)
	return nil
}
