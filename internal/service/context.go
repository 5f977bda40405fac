package service

import (
	"context"
	"errors"
	"strings"

	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/apierror"
	"go-esg-platform/pkg/role"
)

type clientIPKey struct{}

// WithClientIP attaches the caller address used in audit entries.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func actorFrom(ctx context.Context, userID string, r role.Role) model.AuditActor {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return model.AuditActor{UserID: userID, Role: string(r), IP: ip}
}

func parseRole(raw string) (role.Role, error) {
	r, err := role.Parse(raw)
	if err != nil {
		return "", apierror.InvalidRole(raw)
	}
	return r, nil
}

// checkRole rejects roles that are not registered before any store access.
func checkRole(r role.Role) error {
	if !r.Valid() {
		return apierror.InvalidRole(string(r))
	}
	return nil
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return strings.ToLower(apiErr.Code)
	}
	return "error"
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func auditStatus(err error) string {
	if err == nil {
		return auditSuccess
	}
	return auditFailed
}
