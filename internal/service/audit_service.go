package service

import (
	"context"
	"log/slog"
	"time"

	"go-esg-platform/internal/model"
	"go-esg-platform/internal/repository"
)

const (
	auditSuccess = "success"
	auditFailed  = "failed"
)

type AuditService struct {
	store repository.AuditStore
}

func NewAuditService(store repository.AuditStore) *AuditService {
	return &AuditService{store: store}
}

// Log records an entry. Failures to persist are logged and never surface to
// the operation being audited.
func (s *AuditService) Log(ctx context.Context, action string, actor model.AuditActor, status string, resource string, errText string) {
	if s == nil || s.store == nil {
		return
	}

	entry := model.AuditEntry{
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Actor:      actor,
		Status:     status,
		Resource:   resource,
		Error:      errText,
	}

	if err := s.store.Log(context.WithoutCancel(ctx), entry); err != nil {
		slog.Error("failed to write audit entry", "action", action, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	return s.store.Query(ctx, query)
}
