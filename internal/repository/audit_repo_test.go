package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-esg-platform/internal/model"
)

func TestMemoryAuditRepository_QueryFiltersAndPages(t *testing.T) {
	repo := NewMemoryAuditRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		status := "success"
		if i%2 == 1 {
			status = "failed"
		}
		require.NoError(t, repo.Log(ctx, model.AuditEntry{
			Action:     "account.delete",
			OccurredAt: base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339Nano),
			Actor:      model.AuditActor{UserID: fmt.Sprintf("u%d", i)},
			Status:     status,
		}))
	}
	require.NoError(t, repo.Log(ctx, model.AuditEntry{Action: "auth.login", OccurredAt: base.Format(time.RFC3339Nano), Status: "success"}))

	entries, meta, err := repo.Query(ctx, model.AuditQuery{Action: "ACCOUNT.DELETE", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	require.Len(t, entries, 2)
	assert.Equal(t, "u4", entries[0].Actor.UserID)

	failed, meta, err := repo.Query(ctx, model.AuditQuery{Status: "failed"})
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Total)
	assert.Len(t, failed, 2)

	empty, _, err := repo.Query(ctx, model.AuditQuery{Page: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
