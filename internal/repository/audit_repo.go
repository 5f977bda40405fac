package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-esg-platform/internal/model"
)

type AuditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

type AuditRepository struct {
	pool *pgxpool.Pool
}

var _ AuditStore = (*AuditRepository)(nil)

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Log(ctx context.Context, entry model.AuditEntry) error {
	occurredAt, err := time.Parse(time.RFC3339Nano, entry.OccurredAt)
	if err != nil {
		occurredAt = time.Now().UTC()
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_entries
		 (action, occurred_at, actor_user_id, actor_role, actor_ip, status, resource, error_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.Action, occurredAt,
		entry.Actor.UserID, entry.Actor.Role, entry.Actor.IP,
		entry.Status, entry.Resource, entry.Error)
	if err != nil {
		return fmt.Errorf("log audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	query = normalizeAuditQuery(query)

	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if action := strings.TrimSpace(query.Action); action != "" {
		where = append(where, fmt.Sprintf("lower(action) = lower($%d)", argIdx))
		args = append(args, action)
		argIdx++
	}
	if actorID := strings.TrimSpace(query.ActorID); actorID != "" {
		where = append(where, fmt.Sprintf("actor_user_id = $%d", argIdx))
		args = append(args, actorID)
		argIdx++
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		where = append(where, fmt.Sprintf("lower(status) = lower($%d)", argIdx))
		args = append(args, status)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_entries "+whereClause, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count audit entries: %w", err)
	}
	meta := pageMeta(query, total)

	offset := (query.Page - 1) * query.Limit
	dataQuery := fmt.Sprintf(
		`SELECT action, occurred_at, actor_user_id, actor_role, actor_ip, status, resource, error_text
		 FROM audit_entries %s
		 ORDER BY occurred_at DESC
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, query.Limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		var occurredAt time.Time
		if err := rows.Scan(&e.Action, &occurredAt, &e.Actor.UserID, &e.Actor.Role, &e.Actor.IP,
			&e.Status, &e.Resource, &e.Error); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan audit entry: %w", err)
		}
		e.OccurredAt = occurredAt.UTC().Format(time.RFC3339Nano)
		entries = append(entries, e)
	}

	return entries, meta, rows.Err()
}

// MemoryAuditRepository keeps audit entries in memory for development mode.
type MemoryAuditRepository struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

var _ AuditStore = (*MemoryAuditRepository)(nil)

func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Log(_ context.Context, entry model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	return nil
}

func (r *MemoryAuditRepository) Query(_ context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	query = normalizeAuditQuery(query)

	r.mu.Lock()
	matched := make([]model.AuditEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if query.Action != "" && !strings.EqualFold(e.Action, query.Action) {
			continue
		}
		if query.ActorID != "" && e.Actor.UserID != query.ActorID {
			continue
		}
		if query.Status != "" && !strings.EqualFold(e.Status, query.Status) {
			continue
		}
		matched = append(matched, e)
	}
	r.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].OccurredAt > matched[j].OccurredAt
	})

	meta := pageMeta(query, len(matched))
	start := (query.Page - 1) * query.Limit
	if start >= len(matched) {
		return []model.AuditEntry{}, meta, nil
	}
	end := start + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], meta, nil
}

func normalizeAuditQuery(query model.AuditQuery) model.AuditQuery {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 50
	}
	if query.Limit > 200 {
		query.Limit = 200
	}
	query.Action = strings.TrimSpace(query.Action)
	query.ActorID = strings.TrimSpace(query.ActorID)
	query.Status = strings.TrimSpace(query.Status)
	return query
}

func pageMeta(query model.AuditQuery, total int) model.Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + query.Limit - 1) / query.Limit
	}
	return model.Meta{Page: query.Page, Limit: query.Limit, Total: total, TotalPages: totalPages}
}
