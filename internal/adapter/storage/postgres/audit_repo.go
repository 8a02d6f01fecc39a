package postgres

import (
	"context"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a PostgreSQL-backed AuditRepository.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create inserts an audit log outside any business transaction.
func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, actor, action, resource_type, resource_id, details, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID, log.Actor, string(log.Action), log.ResourceType,
		log.ResourceID, nullIfEmpty(log.Details), log.IPAddress, log.CreatedAt,
	)
	return err
}

// details is a JSONB column; an empty string is not valid JSON.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ ports.AuditRepository = (*AuditRepo)(nil)
