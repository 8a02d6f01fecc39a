package memory

import (
	"context"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	s *Store
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(s *Store) *AuditRepo {
	return &AuditRepo{s: s}
}

// Create appends an audit log.
func (r *AuditRepo) Create(_ context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.audit = append(r.s.audit, *log)
	return nil
}

// List returns all audit logs in insertion order.
func (r *AuditRepo) List(_ context.Context) ([]domain.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return append([]domain.AuditLog(nil), r.s.audit...), nil
}

var _ ports.AuditRepository = (*AuditRepo)(nil)
