package postgres

import (
	"context"
	"testing"
	"time"

	"venue-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	details := `{"status":200}`
	log := &domain.AuditLog{
		ID:           uuid.New(),
		Actor:        "admin-1",
		Action:       domain.AuditActionSettlementCompute,
		ResourceType: "settlement",
		ResourceID:   "venue-1",
		Details:      details,
		IPAddress:    "10.0.0.7",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(log.ID, "admin-1", "SETTLEMENT_COMPUTE", "settlement", "venue-1", &details, "10.0.0.7", log.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), log))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Create_EmptyDetails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	log := &domain.AuditLog{
		ID:           uuid.New(),
		Actor:        "station-bar-1",
		Action:       domain.AuditActionPayment,
		ResourceType: "payment",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(log.ID, "station-bar-1", "PAYMENT", "payment", "", (*string)(nil), "", log.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), log))
	assert.NoError(t, mock.ExpectationsWereMet())
}
