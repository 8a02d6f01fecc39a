package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionFund              AuditAction = "WALLET_FUND"
	AuditActionPayment           AuditAction = "PAYMENT"
	AuditActionReconcile         AuditAction = "WALLET_RECONCILE"
	AuditActionUnfreeze          AuditAction = "WALLET_UNFREEZE"
	AuditActionSettlementCompute AuditAction = "SETTLEMENT_COMPUTE"
	AuditActionSettlementReopen  AuditAction = "SETTLEMENT_REOPEN"
	AuditActionPoolDistribute    AuditAction = "POOL_DISTRIBUTE"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Actor        string      `json:"actor"` // token subject of the caller
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
