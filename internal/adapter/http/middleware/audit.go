package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful mutations.
// Routes are matched on their registered pattern, not the raw URL.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath())
		if action == "" {
			return
		}

		resourceID := c.Param("member_id")
		if id := c.GetString(CtxResourceID); id != "" {
			resourceID = id
		}

		fields := map[string]interface{}{
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"request_id": c.GetString(CtxRequestID),
			"replayed":   c.Writer.Header().Get("Idempotent-Replayed") == "true",
		}
		// Operator overrides (reopen, unfreeze) record why they were made.
		if reason := c.GetString(CtxReason); reason != "" {
			fields["reason"] = reason
		}
		details, _ := json.Marshal(fields)

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Actor:        Subject(c),
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

func mapRouteToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/api/v1/payments":
		return domain.AuditActionPayment, "payment"
	case "/api/v1/wallets/:member_id/fund":
		return domain.AuditActionFund, "wallet"
	case "/api/v1/wallets/:member_id/reconcile":
		return domain.AuditActionReconcile, "wallet"
	case "/api/v1/wallets/:member_id/unfreeze":
		return domain.AuditActionUnfreeze, "wallet"
	case "/api/v1/settlements", "/api/v1/settlements/batch":
		return domain.AuditActionSettlementCompute, "settlement"
	case "/api/v1/settlements/reopen":
		return domain.AuditActionSettlementReopen, "settlement"
	case "/api/v1/pool/distributions":
		return domain.AuditActionPoolDistribute, "pool"
	}
	return "", ""
}
