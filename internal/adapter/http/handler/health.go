package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"venue-settlement-engine/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

type dependencyStatus struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthCheck handles GET /health. Every checker is probed in parallel under
// one shared deadline; any failure degrades the engine to 503.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		var (
			mu   sync.Mutex
			wg   sync.WaitGroup
			deps = make(map[string]dependencyStatus, len(checkers))
		)
		for _, checker := range checkers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				start := time.Now()
				err := checker.Ping(ctx)
				st := dependencyStatus{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
				if err != nil {
					st.Status, st.Error = "unhealthy", err.Error()
				}
				mu.Lock()
				deps[checker.Name()] = st
				mu.Unlock()
			}()
		}
		wg.Wait()

		status, code := "healthy", http.StatusOK
		for _, st := range deps {
			if st.Status != "healthy" {
				status, code = "degraded", http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(code, gin.H{
			"status":       status,
			"dependencies": deps,
			"checked_at":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
