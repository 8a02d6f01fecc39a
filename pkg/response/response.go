package response

import (
	"context"
	"errors"
	"net/http"
	"time"

	"venue-settlement-engine/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderReplayed marks a 200 that returned the stored result of an
// already-applied idempotency key.
const HeaderReplayed = "Idempotent-Replayed"

// retryAfterSeconds is advertised on retryable errors that did not set their
// own Retry-After, such as ledger contention.
const retryAfterSeconds = "1"

type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable"`
	RequestID string         `json:"request_id"`
	Timestamp string         `json:"timestamp"`
}

func OK(c *gin.Context, data interface{}) {
	success(c, http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	success(c, http.StatusCreated, data)
}

// Applied answers a mutation keyed by an idempotency key: 201 the first time,
// 200 plus HeaderReplayed on every replay.
func Applied(c *gin.Context, replayed bool, data interface{}) {
	if !replayed {
		Created(c, data)
		return
	}
	c.Header(HeaderReplayed, "true")
	OK(c, data)
}

// Error renders err as an ErrorResponse. AppErrors keep their code and status.
// An expired request context becomes a retryable SYS_002 and anything else a
// SYS_000 that leaks no internals.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		appErr = apperror.ErrRequestTimeout(err)
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			ErrorCode: "SYS_000",
			Message:   "Internal server error",
			RequestID: requestID(c),
			Timestamp: stamp(),
		})
		return
	}

	retryable := apperror.IsRetryable(appErr)
	if retryable && c.Writer.Header().Get("Retry-After") == "" {
		c.Header("Retry-After", retryAfterSeconds)
	}
	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
		Retryable: retryable,
		RequestID: requestID(c),
		Timestamp: stamp(),
	})
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: requestID(c),
		Timestamp: stamp(),
	})
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// requestID returns the ID the RequestID middleware stored, minting one for
// handlers exercised without it.
func requestID(c *gin.Context) string {
	if id, ok := c.Get("request_id"); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return uuid.NewString()
}
