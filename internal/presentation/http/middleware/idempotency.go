package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader carries the client's dedup token. Office double
	// clicks and driver-app retries replay the stored response instead of
	// creating a second invoice or payment.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long a stored key keeps replaying
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger *zap.Logger
}

// responseRecorder wraps gin.ResponseWriter to capture the response body so
// it can be stored against the key and replayed later.
type responseRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// keyOwner resolves the authenticated user the key is scoped to. Keys are
// per-user so two clerks submitting the same client-generated key never
// collide.
func keyOwner(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := val.(uuid.UUID)
	return userID, ok
}

// replayOrRecord replays the stored response for a seen key, or records the
// outcome of this request against it. Only 2xx responses are stored; a failed
// submission may be retried with the same key.
func replayOrRecord(c *gin.Context, config IdempotencyConfig, key string, userID uuid.UUID) {
	existing, err := config.Repo.GetByKey(c.Request.Context(), key, userID)
	if err != nil {
		c.Next()
		return
	}

	if existing != nil && !existing.IsExpired() {
		c.Header("X-Idempotency-Replayed", "true")
		c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
		c.Abort()
		return
	}

	recorder := &responseRecorder{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
	c.Writer = recorder

	c.Next()

	status := c.Writer.Status()
	if status < 200 || status >= 300 {
		return
	}

	// The response already went out; a failed store only costs replay
	// protection for this key, but it must not fail silently.
	if err := config.Repo.Create(c.Request.Context(), &entity.IdempotencyKey{
		Key:          key,
		UserID:       userID,
		Endpoint:     c.Request.Method + " " + c.FullPath(),
		ResponseCode: status,
		ResponseBody: recorder.body.String(),
		ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
	}); err != nil && config.Logger != nil {
		config.Logger.Warn("failed to store idempotency key",
			zap.String("key", key),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

// Idempotency deduplicates submissions when the client sends an
// Idempotency-Key header. Requests without the header pass through.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, ok := keyOwner(c)
		if !ok {
			c.Next()
			return
		}

		replayOrRecord(c, config, key, userID)
	}
}

// IdempotencyRequired rejects requests that omit the Idempotency-Key header.
// Used where a duplicate would create a second ledger document.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Idempotency-Key header is required for this request",
			})
			c.Abort()
			return
		}

		userID, ok := keyOwner(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "User not authenticated",
			})
			c.Abort()
			return
		}

		replayOrRecord(c, config, key, userID)
	}
}
