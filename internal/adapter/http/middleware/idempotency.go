package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/homeledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a replayed response.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
)

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key, so a retried POST does not record twice.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A
// non-positive ttl uses usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}

	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Keys are scoped to the route they were used on.
		key = r.Method + " " + r.URL.Path + " " + key
		logger := zerolog.Ctx(r.Context())

		stored, claimed, err := m.store.Reserve(r.Context(), key, m.ttl)
		if err != nil {
			logger.Error().Err(err).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if !claimed {
			if stored == nil {
				writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
				return
			}

			replay(w, stored)
			return
		}

		ctx := context.WithoutCancel(r.Context())

		defer func() {
			if p := recover(); p != nil {
				m.release(ctx, key, logger)
				panic(p)
			}
		}()

		rec := &bodyRecorder{statusRecorder: newStatusRecorder(w)}
		next.ServeHTTP(rec, r)

		if retryable(rec.statusCode) {
			m.release(ctx, key, logger)
			return
		}

		err = m.store.Complete(ctx, key, usecase.IdempotentResponse{
			StatusCode:  rec.statusCode,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		}, m.ttl)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to store idempotent response")
		}
	})
}

func (m *IdempotencyMiddleware) release(ctx context.Context, key string, logger *zerolog.Logger) {
	if err := m.store.Release(ctx, key); err != nil {
		logger.Warn().Err(err).Msg("failed to release idempotency key")
	}
}

// retryable reports whether a failed response left nothing behind, so the
// key may be used again. Client errors and an unavailable store qualify.
// Other server errors, a partial write among them, keep their response.
func retryable(status int) bool {
	if status >= 200 && status < 300 {
		return false
	}

	return status < http.StatusInternalServerError || status == http.StatusServiceUnavailable
}

func replay(w http.ResponseWriter, stored *usecase.IdempotentResponse) {
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(IdempotencyReplayHeader, "true")

	status := stored.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(stored.Body)
}
