package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/homeledger/internal/usecase"
)

type fakeIdempotencyStore struct {
	reserveFn  func(ctx context.Context, key string, ttl time.Duration) (*usecase.IdempotentResponse, bool, error)
	completeFn func(ctx context.Context, key string, resp usecase.IdempotentResponse, ttl time.Duration) error
	releaseFn  func(ctx context.Context, key string) error
}

func (f *fakeIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (*usecase.IdempotentResponse, bool, error) {
	if f.reserveFn != nil {
		return f.reserveFn(ctx, key, ttl)
	}
	return nil, true, nil
}

func (f *fakeIdempotencyStore) Complete(ctx context.Context, key string, resp usecase.IdempotentResponse, ttl time.Duration) error {
	if f.completeFn != nil {
		return f.completeFn(ctx, key, resp, ttl)
	}
	return nil
}

func (f *fakeIdempotencyStore) Release(ctx context.Context, key string) error {
	if f.releaseFn != nil {
		return f.releaseFn(ctx, key)
	}
	return nil
}

func postWithKey(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, key)
	return req
}

func TestIdempotencyMiddleware_StoreErrorFailsRequest(t *testing.T) {
	var called bool
	store := &fakeIdempotencyStore{
		reserveFn: func(ctx context.Context, key string, ttl time.Duration) (*usecase.IdempotentResponse, bool, error) {
			return nil, false, context.DeadlineExceeded
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, postWithKey("key-err"))

	if called {
		t.Fatalf("handler should not be called when store errors")
	}

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_ReleasesFailedResponses(t *testing.T) {
	var completed, released bool
	store := &fakeIdempotencyStore{
		completeFn: func(ctx context.Context, key string, resp usecase.IdempotentResponse, ttl time.Duration) error {
			completed = true
			return nil
		},
		releaseFn: func(ctx context.Context, key string) error {
			released = true
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})).ServeHTTP(rr, postWithKey("key-fail"))

	if completed {
		t.Fatalf("expected error responses not to be stored")
	}
	if !released {
		t.Fatalf("expected key to be released after failure")
	}
}

func TestIdempotencyMiddleware_SkipsNonMutatingRequests(t *testing.T) {
	store := &fakeIdempotencyStore{
		reserveFn: func(ctx context.Context, key string, ttl time.Duration) (*usecase.IdempotentResponse, bool, error) {
			t.Fatalf("store should not be consulted for GET")
			return nil, false, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set(IdempotencyKeyHeader, "key")
	rr := httptest.NewRecorder()

	called := false
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if !called {
		t.Fatalf("expected next handler to be called")
	}
}

func TestIdempotencyMiddleware_ReplaysStoredResponse(t *testing.T) {
	store := &fakeIdempotencyStore{
		reserveFn: func(ctx context.Context, key string, ttl time.Duration) (*usecase.IdempotentResponse, bool, error) {
			return &usecase.IdempotentResponse{
				StatusCode:  http.StatusCreated,
				ContentType: "application/json",
				Body:        []byte(`{"id":"tx-1"}`),
			}, false, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called when a stored response exists")
	})).ServeHTTP(rr, postWithKey("key-123"))

	if rr.Header().Get(IdempotencyReplayHeader) != "true" {
		t.Fatalf("expected replay header to be set")
	}
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected original status 201, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != `{"id":"tx-1"}` {
		t.Fatalf("unexpected replayed body: %s", got)
	}
}

func TestIdempotencyMiddleware_InFlightConflict(t *testing.T) {
	store := &fakeIdempotencyStore{
		reserveFn: func(ctx context.Context, key string, ttl time.Duration) (*usecase.IdempotentResponse, bool, error) {
			return nil, false, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run while the key is held")
	})).ServeHTTP(rr, postWithKey("busy"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_StoresSuccessfulResponse(t *testing.T) {
	var (
		stored  usecase.IdempotentResponse
		usedKey string
		usedTTL time.Duration
	)
	store := &fakeIdempotencyStore{
		completeFn: func(ctx context.Context, key string, resp usecase.IdempotentResponse, ttl time.Duration) error {
			stored = resp
			usedKey = key
			usedTTL = ttl
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, 0)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})).ServeHTTP(rr, postWithKey("key-456"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}

	if string(stored.Body) != `{"ok":true}` || stored.StatusCode != http.StatusCreated || stored.ContentType != "application/json" {
		t.Fatalf("unexpected stored response %+v", stored)
	}
	if usedKey != "POST /api/v1/transactions key-456" {
		t.Fatalf("expected route scoped key, got %q", usedKey)
	}
	if usedTTL != usecase.IdempotencyKeyTTL {
		t.Fatalf("expected default ttl, got %v", usedTTL)
	}
}

func TestIdempotencyMiddleware_KeepsServerErrors(t *testing.T) {
	var (
		stored   usecase.IdempotentResponse
		released bool
	)
	store := &fakeIdempotencyStore{
		completeFn: func(ctx context.Context, key string, resp usecase.IdempotentResponse, ttl time.Duration) error {
			stored = resp
			return nil
		},
		releaseFn: func(ctx context.Context, key string) error {
			released = true
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"transaction partially written; ledger may be inconsistent"}`))
	})).ServeHTTP(rr, postWithKey("key-partial"))

	if released {
		t.Fatalf("expected key to stay held after a server error")
	}
	if stored.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected the 500 to be stored, got %+v", stored)
	}
}

func TestIdempotencyMiddleware_ReleasesClientErrors(t *testing.T) {
	var completed, released bool
	store := &fakeIdempotencyStore{
		completeFn: func(ctx context.Context, key string, resp usecase.IdempotentResponse, ttl time.Duration) error {
			completed = true
			return nil
		},
		releaseFn: func(ctx context.Context, key string) error {
			released = true
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})).ServeHTTP(rr, postWithKey("key-bad"))

	if completed || !released {
		t.Fatalf("expected client error to release the key, completed=%v released=%v", completed, released)
	}
}

func TestIdempotencyMiddleware_ReleasesOnPanic(t *testing.T) {
	var released string
	store := &fakeIdempotencyStore{
		completeFn: func(ctx context.Context, key string, resp usecase.IdempotentResponse, ttl time.Duration) error {
			t.Fatalf("a panicking request must not be stored")
			return nil
		},
		releaseFn: func(ctx context.Context, key string) error {
			released = key
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	handler := Recovery(mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	handler.ServeHTTP(rr, postWithKey("key-panic"))

	if released != "POST /api/v1/transactions key-panic" {
		t.Fatalf("expected key to be released after panic, got %q", released)
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from recovery, got %d", rr.Code)
	}
}
