package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/ledger-engine/internal/auth"
	"github.com/josh-kwaku/ledger-engine/internal/handler"
	"github.com/josh-kwaku/ledger-engine/internal/repository"
)

const testSecret = "middleware-test-secret"

func okHandler(t *testing.T, wantOwner *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantOwner != nil {
			got, ok := auth.OwnerIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, *wantOwner, got)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestAuth(t *testing.T) {
	owner := uuid.New()
	valid, err := auth.GenerateToken(owner, testSecret, time.Hour)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken(owner, "other-secret", time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateToken(owner, testSecret, -time.Hour)
	require.NoError(t, err)
	noOwner, err := auth.GenerateToken(uuid.Nil, testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"valid token", "Bearer " + valid, http.StatusNoContent, ""},
		{"missing header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"nil owner", "Bearer " + noOwner, http.StatusUnauthorized, "INVALID_OWNER"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/account/balance", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			Auth(testSecret)(okHandler(t, &owner)).ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.code != "" {
				assert.Equal(t, tc.code, errorCode(t, rec))
			}
		})
	}
}

func TestTracing(t *testing.T) {
	var seen string
	h := Tracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(traceIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(traceIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(traceIDHeader))
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, rec))
}

func TestRecovery_ReportsRequestID(t *testing.T) {
	h := Recovery(Tracing(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)
	req.Header.Set(traceIDHeader, "req-panic")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, map[string]any{"request_id": "req-panic"}, resp.Error.Details)
}

func TestRecovery_ReraisesAbortHandler(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLogging_PassesThroughStatus(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func captureDefaultLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogging_RecordsCommittedTransaction(t *testing.T) {
	buf := captureDefaultLog(t)
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(handler.TransactionIDHeader, "TXN-42")
		w.Header().Set(handler.ReferenceHeader, "DEPOSIT-42")
		w.WriteHeader(http.StatusCreated)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil))

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "transaction_id=TXN-42")
	assert.Contains(t, out, "reference=DEPOSIT-42")
}

func TestLogging_LevelByOutcome(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusBadRequest, "level=INFO"},
		{http.StatusConflict, "level=WARN"},
		{http.StatusUnprocessableEntity, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			buf := captureDefaultLog(t)
			h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil))

			assert.Contains(t, buf.String(), tc.level)
			assert.NotContains(t, buf.String(), "transaction_id=")
		})
	}
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*repository.IdempotencyCacheEntry
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*repository.IdempotencyCacheEntry{}}
}

func (m *memoryCache) Get(_ context.Context, key string, ownerID uuid.UUID) (*repository.IdempotencyCacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.entries[key+ownerID.String()], nil
}

func (m *memoryCache) Set(_ context.Context, e *repository.IdempotencyCacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Key+e.OwnerID.String()] = e
	return nil
}

func countingHandler(calls *int, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		body, _ := io.ReadAll(r.Body)
		handler.RespondSuccess(w, status, map[string]any{"call": *calls, "echo": string(body)})
	})
}

func postWithKey(owner uuid.UUID, key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	return req.WithContext(auth.ContextWithOwnerID(req.Context(), owner))
}

func TestIdempotency_ReplaysSameRequest(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	h := Idempotency(cache)(countingHandler(&calls, http.StatusCreated))
	owner := uuid.New()
	body := `{"type":"deposit","amount":"10"}`

	first := httptest.NewRecorder()
	h.ServeHTTP(first, postWithKey(owner, "k1", body))
	require.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, postWithKey(owner, "k1", body))
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	other := httptest.NewRecorder()
	h.ServeHTTP(other, postWithKey(uuid.New(), "k1", body))
	assert.Equal(t, 2, calls, "keys are scoped per owner")
}

func TestIdempotency_ReplayCarriesTransactionID(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	h := Idempotency(cache)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set(handler.TransactionIDHeader, "TXN-7")
		handler.RespondSuccess(w, http.StatusCreated, map[string]any{"call": calls})
	}))
	owner := uuid.New()

	h.ServeHTTP(httptest.NewRecorder(), postWithKey(owner, "k1", `{}`))
	stored := cache.entries["k1"+owner.String()]
	require.NotNil(t, stored)
	assert.Equal(t, "TXN-7", stored.TransactionID)

	replay := httptest.NewRecorder()
	h.ServeHTTP(replay, postWithKey(owner, "k1", `{}`))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "TXN-7", replay.Header().Get(handler.TransactionIDHeader))
}

func TestIdempotency_ConflictOnDifferentBody(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	h := Idempotency(cache)(countingHandler(&calls, http.StatusCreated))
	owner := uuid.New()

	h.ServeHTTP(httptest.NewRecorder(), postWithKey(owner, "k1", `{"amount":"10"}`))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postWithKey(owner, "k1", `{"amount":"11"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "IDEMPOTENCY_CONFLICT", errorCode(t, rec))
	assert.Equal(t, 1, calls)
}

func TestIdempotency_WithoutKeyPassesThrough(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	h := Idempotency(cache)(countingHandler(&calls, http.StatusCreated))
	owner := uuid.New()

	h.ServeHTTP(httptest.NewRecorder(), postWithKey(owner, "", `{}`))
	h.ServeHTTP(httptest.NewRecorder(), postWithKey(owner, "", `{}`))
	assert.Equal(t, 2, calls)
	assert.Empty(t, cache.entries)
}

func TestIdempotency_FailuresAreNotCached(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	h := Idempotency(cache)(countingHandler(&calls, http.StatusUnprocessableEntity))
	owner := uuid.New()

	h.ServeHTTP(httptest.NewRecorder(), postWithKey(owner, "k1", `{}`))
	h.ServeHTTP(httptest.NewRecorder(), postWithKey(owner, "k1", `{}`))
	assert.Equal(t, 2, calls)
	assert.Empty(t, cache.entries)
}

func TestIdempotency_LookupFailure(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("db down")
	calls := 0
	h := Idempotency(cache)(countingHandler(&calls, http.StatusCreated))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postWithKey(uuid.New(), "k1", `{}`))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 0, calls)
}

func TestIdempotency_SkipsReads(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	h := Idempotency(cache)(countingHandler(&calls, http.StatusOK))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	req.Header.Set(idempotencyKeyHeader, "k1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 1, calls)
	assert.Empty(t, cache.entries)
}
