package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/josh-kwaku/ledger-engine/internal/handler"
	"github.com/josh-kwaku/ledger-engine/internal/logging"
)

type recoveryDetails struct {
	RequestID string `json:"request_id"`
}

// Recovery turns a handler panic into INTERNAL_ERROR carrying the request ID.
// A panic inside a ledger write happens before commit or after it; the
// request ID and Idempotency-Key in the log are what an operator uses to
// tell which. http.ErrAbortHandler is re-raised for net/http to handle.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rv := recover()
			if rv == nil {
				return
			}
			if err, ok := rv.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rv)
			}

			requestID := TraceIDFromContext(r.Context())
			if requestID == "" {
				requestID = w.Header().Get(traceIDHeader)
			}
			log := logging.FromContext(r.Context())
			log.Error("panic recovered",
				"error", rv,
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"idempotency_key", r.Header.Get(idempotencyKeyHeader),
				"stack", string(debug.Stack()),
			)
			handler.RespondAppError(w, handler.ErrInternalError, recoveryDetails{RequestID: requestID})
		}()
		next.ServeHTTP(w, r)
	})
}
