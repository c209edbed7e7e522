package swaggerui

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := RecoveryMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "panic while serving request")
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "/panic")
}

func TestRecoveryMiddlewarePassThrough(t *testing.T) {
	h := RecoveryMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(RequestIDFromContext(r.Context())))
	})

	t.Run("generates uuid", func(t *testing.T) {
		h := RequestIDMiddleware(RequestIDConfig{})(echo)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get("X-Request-ID")
		require.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())
	})

	t.Run("ignores incoming by default", func(t *testing.T) {
		h := RequestIDMiddleware(RequestIDConfig{})(echo)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-ID", "client-id")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.NotEqual(t, "client-id", w.Header().Get("X-Request-ID"))
	})

	t.Run("trusts incoming", func(t *testing.T) {
		h := RequestIDMiddleware(RequestIDConfig{TrustIncoming: true})(echo)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-ID", "client-id")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, "client-id", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "client-id", w.Body.String())
	})

	t.Run("custom header and generator", func(t *testing.T) {
		h := RequestIDMiddleware(RequestIDConfig{
			HeaderName:   "X-Trace",
			GenerateFunc: GenerateUUIDv7,
		})(echo)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		parsed, err := uuid.Parse(w.Header().Get("X-Trace"))
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
		assert.Empty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("empty generator result", func(t *testing.T) {
		h := RequestIDMiddleware(RequestIDConfig{
			GenerateFunc: func(*http.Request) string { return "" },
		})(echo)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Empty(t, w.Header().Get("X-Request-ID"))
		assert.Empty(t, w.Body.String())
	})
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(r.Context()))
}

func TestAccessLogMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}),
		RequestIDMiddleware(RequestIDConfig{TrustIncoming: true}),
		AccessLogMiddleware(logger),
	)

	r := httptest.NewRequest(http.MethodPost, "/items", nil)
	r.Header.Set("X-Request-ID", "req-1")
	h.ServeHTTP(httptest.NewRecorder(), r)

	out := buf.String()
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "path=/items")
	assert.Contains(t, out, "status=201")
	assert.Contains(t, out, "bytes=5")
	assert.Contains(t, out, "request_id=req-1")
}

func TestAccessLogMiddlewareImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := AccessLogMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), "status=200")
	assert.Contains(t, buf.String(), "bytes=0")
}
