package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer swaps in a recording tracer provider for the test and
// restores the previous one afterwards.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	return sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func newTracedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	for _, h := range handlers {
		router.Use(h)
	}
	router.GET("/api/v1/productos/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestTracing_CreatesSpanPerRequest(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracedRouter(Tracing())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/productos/42", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/productos/:id")
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracedRouter(TracingWithConfig(TracingConfig{Enabled: false}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/productos/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_EnrichesSpanAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	tenantID := "550e8400-e29b-41d4-a716-446655440000"
	claims := func(c *gin.Context) {
		c.Set(JWTUserIDKey, "user-9")
		c.Set(JWTTenantIDKey, tenantID)
		c.Next()
	}
	router := newTracedRouter(RequestID(), claims, Tracing())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/productos/42", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)

	v, ok := spanAttr(spans[0], "tenant_id")
	require.True(t, ok)
	assert.Equal(t, tenantID, v.AsString())

	v, ok = spanAttr(spans[0], "user_id")
	require.True(t, ok)
	assert.Equal(t, "user-9", v.AsString())

	_, ok = spanAttr(spans[0], "request_id")
	assert.True(t, ok)
}

func TestGetRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("prefers the context value", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.Header.Set("X-Request-ID", "from-header")
		c.Set("request_id", "from-context")

		assert.Equal(t, "from-context", getRequestID(c))
	})

	t.Run("falls back to the header, truncated", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.Header.Set("X-Request-ID", strings.Repeat("a", 500))

		assert.Len(t, getRequestID(c), MaxRequestIDLength)
	})
}

func TestGetTenantID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	validUUID := "550e8400-e29b-41d4-a716-446655440000"

	t.Run("prefers the JWT claim", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.Header.Set("X-Tenant-ID", validUUID)
		c.Set(JWTTenantIDKey, "claim-tenant")

		assert.Equal(t, "claim-tenant", getTenantID(c))
	})

	t.Run("accepts a UUID header without claims", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.Header.Set("X-Tenant-ID", validUUID)

		assert.Equal(t, validUUID, getTenantID(c))
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.Header.Set("X-Tenant-ID", "not-a-uuid'; DROP TABLE ventas;")

		assert.Empty(t, getTenantID(c))
	})
}

func TestGetUserID_Empty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	assert.Empty(t, getUserID(c))
}

func TestSpanErrorMarker(t *testing.T) {
	newRouter := func(status int) *gin.Engine {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(Tracing())
		router.Use(SpanErrorMarker())
		router.GET("/ventas", func(c *gin.Context) {
			c.Status(status)
		})
		return router
	}

	t.Run("marks 5xx as error", func(t *testing.T) {
		sr := setupTestTracer(t)
		router := newRouter(http.StatusInternalServerError)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ventas", nil))

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "Internal Server Error", spans[0].Status().Description)
	})

	t.Run("marks 404 as error", func(t *testing.T) {
		sr := setupTestTracer(t)
		router := newRouter(http.StatusNotFound)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ventas", nil))

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "Not Found", spans[0].Status().Description)
	})

	t.Run("leaves 2xx alone", func(t *testing.T) {
		sr := setupTestTracer(t)
		router := newRouter(http.StatusOK)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ventas", nil))

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	})
}

func TestIsValidTenantID(t *testing.T) {
	assert.True(t, isValidTenantID("550e8400-e29b-41d4-a716-446655440000"))
	assert.False(t, isValidTenantID("ferreteria-central"))
	assert.False(t, isValidTenantID(strings.Repeat("a", MaxTenantIDLength+1)))
	assert.False(t, isValidTenantID(""))
}
