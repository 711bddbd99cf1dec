package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func ok(ctx context.Context, c *app.RequestContext) {
	c.String(http.StatusOK, GetRequestID(c))
}

func TestRequestIDMiddleware(t *testing.T) {
	h := server.New()
	h.Use(RequestIDMiddleware())
	h.GET("/ping", ok)

	w := ut.PerformRequest(h.Engine, http.MethodGet, "/ping", nil, ut.Header{Key: "X-Request-ID", Value: "abc-123"})
	resp := w.Result()
	assert.Equal(t, "abc-123", string(resp.Body()))
	assert.Equal(t, "abc-123", string(resp.Header.Peek("X-Request-ID")))

	w = ut.PerformRequest(h.Engine, http.MethodGet, "/ping", nil)
	resp = w.Result()
	generated := string(resp.Header.Peek("X-Request-ID"))
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, string(resp.Body()))
}

func TestRateLimitMiddleware(t *testing.T) {
	h := server.New()
	h.POST("/sessions", RateLimitMiddleware(RateLimitConfig{
		Window:      time.Minute,
		MaxRequests: 2,
		KeyPrefix:   "test:rate",
	}, NewMemoryRateCounter()), ok)

	for i := 0; i < 2; i++ {
		w := ut.PerformRequest(h.Engine, http.MethodPost, "/sessions", nil)
		assert.Equal(t, http.StatusOK, w.Result().StatusCode())
	}

	w := ut.PerformRequest(h.Engine, http.MethodPost, "/sessions", nil)
	resp := w.Result()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode())
	assert.Equal(t, "0", string(resp.Header.Peek("X-RateLimit-Remaining")))

	var body errorBody
	require.NoError(t, json.Unmarshal(resp.Body(), &body))
	assert.Equal(t, "TOO_MANY_REQUESTS", body.Error.Code)
}

func TestMemoryRateCounterWindow(t *testing.T) {
	counter := NewMemoryRateCounter()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := counter.Hit(ctx, "k", 30*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	time.Sleep(50 * time.Millisecond)

	got, err := counter.Hit(ctx, "k", 30*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestRecoverMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		production  bool
		wantDetails bool
	}{
		{name: "development exposes details", production: false, wantDetails: true},
		{name: "production hides details", production: true, wantDetails: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewRecoverConfig()
			cfg.IsProduction = tt.production

			h := server.New()
			h.Use(RecoverMiddlewareWithConfig(cfg))
			h.GET("/boom", func(ctx context.Context, c *app.RequestContext) {
				panic("boom")
			})

			w := ut.PerformRequest(h.Engine, http.MethodGet, "/boom", nil)
			resp := w.Result()
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())

			var body errorBody
			require.NoError(t, json.Unmarshal(resp.Body(), &body))
			assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
			if tt.wantDetails {
				assert.Equal(t, "boom", body.Error.Details["panic"])
			} else {
				assert.Nil(t, body.Error.Details)
				assert.NotContains(t, body.Error.Message, "boom")
			}
		})
	}
}

func TestIsSeverePanic(t *testing.T) {
	assert.True(t, isSeverePanic("runtime error: index out of range [3] with length 2"))
	assert.False(t, isSeverePanic("boom"))
	assert.False(t, isSeverePanic(nil))
}
