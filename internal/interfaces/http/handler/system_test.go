package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := NewSystemHandler("wallet", "1.0.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"lock":     func(context.Context) error { return nil },
		})
		c, w := newContext(t)
		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, map[string]string{"database": "ok", "lock": "ok"}, resp.Checks)
	})

	t.Run("one failing check", func(t *testing.T) {
		h := NewSystemHandler("wallet", "1.0.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"lock":     func(context.Context) error { return errors.New("dial tcp: refused") },
		})
		c, w := newContext(t)
		h.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "error", resp.Checks["lock"])
		assert.NotContains(t, w.Body.String(), "refused")
	})

	t.Run("checks are bounded by a timeout", func(t *testing.T) {
		h := NewSystemHandler("wallet", "1.0.0", map[string]HealthCheck{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		})
		h.timeout = 10 * time.Millisecond
		c, w := newContext(t)
		h.Health(c)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("wallet", "1.2.3", nil)
	c, w := newContext(t)
	h.GetSystemInfo(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	info := resp.Data.(map[string]any)
	assert.Equal(t, "wallet", info["name"])
	assert.Equal(t, "1.2.3", info["version"])
	assert.NotEmpty(t, info["go_version"])
}
