package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletMetrics(t *testing.T) {
	m := NewWalletMetrics("wallet")

	m.ObserveWithdrawal(OutcomeApplied, 20*time.Millisecond)
	m.ObserveWithdrawal(OutcomeApplied, 30*time.Millisecond)
	m.ObserveWithdrawal(OutcomeReplayed, time.Millisecond)
	m.ObserveLockWait(5 * time.Millisecond)
	m.EventRelayed("WithdrawalCompleted")
	m.EventRelayFailed("WithdrawalCompleted", true)
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/wallets/:id/withdraw", http.StatusCreated, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.withdrawals.WithLabelValues(OutcomeApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.withdrawals.WithLabelValues(OutcomeReplayed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relayed.WithLabelValues("WithdrawalCompleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relayFailures.WithLabelValues("WithdrawalCompleted", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/wallets/:id/withdraw", "201")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.lockWait))
}

func TestWalletMetrics_Handler(t *testing.T) {
	m := NewWalletMetrics("wallet")
	m.ObserveWithdrawal(OutcomeLockTimeout, time.Second)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `wallet_withdrawals_total{outcome="lock_timeout"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
