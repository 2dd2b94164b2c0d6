package wallet

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallet/withdrawal/internal/domain/wallet"
	"github.com/wallet/withdrawal/internal/infrastructure/persistence"
	"github.com/wallet/withdrawal/internal/infrastructure/storage"
	"go.uber.org/zap/zaptest"
)

type failingArchive struct{}

func (failingArchive) Put(context.Context, string, []byte, string) error {
	return errors.New("bucket unavailable")
}

func (failingArchive) PresignGet(context.Context, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, errors.New("unreachable")
}

func newStatementService(t *testing.T, h *harness, archive StatementArchive) *StatementService {
	t.Helper()
	return NewStatementService(
		persistence.NewGormAccountRepository(h.db),
		persistence.NewGormLedgerRepository(h.db),
		archive,
		5*time.Minute,
		zaptest.NewLogger(t),
	)
}

func TestStatementService_Export(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	id := h.open(t, "100.00")
	for _, tok := range []string{"s-1", "s-2"} {
		_, err := h.service.Withdraw(ctx, withdrawCmd(id, tok, "12.50"))
		require.NoError(t, err)
	}

	archive := storage.NewMemoryStatementArchive()
	svc := newStatementService(t, h, archive)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	res, err := svc.Export(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatementKey(id, fixed), res.Key)
	assert.True(t, strings.HasPrefix(res.Key, "statements/"+id.String()+"/"))
	assert.Equal(t, 2, res.EntryCount)
	assert.NotEmpty(t, res.URL)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	body, contentType, ok := archive.Get(res.Key)
	require.True(t, ok)
	assert.Equal(t, "text/csv", contentType)

	rows, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, statementHeader, rows[0])
	assert.Equal(t, "s-1", rows[1][1])
	assert.Equal(t, "12.50", rows[1][2])
	assert.Equal(t, "87.50", rows[1][3])
	assert.Equal(t, "75.00", rows[2][3])
}

func TestStatementService_Errors(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	t.Run("disabled without archive", func(t *testing.T) {
		svc := newStatementService(t, h, nil)
		assert.False(t, svc.Enabled())
		_, err := svc.Export(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrStatementsDisabled)
	})

	t.Run("unknown account", func(t *testing.T) {
		svc := newStatementService(t, h, storage.NewMemoryStatementArchive())
		_, err := svc.Export(ctx, uuid.New())
		assert.True(t, wallet.IsAccountNotFound(err))
	})

	t.Run("archive failure is wrapped", func(t *testing.T) {
		id := h.open(t, "1.00")
		svc := newStatementService(t, h, failingArchive{})
		_, err := svc.Export(ctx, id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to archive statement")
	})
}
