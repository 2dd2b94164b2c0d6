package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallet/withdrawal/internal/domain/shared/valueobject"
	"github.com/wallet/withdrawal/internal/domain/wallet"
)

func TestWalletEventSerializer_RoundTrip(t *testing.T) {
	s := NewWalletEventSerializer()
	assert.Equal(t, []string{wallet.EventTypeAccountOpened, wallet.EventTypeWithdrawalCompleted}, s.RegisteredTypes())

	entry := wallet.NewLedgerEntry(uuid.New(), "tok-1",
		valueobject.MustNewMoneyFromString("40.00"),
		valueobject.MustNewMoneyFromString("60.00"))
	original := wallet.NewWithdrawalCompletedEvent(entry)

	data, err := s.Serialize(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":"40.00"`)
	assert.Contains(t, string(data), `"type":"WithdrawalCompleted"`)

	decoded, err := s.Deserialize(wallet.EventTypeWithdrawalCompleted, data)
	require.NoError(t, err)

	got, ok := decoded.(*wallet.WithdrawalCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), got.EventID())
	assert.Equal(t, entry.AccountID, got.AggregateID())
	assert.Equal(t, "tok-1", got.IdempotencyToken)
	assert.True(t, got.Amount.Equals(entry.Amount))
	assert.True(t, got.BalanceAfter.Equals(entry.BalanceAfter))
	assert.True(t, original.OccurredAt().Equal(got.OccurredAt()))
}

func TestEventSerializer_Errors(t *testing.T) {
	s := NewEventSerializer()

	_, err := s.Deserialize("Nope", []byte(`{}`))
	assert.ErrorContains(t, err, "unknown event type")

	s.Register("TestEvent", &testEvent{})
	_, err = s.Deserialize("TestEvent", []byte(`{not json`))
	assert.ErrorContains(t, err, "failed to unmarshal event")
}
