package wallet

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/shared/valueobject"
)

func money(s string) valueobject.Money {
	return valueobject.MustNewMoneyFromString(s)
}

func TestNewAccount(t *testing.T) {
	a := NewAccount(money("100"))

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, "100.00", a.Balance.String())
	assert.Equal(t, 1, a.GetVersion())
	require.Len(t, a.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeAccountOpened, a.GetDomainEvents()[0].EventType())
}

func TestRestoreAccount(t *testing.T) {
	id := uuid.New()
	now := shared.Now()
	a := RestoreAccount(id, money("12.50"), 3, now, now)

	assert.Equal(t, id, a.GetID())
	assert.Equal(t, 3, a.GetVersion())
	assert.Empty(t, a.GetDomainEvents())
}

func TestAccount_Withdraw(t *testing.T) {
	t.Run("debits balance and records entry", func(t *testing.T) {
		a := NewAccount(money("100"))
		a.ClearDomainEvents()

		entry, err := a.Withdraw("tx-1", money("60"))
		require.NoError(t, err)

		assert.Equal(t, "40.00", a.Balance.String())
		assert.Equal(t, a.ID, entry.AccountID)
		assert.Equal(t, "tx-1", entry.IdempotencyToken)
		assert.Equal(t, "60.00", entry.Amount.String())
		assert.Equal(t, "40.00", entry.BalanceAfter.String())
		assert.Equal(t, entry.CreatedAt, a.GetUpdatedAt())
		assert.Equal(t, 2, a.GetVersion())

		events := a.GetDomainEvents()
		require.Len(t, events, 1)
		completed, ok := events[0].(*WithdrawalCompletedEvent)
		require.True(t, ok)
		assert.Equal(t, entry.ID, completed.EntryID)
		assert.Equal(t, a.ID, completed.AggregateID())
	})

	t.Run("exact balance empties the account", func(t *testing.T) {
		a := NewAccount(money("40"))
		_, err := a.Withdraw("tx-2", money("40"))
		require.NoError(t, err)
		assert.True(t, a.Balance.IsZero())
	})

	t.Run("insufficient funds leaves state untouched", func(t *testing.T) {
		a := NewAccount(money("40"))
		a.ClearDomainEvents()
		version := a.GetVersion()

		_, err := a.Withdraw("tx-3", money("50"))
		var insufficient *InsufficientFundsError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, "40.00", insufficient.Current.String())
		assert.Equal(t, "50.00", insufficient.Requested.String())
		assert.Equal(t, CodeInsufficientFunds, insufficient.ErrorCode())

		assert.Equal(t, "40.00", a.Balance.String())
		assert.Equal(t, version, a.GetVersion())
		assert.Empty(t, a.GetDomainEvents())
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		a := NewAccount(money("40"))
		_, err := a.Withdraw("tx-4", valueobject.Zero())
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		a := NewAccount(money("40"))
		_, err := a.Withdraw("  ", money("1"))
		assert.True(t, shared.IsValidationError(err))
	})
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"simple", "tx-1", false},
		{"max length", strings.Repeat("a", MaxTokenLength), false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", MaxTokenLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToken(tt.token)
			if tt.wantErr {
				assert.True(t, shared.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	id := uuid.New()
	notFound := &AccountNotFoundError{AccountID: id}

	assert.ErrorIs(t, notFound, shared.ErrNotFound)
	assert.True(t, IsAccountNotFound(notFound))
	assert.Equal(t, id.String(), notFound.ErrorDetails()["account_id"])
	assert.Contains(t, notFound.Error(), id.String())

	assert.True(t, IsInsufficientFunds(&InsufficientFundsError{AccountID: id}))
	assert.False(t, IsInsufficientFunds(notFound))

	assert.ErrorIs(t, ErrWithdrawalNotFound, shared.NewDomainError(CodeWithdrawalNotFound, "x"))
}
