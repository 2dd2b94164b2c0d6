package handler

import (
	"github.com/shopspring/decimal"
)

// Request headers understood by the wallet endpoints
const (
	// IdempotencyKeyHeader supplies the idempotency token when the body omits transaction_id
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader is set to "true" when a withdrawal was already applied
	ReplayedHeader = "Idempotent-Replayed"
)

// OpenWalletRequest opens a wallet with a starting balance
// @Description Open wallet request
type OpenWalletRequest struct {
	InitialBalance decimal.Decimal `json:"initial_balance" binding:"money" swaggertype:"string" example:"100.00"`
}

// WithdrawRequest withdraws an amount under an idempotency token.
// TransactionID may be left empty when the Idempotency-Key header is sent.
// @Description Withdraw request
type WithdrawRequest struct {
	TransactionID string          `json:"transaction_id" binding:"omitempty,max=100" example:"8d7c1f0e-order-1234"`
	Amount        decimal.Decimal `json:"amount" binding:"money" swaggertype:"string" example:"40.00"`
}
