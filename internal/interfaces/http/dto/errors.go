package dto

import (
	"net/http"

	appevent "github.com/wallet/withdrawal/internal/application/event"
	appwallet "github.com/wallet/withdrawal/internal/application/wallet"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/wallet"
)

// Transport-level error codes. Domain codes are passed through to clients
// unchanged, these cover failures that happen before a use case runs.
const (
	CodeInternal        = "INTERNAL_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
	CodeRequestTooLarge = "REQUEST_TOO_LARGE"
	CodeForbidden       = "FORBIDDEN"
	CodeRequestTimeout  = "REQUEST_TIMEOUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	CodeInternal:        http.StatusInternalServerError,
	CodeRateLimited:     http.StatusTooManyRequests,
	CodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	CodeForbidden:       http.StatusForbidden,
	CodeRequestTimeout:  http.StatusGatewayTimeout,

	// 400: the request itself is wrong; retrying it unchanged will fail again
	shared.CodeValidation: http.StatusBadRequest,

	// 404
	shared.CodeNotFound:              http.StatusNotFound,
	wallet.CodeAccountNotFound:       http.StatusNotFound,
	wallet.CodeWithdrawalNotFound:    http.StatusNotFound,
	appevent.CodeOutboxEntryNotFound: http.StatusNotFound,

	// 422: well-formed but refused by a business rule
	wallet.CodeInsufficientFunds: http.StatusUnprocessableEntity,

	// 409: contention, safe to retry with the same idempotency token
	shared.CodeLockTimeout:    http.StatusConflict,
	shared.CodeOptimisticLock: http.StatusConflict,
	shared.CodeInvalidState:   http.StatusConflict,

	appwallet.CodeStatementsDisabled: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether a client may repeat the request unchanged
func IsRetryable(code string) bool {
	switch code {
	case shared.CodeLockTimeout, shared.CodeOptimisticLock, CodeRateLimited:
		return true
	default:
		return false
	}
}
