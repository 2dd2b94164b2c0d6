package handler

import (
	"github.com/gin-gonic/gin"
	appwallet "github.com/wallet/withdrawal/internal/application/wallet"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/infrastructure/logger"
	"github.com/wallet/withdrawal/internal/interfaces/http/middleware"
)

// WalletHandler serves the wallet endpoints
type WalletHandler struct {
	BaseHandler
	withdrawals *appwallet.WithdrawalService
	statements  *appwallet.StatementService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(withdrawals *appwallet.WithdrawalService, statements *appwallet.StatementService) *WalletHandler {
	return &WalletHandler{
		withdrawals: withdrawals,
		statements:  statements,
	}
}

// OpenWallet godoc
// @ID           openWallet
// @Summary      Open a wallet
// @Description  Create a wallet holding the given initial balance
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request body OpenWalletRequest true "Initial balance"
// @Success      201 {object} APIResponse[appwallet.AccountResult]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /wallets [post]
func (h *WalletHandler) OpenWallet(c *gin.Context) {
	var req OpenWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.withdrawals.OpenAccount(c.Request.Context(), appwallet.OpenAccountCommand{
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Withdraw godoc
// @ID           withdrawFromWallet
// @Summary      Withdraw funds
// @Description  Debit the wallet exactly once per transaction_id. Repeating a
// @Description  transaction_id returns the recorded result with 200 and the
// @Description  Idempotent-Replayed header; a new withdrawal returns 201.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        id path string true "Wallet ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency token, used when transaction_id is omitted"
// @Param        request body WithdrawRequest true "Withdrawal"
// @Success      200 {object} APIResponse[appwallet.WithdrawalResult] "Replayed"
// @Success      201 {object} APIResponse[appwallet.WithdrawalResult] "Applied"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Lock contention, retry with the same transaction_id"
// @Failure      422 {object} ErrorResponse "Insufficient funds"
// @Failure      500 {object} ErrorResponse
// @Router       /wallets/{id}/withdraw [post]
func (h *WalletHandler) Withdraw(c *gin.Context) {
	accountID, err := parseUUIDParam(c, "id", "wallet_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	token, err := resolveToken(req.TransactionID, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	ctx, _ := logger.WithAccountID(c.Request.Context(), logger.GetGinLogger(c), accountID.String())
	result, err := h.withdrawals.Withdraw(ctx, appwallet.WithdrawCommand{
		AccountID:        accountID,
		IdempotencyToken: token,
		Amount:           req.Amount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Replayed {
		c.Header(ReplayedHeader, "true")
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// resolveToken picks the idempotency token from the body or the header.
// Both may be sent only if they agree.
func resolveToken(body, header string) (string, error) {
	switch {
	case body == "":
		return header, nil
	case header == "" || header == body:
		return body, nil
	default:
		return "", shared.NewValidationError("transaction_id", "does not match the Idempotency-Key header")
	}
}

// GetBalance godoc
// @ID           getWalletBalance
// @Summary      Get wallet balance
// @Tags         wallets
// @Produce      json
// @Param        id path string true "Wallet ID" format(uuid)
// @Success      200 {object} APIResponse[appwallet.BalanceResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /wallets/{id}/balance [get]
func (h *WalletHandler) GetBalance(c *gin.Context) {
	accountID, err := parseUUIDParam(c, "id", "wallet_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.withdrawals.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListWithdrawals godoc
// @ID           listWalletWithdrawals
// @Summary      List withdrawals
// @Description  Applied withdrawals of a wallet, newest first
// @Tags         wallets
// @Produce      json
// @Param        id path string true "Wallet ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appwallet.WithdrawalResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /wallets/{id}/withdrawals [get]
func (h *WalletHandler) ListWithdrawals(c *gin.Context) {
	accountID, err := parseUUIDParam(c, "id", "wallet_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.withdrawals.ListWithdrawals(c.Request.Context(), accountID, page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetWithdrawal godoc
// @ID           getWithdrawal
// @Summary      Look up a withdrawal
// @Description  Find an applied withdrawal by its transaction_id
// @Tags         withdrawals
// @Produce      json
// @Param        transaction_id path string true "Idempotency token"
// @Success      200 {object} APIResponse[appwallet.WithdrawalResult]
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /withdrawals/{transaction_id} [get]
func (h *WalletHandler) GetWithdrawal(c *gin.Context) {
	result, err := h.withdrawals.GetWithdrawal(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ExportStatement godoc
// @ID           exportWalletStatement
// @Summary      Export a statement
// @Description  Write the wallet's withdrawals as CSV to object storage and
// @Description  return a presigned download URL
// @Tags         wallets
// @Produce      json
// @Param        id path string true "Wallet ID" format(uuid)
// @Success      201 {object} APIResponse[appwallet.StatementResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse "Statement storage not configured"
// @Failure      500 {object} ErrorResponse
// @Router       /wallets/{id}/statements [post]
func (h *WalletHandler) ExportStatement(c *gin.Context) {
	accountID, err := parseUUIDParam(c, "id", "wallet_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.statements.Export(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
