package wallet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/wallet"
	"github.com/wallet/withdrawal/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CodeStatementsDisabled is returned when no statement archive is configured
const CodeStatementsDisabled = "STATEMENTS_DISABLED"

// ErrStatementsDisabled is returned by Export when object storage is off
var ErrStatementsDisabled = shared.NewDomainError(CodeStatementsDisabled, "statement export is not configured")

// StatementArchive stores rendered statements and signs download links
type StatementArchive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

var statementHeader = []string{"entry_id", "idempotency_token", "amount", "balance_after", "created_at"}

// StatementService exports an account's full ledger as CSV
type StatementService struct {
	accounts wallet.AccountRepository
	ledger   wallet.LedgerRepository
	archive  StatementArchive
	expiry   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatementService creates a StatementService. A nil archive disables
// exports. A non-positive expiry defers to the archive default.
func NewStatementService(
	accounts wallet.AccountRepository,
	ledger wallet.LedgerRepository,
	archive StatementArchive,
	expiry time.Duration,
	logger *zap.Logger,
) *StatementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatementService{
		accounts: accounts,
		ledger:   ledger,
		archive:  archive,
		expiry:   expiry,
		logger:   logger,
		now:      shared.Now,
	}
}

// Enabled reports whether an archive is configured
func (s *StatementService) Enabled() bool {
	return s.archive != nil
}

// Export renders the statement, uploads it and returns a presigned link
func (s *StatementService) Export(ctx context.Context, accountID uuid.UUID) (*StatementResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "statement", "export")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAccountID, accountID.String())

	if s.archive == nil {
		return nil, ErrStatementsDisabled
	}

	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	entries, err := s.ledger.FindAllByAccount(ctx, accountID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	body, err := renderStatement(entries)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	generatedAt := s.now()
	key := StatementKey(accountID, generatedAt)
	if err := s.archive.Put(ctx, key, body, "text/csv"); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to archive statement: %w", err)
	}

	url, expiresAt, err := s.archive.PresignGet(ctx, key, s.expiry)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to sign statement url: %w", err)
	}

	s.logger.Info("Statement exported",
		zap.String("account_id", accountID.String()),
		zap.String("key", key),
		zap.Int("entries", len(entries)),
	)

	return &StatementResult{
		AccountID:   accountID,
		Key:         key,
		URL:         url,
		ExpiresAt:   expiresAt,
		EntryCount:  len(entries),
		GeneratedAt: generatedAt,
	}, nil
}

// StatementKey is the object key of a statement generated at t
func StatementKey(accountID uuid.UUID, t time.Time) string {
	return fmt.Sprintf("statements/%s/%s.csv", accountID, t.UTC().Format("20060102T150405.000000Z"))
}

func renderStatement(entries []wallet.LedgerEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(statementHeader); err != nil {
		return nil, fmt.Errorf("failed to write statement: %w", err)
	}
	for _, e := range entries {
		if err := w.Write([]string{
			e.ID.String(),
			e.IdempotencyToken,
			e.Amount.String(),
			e.BalanceAfter.String(),
			e.CreatedAt.UTC().Format(time.RFC3339Nano),
		}); err != nil {
			return nil, fmt.Errorf("failed to write statement: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write statement: %w", err)
	}
	return buf.Bytes(), nil
}
