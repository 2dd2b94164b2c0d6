package event

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallet/withdrawal/internal/domain/shared"
)

func TestGormOutboxRepository_SaveAndFindPending(t *testing.T) {
	repo := NewGormOutboxRepository(newOutboxDB(t))
	ctx := context.Background()

	first := newPendingEntry(t, "First")
	second := newPendingEntry(t, "Second")
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	require.NoError(t, repo.Save(ctx))
	require.NoError(t, repo.Save(ctx, second, first))

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
	assert.Equal(t, first.EventID, pending[0].EventID)
	assert.Equal(t, first.Payload, pending[0].Payload)
	assert.Equal(t, shared.OutboxStatusPending, pending[0].Status)

	limited, err := repo.FindPending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGormOutboxRepository_SaveRejectsDuplicateEventID(t *testing.T) {
	repo := NewGormOutboxRepository(newOutboxDB(t))
	ctx := context.Background()

	entry := newPendingEntry(t, "E")
	require.NoError(t, repo.Save(ctx, entry))

	dup := *entry
	dup.ID = uuid.New()
	assert.Error(t, repo.Save(ctx, &dup))
}

func TestGormOutboxRepository_MarkProcessing(t *testing.T) {
	repo := NewGormOutboxRepository(newOutboxDB(t))
	ctx := context.Background()

	a := newPendingEntry(t, "A")
	b := newPendingEntry(t, "B")
	require.NoError(t, repo.Save(ctx, a, b))

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	for _, e := range claimed {
		assert.Equal(t, shared.OutboxStatusProcessing, e.Status)
	}

	again, err := repo.MarkProcessing(ctx, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Empty(t, again, "entries already claimed are not claimed twice")

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	none, err := repo.MarkProcessing(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestGormOutboxRepository_FindRetryable(t *testing.T) {
	repo := NewGormOutboxRepository(newOutboxDB(t))
	ctx := context.Background()

	due := newPendingEntry(t, "Due")
	later := newPendingEntry(t, "Later")
	require.NoError(t, repo.Save(ctx, due, later))

	due.MarkFailed("broker down")
	past := shared.Now().Add(-time.Minute)
	due.NextRetryAt = &past
	require.NoError(t, repo.Update(ctx, due))

	later.MarkFailed("broker down")
	future := shared.Now().Add(time.Hour)
	later.NextRetryAt = &future
	require.NoError(t, repo.Update(ctx, later))

	retryable, err := repo.FindRetryable(ctx, shared.Now(), 10)
	require.NoError(t, err)
	require.Len(t, retryable, 1)
	assert.Equal(t, due.ID, retryable[0].ID)
	assert.Equal(t, 1, retryable[0].RetryCount)
	assert.Equal(t, "broker down", retryable[0].LastError)
}

func TestGormOutboxRepository_DeleteSentBeforeAndCount(t *testing.T) {
	repo := NewGormOutboxRepository(newOutboxDB(t))
	ctx := context.Background()

	old := newPendingEntry(t, "Old")
	recent := newPendingEntry(t, "Recent")
	waiting := newPendingEntry(t, "Waiting")
	require.NoError(t, repo.Save(ctx, old, recent, waiting))

	old.MarkSent()
	oldTime := shared.Now().Add(-48 * time.Hour)
	old.ProcessedAt = &oldTime
	require.NoError(t, repo.Update(ctx, old))

	recent.MarkSent()
	require.NoError(t, repo.Update(ctx, recent))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[shared.OutboxStatusSent])
	assert.Equal(t, int64(1), counts[shared.OutboxStatusPending])

	deleted, err := repo.DeleteSentBefore(ctx, shared.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	counts, err = repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusSent])
}

func TestGormOutboxRepository_FindDeadAndFindByID(t *testing.T) {
	repo := NewGormOutboxRepository(newOutboxDB(t))
	ctx := context.Background()

	dead := newPendingEntry(t, "Dead")
	dead.MaxRetries = 1
	alive := newPendingEntry(t, "Alive")
	require.NoError(t, repo.Save(ctx, dead, alive))

	dead.MarkFailed("poison")
	require.True(t, dead.IsDead())
	require.NoError(t, repo.Update(ctx, dead))

	entries, total, err := repo.FindDead(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, dead.ID, entries[0].ID)
	assert.Equal(t, "poison", entries[0].LastError)

	found, err := repo.FindByID(ctx, alive.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, shared.OutboxStatusPending, found.Status)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGormOutboxRepository_MarkProcessingSkipsLockedRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	entry := newPendingEntry(t, "E")

	rows := sqlmock.NewRows([]string{
		"id", "event_id", "event_type", "aggregate_id", "aggregate_type", "payload",
		"status", "retry_count", "max_retries", "last_error", "next_retry_at",
		"processed_at", "created_at", "updated_at",
	}).AddRow(
		entry.ID, entry.EventID, entry.EventType, entry.AggregateID, entry.AggregateType, entry.Payload,
		"PENDING", 0, 5, "", nil, nil, entry.CreatedAt, entry.UpdatedAt,
	)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE SKIP LOCKED`)).WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "outbox_events" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	claimed, err := repo.MarkProcessing(context.Background(), []uuid.UUID{entry.ID})

	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, shared.OutboxStatusProcessing, claimed[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
