package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/usecase/lock"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/authz"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/lock-ledger/mocks/port/core"
)

const sqliteGenesis = 1_700_000_000

// TestLedgerOnSQLite drives the lock ledger through the SQL unit of work
func TestLedgerOnSQLite(t *testing.T) {
	ctx := context.Background()
	now := uint64(sqliteGenesis)

	timeProvider := core.NewMockTimeProvider(t)
	timeProvider.EXPECT().Now().RunAndReturn(func() time.Time {
		return time.Unix(int64(now), 0)
	}).Maybe()
	timeProvider.EXPECT().Since(mock.Anything).Return(coreport.Duration(0)).Maybe()

	log := logger.NewNoopLogger()
	manager := database.NewTestManager(t, log, timeProvider)
	require.NoError(t, manager.SeedGenesis(ctx, map[entity.Account]*entity.Amount{
		alice: entity.NewAmount(1000),
	}))

	authorizer, err := authz.NewStaticAuthorizer([]string{alice.Hex()})
	require.NoError(t, err)

	escrow := entity.Account{0xe5}
	ledger := lock.NewLedger(manager.CreateUnitOfWork(), authorizer, timeProvider, log, metrics.NewNoopRecorder(), lock.Config{
		EscrowAccount: escrow,
		MaxBatchSize:  10,
	})

	gov, err := entity.ParseReason("GOV")
	require.NoError(t, err)
	vesting, err := entity.ParseReason("VESTING")
	require.NoError(t, err)

	_, err = ledger.Lock(ctx, alice, usecase.LockRequest{Reason: gov, Amount: entity.NewAmount(100), ReleaseTime: now + 10})
	require.NoError(t, err)

	_, err = ledger.Lock(ctx, alice, usecase.LockRequest{Reason: gov, Amount: entity.NewAmount(1), ReleaseTime: now + 10})
	assert.ErrorIs(t, err, errs.ErrAlreadyLocked)

	escrowBalance, err := ledger.EscrowBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100", entity.FormatAmount(escrowBalance))

	t.Run("failed batch rolls back every entry", func(t *testing.T) {
		_, err := ledger.BatchTransferWithLock(ctx, alice, usecase.BatchTransferLockRequest{
			Recipients:   []entity.Account{bob, bob, bob},
			Reasons:      []entity.Reason{gov, vesting, mustHash(t, "OTHER")},
			Amounts:      []*entity.Amount{entity.NewAmount(10), entity.ZeroAmount(), entity.NewAmount(10)},
			ReleaseTimes: []uint64{now + 5, now + 5, now + 5},
		})

		var batchErr *errs.BatchError
		require.ErrorAs(t, err, &batchErr)
		assert.Equal(t, 1, batchErr.Index)
		assert.ErrorIs(t, err, errs.ErrZeroAmount)

		escrowBalance, err := ledger.EscrowBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, "100", entity.FormatAmount(escrowBalance))

		reasons, err := ledger.LockReasons(ctx, bob)
		require.NoError(t, err)
		assert.Empty(t, reasons)
	})

	t.Run("unlock is time gated and idempotent", func(t *testing.T) {
		released, err := ledger.Unlock(ctx, alice, alice)
		require.NoError(t, err)
		assert.True(t, released.IsZero())

		now += 10
		released, err = ledger.Unlock(ctx, alice, alice)
		require.NoError(t, err)
		assert.Equal(t, "100", entity.FormatAmount(released))

		released, err = ledger.Unlock(ctx, alice, alice)
		require.NoError(t, err)
		assert.True(t, released.IsZero())

		total, err := ledger.TotalBalanceOf(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, "1000", entity.FormatAmount(total))

		record, err := ledger.GetLock(ctx, alice, gov)
		require.NoError(t, err)
		assert.True(t, record.Claimed)
		assert.Equal(t, "100", entity.FormatAmount(record.Amount))
	})

	t.Run("events are durable and ordered", func(t *testing.T) {
		events, err := ledger.Events(ctx, alice, 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, entity.EventLocked, events[0].Kind)
		assert.Equal(t, entity.EventUnlocked, events[1].Kind)
		assert.Less(t, events[0].Sequence, events[1].Sequence)
	})

	t.Run("relocking a claimed reason keeps the index", func(t *testing.T) {
		_, err := ledger.Lock(ctx, alice, usecase.LockRequest{Reason: gov, Amount: entity.NewAmount(50), ReleaseTime: now + 100})
		require.NoError(t, err)

		length, err := ledger.GetLockReasonLength(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, 1, length)

		locked, err := ledger.TokensLocked(ctx, alice, gov)
		require.NoError(t, err)
		assert.Equal(t, "50", entity.FormatAmount(locked))
	})
}

func mustHash(t *testing.T, s string) entity.Reason {
	t.Helper()
	r, err := entity.ParseReason(s)
	require.NoError(t, err)
	return r
}
