package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/memory"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore(logger.NewNoopLogger())
	require.NoError(t, store.Credit(context.Background(), alice, entity.NewAmount(1000)))
	return store
}

func balanceOf(t *testing.T, ctx context.Context, store *memory.Store, account entity.Account) string {
	t.Helper()
	balance, err := store.GetBalanceRepository(ctx).BalanceOf(ctx, account)
	require.NoError(t, err)
	return entity.FormatAmount(balance)
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	store := newStore(t)
	reason, err := entity.ParseReason("GOV")
	require.NoError(t, err)

	txCtx, err := store.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.GetBalanceRepository(txCtx).Transfer(txCtx, alice, bob, entity.NewAmount(400)))
	locks := store.GetLockRepository(txCtx)
	require.NoError(t, locks.AppendReason(txCtx, bob, reason))
	record := entity.NewLockRecord(bob, reason)
	record.Open(entity.NewAmount(400), 1_700_000_100, time.Now())
	require.NoError(t, locks.SaveLock(txCtx, record))
	require.NoError(t, store.GetEventRepository(txCtx).Append(txCtx, &entity.LockEvent{
		Kind:    entity.EventLocked,
		Account: bob,
		Reason:  reason,
		Amount:  entity.NewAmount(400),
	}))

	require.NoError(t, store.Rollback(txCtx))

	ctx := context.Background()
	assert.Equal(t, "1000", balanceOf(t, ctx, store, alice))
	assert.Equal(t, "0", balanceOf(t, ctx, store, bob))

	reasons, err := store.GetLockRepository(ctx).ListReasons(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, reasons)

	stored, err := store.GetLockRepository(ctx).GetLock(ctx, bob, reason)
	require.NoError(t, err)
	assert.True(t, stored.IsEmpty())

	events, err := store.GetEventRepository(ctx).ListByAccount(ctx, bob, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_CommitOnlyOnce(t *testing.T) {
	store := newStore(t)

	txCtx, err := store.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, store.GetBalanceRepository(txCtx).Transfer(txCtx, alice, bob, entity.NewAmount(250)))

	require.NoError(t, store.Commit(txCtx))
	assert.Error(t, store.Commit(txCtx))
	assert.NoError(t, store.Rollback(txCtx))

	assert.Equal(t, "250", balanceOf(t, context.Background(), store, bob))

	t.Run("without a unit of work", func(t *testing.T) {
		assert.Error(t, store.Commit(context.Background()))
		assert.Error(t, store.Rollback(context.Background()))
	})
}

func TestStore_ReadsOutsideUnitOfWorkSeeCommittedState(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	txCtx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, store.GetBalanceRepository(txCtx).Transfer(txCtx, alice, bob, entity.NewAmount(400)))

	assert.Equal(t, "600", balanceOf(t, txCtx, store, alice))
	assert.Equal(t, "1000", balanceOf(t, ctx, store, alice))
	assert.Equal(t, "0", balanceOf(t, ctx, store, bob))

	require.NoError(t, store.Commit(txCtx))

	assert.Equal(t, "600", balanceOf(t, ctx, store, alice))
	assert.Equal(t, "400", balanceOf(t, ctx, store, bob))
}

func TestStore_CreditWaitsForOpenUnitOfWork(t *testing.T) {
	store := newStore(t)

	txCtx, err := store.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, store.GetBalanceRepository(txCtx).Transfer(txCtx, alice, bob, entity.NewAmount(100)))

	done := make(chan error, 1)
	go func() {
		done <- store.Credit(context.Background(), bob, entity.NewAmount(50))
	}()

	select {
	case err := <-done:
		t.Fatalf("credit finished while a unit of work was open: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, store.Commit(txCtx))
	require.NoError(t, <-done)

	ctx := context.Background()
	assert.Equal(t, "900", balanceOf(t, ctx, store, alice))
	assert.Equal(t, "150", balanceOf(t, ctx, store, bob))
}
