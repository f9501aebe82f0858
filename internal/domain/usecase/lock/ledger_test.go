package lock

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/lock-ledger/mocks/port/core"
)

var (
	escrow   = common.HexToAddress("0x000000000000000000000000000000000000e5c0")
	alice    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob      = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	carol    = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	outsider = common.HexToAddress("0x00000000000000000000000000000000000000ff")

	reasonGOV     = mustReason("GOV")
	reasonVesting = mustReason("VESTING")
)

// genesis is the unix time every fixture starts at
const genesis = 1_700_000_000

func mustReason(s string) entity.Reason {
	r, err := entity.ParseReason(s)
	if err != nil {
		panic(err)
	}
	return r
}

type fixture struct {
	ctx    context.Context
	ledger *Ledger
	store  *memory.Store
	now    uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:   context.Background(),
		store: memory.NewStore(logger.NewNoopLogger()),
		now:   genesis,
	}

	timeProvider := core.NewMockTimeProvider(t)
	timeProvider.EXPECT().Now().RunAndReturn(func() time.Time {
		return time.Unix(int64(f.now), 0)
	}).Maybe()
	timeProvider.EXPECT().Since(mock.Anything).Return(coreport.Duration(0)).Maybe()

	authorizer := core.NewMockAuthorizer(t)
	authorizer.On("IsAuthorized", mock.Anything, mock.Anything).Return(
		func(_ context.Context, caller common.Address) (bool, error) {
			return caller != outsider, nil
		},
	).Maybe()

	f.ledger = NewLedger(f.store, authorizer, timeProvider, logger.NewNoopLogger(), metrics.NewNoopRecorder(), Config{
		EscrowAccount: escrow,
		MaxBatchSize:  5,
	})

	require.NoError(t, f.store.Credit(f.ctx, alice, entity.NewAmount(1000)))
	require.NoError(t, f.store.Credit(f.ctx, bob, entity.NewAmount(500)))
	return f
}

func (f *fixture) at(offset uint64) {
	f.now = genesis + offset
}

func (f *fixture) amount(t *testing.T, fn func() (*entity.Amount, error)) string {
	t.Helper()
	amount, err := fn()
	require.NoError(t, err)
	return entity.FormatAmount(amount)
}

func (f *fixture) transferable(t *testing.T, account entity.Account) string {
	return f.amount(t, func() (*entity.Amount, error) { return f.ledger.TransferableBalanceOf(f.ctx, account) })
}

func (f *fixture) locked(t *testing.T, account entity.Account, reason entity.Reason) string {
	return f.amount(t, func() (*entity.Amount, error) { return f.ledger.TokensLocked(f.ctx, account, reason) })
}

func (f *fixture) total(t *testing.T, account entity.Account) string {
	return f.amount(t, func() (*entity.Amount, error) { return f.ledger.TotalBalanceOf(f.ctx, account) })
}

func (f *fixture) escrowBalance(t *testing.T) string {
	return f.amount(t, func() (*entity.Amount, error) { return f.ledger.EscrowBalance(f.ctx) })
}

func (f *fixture) lock(reason entity.Reason, amount, releaseOffset uint64) (*entity.LockRecord, error) {
	return f.ledger.Lock(f.ctx, alice, lockRequest(reason, amount, genesis+releaseOffset))
}

func (f *fixture) reasonCount(t *testing.T, account entity.Account) int {
	t.Helper()
	n, err := f.ledger.GetLockReasonLength(f.ctx, account)
	require.NoError(t, err)
	return n
}

// assertConserved checks total == transferable + sum of tokensLocked
func (f *fixture) assertConserved(t *testing.T, account entity.Account) {
	t.Helper()

	summary, err := f.ledger.BalanceSummary(f.ctx, account)
	require.NoError(t, err)

	reasons, err := f.ledger.LockReasons(f.ctx, account)
	require.NoError(t, err)

	sum := entity.ZeroAmount()
	for _, reason := range reasons {
		locked, err := f.ledger.TokensLocked(f.ctx, account, reason)
		require.NoError(t, err)
		sum.Add(sum, locked)
	}
	sum.Add(sum, summary.Transferable)

	assert.Equal(t, entity.FormatAmount(summary.Total), entity.FormatAmount(sum))
}
