package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/usecase/lock"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/authz"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/metrics"
	timeprovider "github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/requestid"
	"github.com/amirhossein-jamali/lock-ledger/mocks/port/core"
)

const genesis = 1_700_000_000

var (
	escrow   = common.HexToAddress("0x000000000000000000000000000000000000e5c0")
	alice    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob      = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	outsider = common.HexToAddress("0x00000000000000000000000000000000000000ff")
)

func init() {
	gin.SetMode(gin.TestMode)
}

type api struct {
	router *gin.Engine
	now    uint64
}

func newAPI(t *testing.T) *api {
	t.Helper()

	a := &api{now: genesis}

	timeProvider := core.NewMockTimeProvider(t)
	timeProvider.EXPECT().Now().RunAndReturn(func() time.Time {
		return time.Unix(int64(a.now), 0)
	}).Maybe()
	timeProvider.EXPECT().Since(mock.Anything).Return(coreport.Duration(0)).Maybe()

	authorizer, err := authz.NewStaticAuthorizer([]string{alice.Hex(), bob.Hex()})
	require.NoError(t, err)

	noop := logger.NewNoopLogger()
	store := memory.NewStore(noop)
	require.NoError(t, store.Credit(context.Background(), alice, entity.NewAmount(1000)))
	require.NoError(t, store.Credit(context.Background(), bob, entity.NewAmount(500)))

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	ledger := lock.NewLedger(store, authorizer, timeProvider, noop, recorder, lock.Config{
		EscrowAccount: escrow,
		MaxBatchSize:  3,
	})

	a.router = gin.New()
	routes.SetupMiddlewares(a.router, noop, timeprovider.NewRealTimeProvider())
	routes.SetupRoutes(a.router, routes.Handlers{
		Lock:        handler.NewLockHandler(ledger, noop),
		Account:     handler.NewAccountHandler(ledger, noop),
		Metrics:     recorder.Handler(),
		MetricsPath: "/metrics",
	})
	return a
}

func (a *api) do(t *testing.T, method, path string, caller *common.Address, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		req.Header.Set(handler.CallerHeader, caller.Hex())
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *api) lock(t *testing.T, caller common.Address, reason, amount string, releaseOffset uint64) *httptest.ResponseRecorder {
	return a.do(t, http.MethodPost, "/locks", &caller, dto.LockRequest{
		Reason:      reason,
		Amount:      amount,
		ReleaseTime: a.now + releaseOffset,
	})
}

func (a *api) balance(t *testing.T, account common.Address) dto.BalanceResponse {
	w := a.do(t, http.MethodGet, "/accounts/"+account.Hex()+"/balance", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[dto.BalanceResponse](t, w)
}

func (a *api) escrowBalance(t *testing.T) string {
	w := a.do(t, http.MethodGet, "/escrow", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return decode[dto.EscrowResponse](t, w).Balance
}

func TestHealth(t *testing.T) {
	a := newAPI(t)

	w := a.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestid.Header))
}

func TestLockEndpoint(t *testing.T) {
	t.Run("Locks the caller's tokens", func(t *testing.T) {
		a := newAPI(t)

		w := a.lock(t, alice, "GOV", "100", 10)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		response := decode[dto.LockResponse](t, w)
		assert.Equal(t, alice.Hex(), response.Account)
		assert.Equal(t, "GOV", response.Reason)
		assert.Equal(t, "100", response.Amount)
		assert.Equal(t, uint64(genesis+10), response.Validity)
		assert.False(t, response.Claimed)

		balance := a.balance(t, alice)
		assert.Equal(t, "900", balance.Transferable)
		assert.Equal(t, "100", balance.Locked)
		assert.Equal(t, "1000", balance.Total)
		assert.Equal(t, "0", balance.Unlockable)
		assert.Equal(t, "100", a.escrowBalance(t))
	})

	testCases := []struct {
		name    string
		caller  *common.Address
		body    any
		status  int
		code    int
		prepare func(t *testing.T, a *api)
	}{
		{
			name:   "Missing caller header",
			caller: nil,
			body:   dto.LockRequest{Reason: "GOV", Amount: "100", ReleaseTime: genesis + 10},
			status: http.StatusBadRequest,
			code:   4010,
		},
		{
			name:   "Unauthorized caller",
			caller: &outsider,
			body:   dto.LockRequest{Reason: "GOV", Amount: "100", ReleaseTime: genesis + 10},
			status: http.StatusForbidden,
			code:   4030,
		},
		{
			name:   "Malformed amount",
			caller: &alice,
			body:   dto.LockRequest{Reason: "GOV", Amount: "-5", ReleaseTime: genesis + 10},
			status: http.StatusBadRequest,
			code:   4002,
		},
		{
			name:   "Release time not in the future",
			caller: &alice,
			body:   dto.LockRequest{Reason: "GOV", Amount: "100", ReleaseTime: genesis},
			status: http.StatusBadRequest,
			code:   4005,
		},
		{
			name:   "Zero amount",
			caller: &alice,
			body:   dto.LockRequest{Reason: "GOV", Amount: "0", ReleaseTime: genesis + 10},
			status: http.StatusBadRequest,
			code:   4006,
		},
		{
			name:   "Insufficient balance",
			caller: &alice,
			body:   dto.LockRequest{Reason: "GOV", Amount: "1001", ReleaseTime: genesis + 10},
			status: http.StatusUnprocessableEntity,
			code:   4001,
		},
		{
			name:   "Already locked",
			caller: &alice,
			body:   dto.LockRequest{Reason: "GOV", Amount: "50", ReleaseTime: genesis + 20},
			status: http.StatusConflict,
			code:   4090,
			prepare: func(t *testing.T, a *api) {
				require.Equal(t, http.StatusCreated, a.lock(t, alice, "GOV", "100", 10).Code)
			},
		},
		{
			name:   "Missing reason",
			caller: &alice,
			body:   map[string]any{"amount": "100", "releaseTime": genesis + 10},
			status: http.StatusBadRequest,
			code:   4010,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newAPI(t)
			if tc.prepare != nil {
				tc.prepare(t, a)
			}
			escrowBefore := a.escrowBalance(t)

			w := a.do(t, http.MethodPost, "/locks", tc.caller, tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())

			response := decode[dto.ErrorResponse](t, w)
			assert.Equal(t, tc.code, response.Code)
			assert.NotEmpty(t, response.Message)
			assert.Nil(t, response.Index)
			assert.Equal(t, escrowBefore, a.escrowBalance(t))
		})
	}
}

func TestTransferWithLockEndpoint(t *testing.T) {
	a := newAPI(t)

	w := a.do(t, http.MethodPost, "/locks/transfer", &alice, dto.TransferLockRequest{
		To:          bob.Hex(),
		Reason:      "VESTING",
		Amount:      "250",
		ReleaseTime: genesis + 100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, bob.Hex(), decode[dto.LockResponse](t, w).Account)

	assert.Equal(t, "750", a.balance(t, alice).Transferable)
	bobBalance := a.balance(t, bob)
	assert.Equal(t, "500", bobBalance.Transferable)
	assert.Equal(t, "250", bobBalance.Locked)
	assert.Equal(t, "750", bobBalance.Total)

	t.Run("Invalid recipient", func(t *testing.T) {
		w := a.do(t, http.MethodPost, "/locks/transfer", &alice, dto.TransferLockRequest{
			To:          "not-an-address",
			Reason:      "VESTING",
			Amount:      "1",
			ReleaseTime: genesis + 100,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 4003, decode[dto.ErrorResponse](t, w).Code)
	})

	t.Run("Escrow recipient", func(t *testing.T) {
		w := a.do(t, http.MethodPost, "/locks/transfer", &alice, dto.TransferLockRequest{
			To:          escrow.Hex(),
			Reason:      "GOV",
			Amount:      "100",
			ReleaseTime: genesis + 100,
		})
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Equal(t, 4003, decode[dto.ErrorResponse](t, w).Code)
		assert.Equal(t, "750", a.balance(t, alice).Transferable)
		assert.Equal(t, "250", a.escrowBalance(t))
	})
}

func TestBatchTransferWithLockEndpoint(t *testing.T) {
	t.Run("Applies every entry", func(t *testing.T) {
		a := newAPI(t)

		w := a.do(t, http.MethodPost, "/locks/batch", &alice, dto.BatchTransferLockRequest{
			Recipients: []string{bob.Hex(), alice.Hex()},
			Reasons:    []string{"R1", "R2"},
			Amounts:    []string{"10", "20"},
			Times:      []uint64{genesis + 5, genesis + 6},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		response := decode[dto.BatchLockResponse](t, w)
		require.Len(t, response.Locks, 2)
		assert.Equal(t, "R1", response.Locks[0].Reason)
		assert.Equal(t, "R2", response.Locks[1].Reason)
		assert.Equal(t, "30", a.escrowBalance(t))
	})

	t.Run("Zero amount in the middle rolls back the batch", func(t *testing.T) {
		a := newAPI(t)

		w := a.do(t, http.MethodPost, "/locks/batch", &alice, dto.BatchTransferLockRequest{
			Recipients: []string{bob.Hex(), bob.Hex(), bob.Hex()},
			Reasons:    []string{"R1", "R2", "R3"},
			Amounts:    []string{"10", "0", "10"},
			Times:      []uint64{genesis + 5, genesis + 5, genesis + 5},
		})
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

		response := decode[dto.ErrorResponse](t, w)
		assert.Equal(t, 4006, response.Code)
		require.NotNil(t, response.Index)
		assert.Equal(t, 1, *response.Index)

		assert.Equal(t, "0", a.escrowBalance(t))
		assert.Equal(t, "1000", a.balance(t, alice).Transferable)
		assert.Equal(t, "0", a.balance(t, bob).Locked)
	})

	t.Run("Length mismatch", func(t *testing.T) {
		a := newAPI(t)

		w := a.do(t, http.MethodPost, "/locks/batch", &alice, dto.BatchTransferLockRequest{
			Recipients: []string{bob.Hex()},
			Reasons:    []string{"R1", "R2"},
			Amounts:    []string{"10"},
			Times:      []uint64{genesis + 5},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 4008, decode[dto.ErrorResponse](t, w).Code)
	})

	t.Run("Batch too large", func(t *testing.T) {
		a := newAPI(t)

		w := a.do(t, http.MethodPost, "/locks/batch", &alice, dto.BatchTransferLockRequest{
			Recipients: []string{bob.Hex(), bob.Hex(), bob.Hex(), bob.Hex()},
			Reasons:    []string{"R1", "R2", "R3", "R4"},
			Amounts:    []string{"1", "1", "1", "1"},
			Times:      []uint64{genesis + 5, genesis + 5, genesis + 5, genesis + 5},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 4009, decode[dto.ErrorResponse](t, w).Code)
	})
}

func TestExtendAndIncreaseEndpoints(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusCreated, a.lock(t, alice, "GOV", "100", 10).Code)

	w := a.do(t, http.MethodPost, "/locks/extend", &alice, dto.ExtendLockRequest{Reason: "GOV", ExtraTime: 50})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, uint64(genesis+60), decode[dto.LockResponse](t, w).Validity)

	w = a.do(t, http.MethodPost, "/locks/increase", &alice, dto.IncreaseLockRequest{Reason: "GOV", ExtraAmount: "25"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "125", decode[dto.LockResponse](t, w).Amount)
	assert.Equal(t, "125", a.escrowBalance(t))

	t.Run("Unknown reason is not locked", func(t *testing.T) {
		w := a.do(t, http.MethodPost, "/locks/increase", &alice, dto.IncreaseLockRequest{Reason: "NOPE", ExtraAmount: "1"})
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 4091, decode[dto.ErrorResponse](t, w).Code)

		w = a.do(t, http.MethodPost, "/locks/extend", &alice, dto.ExtendLockRequest{Reason: "NOPE", ExtraTime: 1})
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 4091, decode[dto.ErrorResponse](t, w).Code)
	})
}

func TestUnlockEndpoint(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusCreated, a.lock(t, alice, "GOV", "100", 10).Code)
	unlockPath := "/accounts/" + alice.Hex() + "/unlock"

	w := a.do(t, http.MethodPost, unlockPath, &bob, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "0", decode[dto.UnlockResponse](t, w).Released)

	a.now = genesis + 10
	assert.Equal(t, "100", a.balance(t, alice).Unlockable)

	w = a.do(t, http.MethodPost, unlockPath, &bob, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "100", decode[dto.UnlockResponse](t, w).Released)

	balance := a.balance(t, alice)
	assert.Equal(t, "1000", balance.Transferable)
	assert.Equal(t, "0", balance.Locked)
	assert.Equal(t, "0", a.escrowBalance(t))

	w = a.do(t, http.MethodPost, unlockPath, &bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", decode[dto.UnlockResponse](t, w).Released)

	t.Run("Unauthorized caller", func(t *testing.T) {
		w := a.do(t, http.MethodPost, unlockPath, &outsider, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Invalid account", func(t *testing.T) {
		w := a.do(t, http.MethodPost, "/accounts/0x123/unlock", &bob, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 4003, decode[dto.ErrorResponse](t, w).Code)
	})
}

func TestAccountQueryEndpoints(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusCreated, a.lock(t, alice, "GOV", "100", 10).Code)
	require.Equal(t, http.StatusCreated, a.lock(t, alice, "VESTING", "40", 30).Code)
	base := "/accounts/" + alice.Hex()

	t.Run("Locks in index order", func(t *testing.T) {
		w := a.do(t, http.MethodGet, base+"/locks", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[dto.LocksResponse](t, w)
		require.Len(t, response.Locks, 2)
		assert.Equal(t, 0, response.Locks[0].Index)
		assert.Equal(t, "GOV", response.Locks[0].Reason)
		assert.Equal(t, "100", response.Locks[0].Locked)
		assert.Equal(t, "VESTING", response.Locks[1].Reason)
		assert.Equal(t, uint64(genesis+30), response.Locks[1].Validity)
	})

	t.Run("Single lock with point in time query", func(t *testing.T) {
		w := a.do(t, http.MethodGet, fmt.Sprintf("%s/locks/GOV?at=%d", base, genesis+9), nil, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		response := decode[dto.ReasonLockResponse](t, w)
		assert.Equal(t, "100", response.Locked)
		assert.Equal(t, "0", response.Unlockable)
		require.NotNil(t, response.At)
		assert.Equal(t, "100", response.LockedAt)

		w = a.do(t, http.MethodGet, fmt.Sprintf("%s/locks/GOV?at=%d", base, genesis+10), nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0", decode[dto.ReasonLockResponse](t, w).LockedAt)

		w = a.do(t, http.MethodGet, base+"/locks/GOV?at=soon", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Reason by index", func(t *testing.T) {
		w := a.do(t, http.MethodGet, base+"/reasons/1", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "VESTING", decode[map[string]any](t, w)["reason"])

		w = a.do(t, http.MethodGet, base+"/reasons/2", nil, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, 4040, decode[dto.ErrorResponse](t, w).Code)
	})

	t.Run("Events oldest first", func(t *testing.T) {
		w := a.do(t, http.MethodGet, base+"/events", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[dto.EventsResponse](t, w)
		require.Len(t, response.Events, 2)
		assert.Equal(t, "locked", response.Events[0].Kind)
		assert.Equal(t, "GOV", response.Events[0].Reason)
		assert.Equal(t, "VESTING", response.Events[1].Reason)
		assert.Less(t, response.Events[0].Sequence, response.Events[1].Sequence)

		w = a.do(t, http.MethodGet, base+"/events?limit=1", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		events := decode[dto.EventsResponse](t, w).Events
		require.Len(t, events, 1)
		assert.Equal(t, "VESTING", events[0].Reason)

		w = a.do(t, http.MethodGet, base+"/events?limit=-1", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Escrow", func(t *testing.T) {
		w := a.do(t, http.MethodGet, "/escrow", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[dto.EscrowResponse](t, w)
		assert.Equal(t, escrow.Hex(), response.Account)
		assert.Equal(t, "140", response.Balance)
	})
}

func TestMetricsRoute(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusCreated, a.lock(t, alice, "GOV", "100", 10).Code)

	w := a.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lockledger_")
}
