package transaction

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	lerrors "walletledger/internal/errors"
	"walletledger/internal/models"
	"walletledger/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqIDs struct{ n atomic.Int64 }

func (g *seqIDs) NewID() string { return fmt.Sprintf("id-%03d", g.n.Add(1)) }

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	txn, _ := args.Get(0).(*models.Transaction)
	return txn, args.Error(1)
}

func (m *MockCache) CacheTransaction(ctx context.Context, txn *models.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

type fixture struct {
	store   repositories.LedgerStore
	factory *models.TransactionFactory
	ids     *seqIDs
	clock   fixedClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := fixedClock{now: testNow}
	ids := &seqIDs{}
	return &fixture{
		store:   repositories.NewLedgerStore(repositories.NewMemoryStore(clock)),
		factory: models.NewTransactionFactory(clock, ids),
		ids:     ids,
		clock:   clock,
	}
}

func (f *fixture) seed(t *testing.T, userID string, credits int) []*models.Transaction {
	t.Helper()
	ctx := context.Background()
	w, err := models.NewWallet(f.ids, f.clock, userID, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, f.store.CreateWallet(ctx, w))

	var txns []*models.Transaction
	for i := 0; i < credits; i++ {
		amount := decimal.NewFromInt(int64(i + 1))
		out, err := f.store.UpdateBalance(ctx, userID, amount, func() (*models.Transaction, error) {
			return f.factory.CreateCredit(amount, "seed", userID)
		})
		require.NoError(t, err)
		txns = append(txns, out.Transaction)
	}
	return txns
}

func TestGetTransactionReadsThroughCache(t *testing.T) {
	f := newFixture(t)
	txns := f.seed(t, "alice", 1)
	id := txns[0].ID()

	cache := new(MockCache)
	cache.On("GetTransaction", mock.Anything, id).Return(nil, nil).Once()
	cache.On("CacheTransaction", mock.Anything, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.ID() == id
	})).Return(nil).Once()

	svc := NewService(f.store, cache, nil)
	got, err := svc.GetTransaction(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, txns[0].Snapshot(), got.Snapshot())
	cache.AssertExpectations(t)
}

func TestGetTransactionServedFromCache(t *testing.T) {
	f := newFixture(t)
	cached, err := f.factory.CreateCredit(decimal.NewFromInt(9), "cached", "alice")
	require.NoError(t, err)

	cache := new(MockCache)
	cache.On("GetTransaction", mock.Anything, cached.ID()).Return(cached, nil)

	svc := NewService(f.store, cache, nil)
	got, err := svc.GetTransaction(context.Background(), cached.ID())
	require.NoError(t, err)
	assert.Same(t, cached, got)
	cache.AssertNotCalled(t, "CacheTransaction", mock.Anything, mock.Anything)
}

func TestGetTransactionCacheFailureFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	txns := f.seed(t, "alice", 1)
	id := txns[0].ID()

	cache := new(MockCache)
	cache.On("GetTransaction", mock.Anything, id).Return(nil, errors.New("redis down"))
	cache.On("CacheTransaction", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	svc := NewService(f.store, cache, nil)
	got, err := svc.GetTransaction(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID())
}

func TestGetTransactionNotFound(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.store, nil, nil)

	_, err := svc.GetTransaction(context.Background(), "missing")
	assert.ErrorIs(t, err, lerrors.ErrTransactionNotFound)
	assert.Equal(t, lerrors.KindNotFound, lerrors.KindOf(err))

	_, err = svc.GetTransaction(context.Background(), "")
	assert.ErrorIs(t, err, lerrors.ErrTransactionNotFound)
}

func TestListByUser(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "alice", 5)
	f.seed(t, "bob", 2)
	svc := NewService(f.store, nil, nil)

	page, err := svc.ListByUser(context.Background(), "alice", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Items, 2)
	for _, txn := range page.Items {
		assert.True(t, txn.Involves("alice"))
	}

	_, err = svc.ListByUser(context.Background(), " ", 1, 10)
	assert.ErrorIs(t, err, lerrors.ErrInvalidUserID)
}

func TestListClampsPaging(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "alice", 3)
	f.seed(t, "bob", 1)
	svc := NewService(f.store, nil, nil)

	page, err := svc.List(context.Background(), 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, repositories.MaxPageSize, page.Limit)
	assert.Equal(t, int64(4), page.Total)
	assert.Len(t, page.Items, 4)
}
