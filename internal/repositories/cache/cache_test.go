package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"walletledger/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type staticIDs struct{}

func (staticIDs) NewID() string { return "txn-1" }

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "transaction:id:txn-1", GenerateKey("transaction", "id", "txn-1"))
}

func TestEncodeTransactionEvent(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	factory := models.NewTransactionFactory(fixedClock{now: now}, staticIDs{})
	txn, err := factory.CreateTransfer(decimal.RequireFromString("40"), "rent", "alice", "bob")
	require.NoError(t, err)

	data, err := EncodeTransactionEvent(txn, now)
	require.NoError(t, err)

	var evt TransactionEvent
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, EventTransactionCommitted, evt.Event)
	assert.Equal(t, "txn-1", evt.Transaction.ID)
	assert.Equal(t, models.TransactionTypeTransfer, evt.Transaction.Type)
	assert.Equal(t, "alice", evt.Transaction.SenderID)
	assert.Equal(t, "bob", evt.Transaction.RecipientID)
	assert.True(t, decimal.RequireFromString("40").Equal(evt.Transaction.Amount))
}

func TestUnreachableRedisSurfacesErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	ctx := context.Background()
	svc := NewCacheService(client, time.Minute)

	_, err := svc.GetTransaction(ctx, "txn-1")
	assert.Error(t, err)
	assert.Error(t, svc.HealthCheck(ctx))
}
