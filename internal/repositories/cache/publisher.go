package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"walletledger/internal/models"

	"github.com/redis/go-redis/v9"
)

const EventTransactionCommitted = "transaction.committed"

// TransactionEvent is the payload published for every committed balance
// movement.
type TransactionEvent struct {
	Event       string                     `json:"event"`
	Transaction models.TransactionSnapshot `json:"transaction"`
	PublishedAt time.Time                  `json:"published_at"`
}

// EventPublisher announces committed transactions on a Redis channel.
type EventPublisher struct {
	client  redis.UniversalClient
	channel string
	clock   models.Clock
}

func NewEventPublisher(client redis.UniversalClient, channel string, clock models.Clock) *EventPublisher {
	if clock == nil {
		clock = models.SystemClock{}
	}
	return &EventPublisher{client: client, channel: channel, clock: clock}
}

func (p *EventPublisher) PublishTransaction(ctx context.Context, txn *models.Transaction) error {
	payload, err := EncodeTransactionEvent(txn, p.clock.Now())
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish transaction %s: %w", txn.ID(), err)
	}
	return nil
}

func EncodeTransactionEvent(txn *models.Transaction, at time.Time) ([]byte, error) {
	data, err := json.Marshal(TransactionEvent{
		Event:       EventTransactionCommitted,
		Transaction: txn.Snapshot(),
		PublishedAt: at,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction event: %w", err)
	}
	return data, nil
}
