// Package cache holds the Redis-backed pieces of the ledger: a read-through
// cache for settled transaction records and the committed-transaction event
// publisher. Wallet balances are never cached.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"walletledger/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewCacheService(client redis.UniversalClient, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return GenerateKey(entityType, keyType, value)
}

func GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Transaction caching. Only settled records are stored, so an entry can
// never go stale.
func (s *CacheService) CacheTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn == nil {
		return errors.New("cannot cache nil transaction")
	}
	if txn.Status() == models.TransactionStatusPending {
		return nil
	}
	return s.Set(ctx, GenerateKey("transaction", "id", txn.ID()), txn.Snapshot())
}

// GetTransaction returns (nil, nil) on a cache miss.
func (s *CacheService) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var snap models.TransactionSnapshot
	found, err := s.Get(ctx, GenerateKey("transaction", "id", id), &snap)
	if err != nil || !found {
		return nil, err
	}
	return models.RestoreTransaction(snap)
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	return Ping(ctx, s.client)
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
