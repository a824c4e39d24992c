package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	lerrors "walletledger/internal/errors"
	"walletledger/internal/models"

	"github.com/shopspring/decimal"
)

// Operations reported to a FaultFunc.
const (
	OpInsertWallet      = "insert_wallet"
	OpSaveWallet        = "save_wallet"
	OpAppendTransaction = "append_transaction"
	OpCommit            = "commit"
)

// FaultFunc lets tests fail a write. key is the user id for wallet writes,
// the transaction id for appends and empty for commits.
type FaultFunc func(op, key string) error

var errReadOnly = errors.New("write attempted in a read-only unit")

// MemoryStore is an in-process unit of work. Each wallet has its own lock;
// an atomic unit holds the locks of the wallets it locked until it commits
// or rolls back, and stages its writes so a failed unit leaves no trace.
// Waiting for a lock gives up when the unit's context is done.
type MemoryStore struct {
	mu      sync.RWMutex
	wallets map[string]models.WalletSnapshot
	byUser  map[string]string
	locks   map[string]walletLock
	txns    []models.TransactionSnapshot
	txIndex map[string]int
	clock   models.Clock
	fault   FaultFunc
}

func NewMemoryStore(clock models.Clock) *MemoryStore {
	if clock == nil {
		clock = models.SystemClock{}
	}
	return &MemoryStore{
		wallets: make(map[string]models.WalletSnapshot),
		byUser:  make(map[string]string),
		locks:   make(map[string]walletLock),
		txIndex: make(map[string]int),
		clock:   clock,
	}
}

// InjectFault installs f; nil removes it.
func (s *MemoryStore) InjectFault(f FaultFunc) {
	s.mu.Lock()
	s.fault = f
	s.mu.Unlock()
}

func (s *MemoryStore) injected(op, key string) error {
	s.mu.RLock()
	f := s.fault
	s.mu.RUnlock()
	if f == nil {
		return nil
	}
	return f(op, key)
}

func (s *MemoryStore) Atomic(ctx context.Context, fn func(tx LedgerTx) error) error {
	tx := newMemoryTx(s, true)
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.injected(OpCommit, ""); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *MemoryStore) View(ctx context.Context, fn func(tx LedgerTx) error) error {
	tx := newMemoryTx(s, false)
	defer tx.release()
	return fn(tx)
}

func (s *MemoryStore) commit(tx *memoryTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range tx.inserted {
		if _, ok := s.byUser[w.UserID]; ok {
			return lerrors.ErrWalletExists
		}
	}
	for _, t := range tx.appended {
		if _, ok := s.txIndex[t.ID]; ok {
			return lerrors.ErrDomainValidation.WithMessage("transaction %s already recorded", t.ID)
		}
	}

	for _, w := range tx.inserted {
		s.wallets[w.ID] = w
		s.byUser[w.UserID] = w.ID
		s.locks[w.ID] = make(walletLock, 1)
	}
	for id, w := range tx.staged {
		s.wallets[id] = w
	}
	for _, t := range tx.appended {
		s.txIndex[t.ID] = len(s.txns)
		s.txns = append(s.txns, t)
	}
	return nil
}

// walletLock is a one-slot semaphore, so a waiter can give up.
type walletLock chan struct{}

func (l walletLock) lock(ctx context.Context) error {
	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l walletLock) unlock() { <-l }

type memoryTx struct {
	store    *MemoryStore
	writable bool

	held      map[string]walletLock
	heldOrder []walletLock

	staged   map[string]models.WalletSnapshot
	inserted []models.WalletSnapshot
	appended []models.TransactionSnapshot
}

func newMemoryTx(s *MemoryStore, writable bool) *memoryTx {
	return &memoryTx{
		store:    s,
		writable: writable,
		held:     make(map[string]walletLock),
		staged:   make(map[string]models.WalletSnapshot),
	}
}

func (t *memoryTx) release() {
	for i := len(t.heldOrder) - 1; i >= 0; i-- {
		t.heldOrder[i].unlock()
	}
	t.heldOrder = nil
}

// lookup resolves userID against this unit's writes first, then the store.
func (t *memoryTx) lookup(userID string) (models.WalletSnapshot, bool) {
	for _, w := range t.inserted {
		if w.UserID == userID {
			return w, true
		}
	}
	t.store.mu.RLock()
	id, ok := t.store.byUser[userID]
	snap := t.store.wallets[id]
	t.store.mu.RUnlock()
	if !ok {
		return models.WalletSnapshot{}, false
	}
	if staged, ok := t.staged[id]; ok {
		return staged, true
	}
	return snap, true
}

func (t *memoryTx) FindWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	snap, ok := t.lookup(userID)
	if !ok {
		return nil, lerrors.ErrWalletNotFound
	}
	return models.RestoreWallet(snap), nil
}

func (t *memoryTx) WalletExists(ctx context.Context, userID string) (bool, error) {
	_, ok := t.lookup(userID)
	return ok, nil
}

func (t *memoryTx) LockWallets(ctx context.Context, userIDs ...string) ([]*models.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if t.writable {
		t.store.mu.RLock()
		walletIDs := make([]string, 0, len(userIDs))
		for _, userID := range userIDs {
			if id, ok := t.store.byUser[userID]; ok {
				walletIDs = append(walletIDs, id)
			}
		}
		locks := make(map[string]walletLock, len(walletIDs))
		for _, id := range walletIDs {
			locks[id] = t.store.locks[id]
		}
		t.store.mu.RUnlock()

		// locks already taken are released by the unit on return
		sort.Strings(walletIDs)
		for _, id := range walletIDs {
			if _, ok := t.held[id]; ok {
				continue
			}
			l := locks[id]
			if err := l.lock(ctx); err != nil {
				return nil, err
			}
			t.held[id] = l
			t.heldOrder = append(t.heldOrder, l)
		}
	}

	wallets := make([]*models.Wallet, len(userIDs))
	for i, userID := range userIDs {
		snap, ok := t.lookup(userID)
		if !ok {
			return nil, lerrors.ErrWalletNotFound.WithMessage("wallet not found for user %s", userID)
		}
		wallets[i] = models.RestoreWallet(snap)
	}
	return wallets, nil
}

func (t *memoryTx) InsertWallet(ctx context.Context, w *models.Wallet) error {
	if !t.writable {
		return errReadOnly
	}
	if err := t.store.injected(OpInsertWallet, w.UserID()); err != nil {
		return err
	}
	if _, ok := t.lookup(w.UserID()); ok {
		return lerrors.ErrWalletExists
	}
	t.inserted = append(t.inserted, w.Snapshot(w.UpdatedAt()))
	return nil
}

func (t *memoryTx) SaveWallet(ctx context.Context, w *models.Wallet) error {
	if !t.writable {
		return errReadOnly
	}
	if err := t.store.injected(OpSaveWallet, w.UserID()); err != nil {
		return err
	}
	if _, ok := t.held[w.ID()]; !ok {
		return fmt.Errorf("wallet %s saved without holding its lock", w.ID())
	}
	t.staged[w.ID()] = w.Snapshot(t.store.clock.Now())
	return nil
}

func (t *memoryTx) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	if !t.writable {
		return errReadOnly
	}
	if err := t.store.injected(OpAppendTransaction, txn.ID()); err != nil {
		return err
	}
	if _, err := t.FindTransaction(ctx, txn.ID()); err == nil {
		return lerrors.ErrDomainValidation.WithMessage("transaction %s already recorded", txn.ID())
	}
	t.appended = append(t.appended, txn.Snapshot())
	return nil
}

func (t *memoryTx) FindTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	for _, s := range t.appended {
		if s.ID == id {
			return models.RestoreTransaction(s)
		}
	}
	t.store.mu.RLock()
	i, ok := t.store.txIndex[id]
	var snap models.TransactionSnapshot
	if ok {
		snap = t.store.txns[i]
	}
	t.store.mu.RUnlock()
	if !ok {
		return nil, lerrors.ErrTransactionNotFound
	}
	return models.RestoreTransaction(snap)
}

func (t *memoryTx) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, int64, error) {
	t.store.mu.RLock()
	all := make([]models.TransactionSnapshot, 0, len(t.store.txns)+len(t.appended))
	all = append(all, t.store.txns...)
	t.store.mu.RUnlock()
	all = append(all, t.appended...)

	// newest first; records sharing a timestamp keep reverse insertion order
	matched := make([]models.TransactionSnapshot, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		s := all[i]
		if filter.UserID == "" || s.SenderID == filter.UserID || s.RecipientID == filter.UserID {
			matched = append(matched, s)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	total := int64(len(matched))
	window := paginate(len(matched), filter.Page)
	txns := make([]*models.Transaction, 0, window[1]-window[0])
	for _, s := range matched[window[0]:window[1]] {
		txn, err := models.RestoreTransaction(s)
		if err != nil {
			return nil, 0, err
		}
		txns = append(txns, txn)
	}
	return txns, total, nil
}

func (t *memoryTx) ListWalletsWithBalanceAbove(ctx context.Context, amount decimal.Decimal, page Page) ([]*models.Wallet, error) {
	t.store.mu.RLock()
	matched := make([]models.WalletSnapshot, 0, len(t.store.wallets))
	for id, w := range t.store.wallets {
		if staged, ok := t.staged[id]; ok {
			w = staged
		}
		if !w.IsDeleted && w.Balance.GreaterThan(amount) {
			matched = append(matched, w)
		}
	}
	t.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Balance.Equal(matched[j].Balance) {
			return matched[i].Balance.LessThan(matched[j].Balance)
		}
		return matched[i].ID < matched[j].ID
	})

	window := paginate(len(matched), page)
	wallets := make([]*models.Wallet, 0, window[1]-window[0])
	for _, w := range matched[window[0]:window[1]] {
		wallets = append(wallets, models.RestoreWallet(w))
	}
	return wallets, nil
}

// paginate returns the [start, end) bounds of page within n items.
func paginate(n int, page Page) [2]int {
	start := page.Offset()
	if start > n {
		start = n
	}
	end := start + page.Limit()
	if end > n {
		end = n
	}
	return [2]int{start, end}
}
