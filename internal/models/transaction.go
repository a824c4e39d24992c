package models

import (
	"strings"
	"time"

	lerrors "walletledger/internal/errors"

	"github.com/shopspring/decimal"
)

// TransactionType names the kind of balance movement a record describes.
type TransactionType string

const (
	TransactionTypeCredit   TransactionType = "credit"
	TransactionTypeDebit    TransactionType = "debit"
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionStatus is the lifecycle state of a record.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Accepted distance between a record's timestamp and the clock.
const (
	maxTimestampAge  = 365 * 24 * time.Hour
	maxTimestampLead = 24 * time.Hour
)

// Parties identifies the wallets a transaction moved money between. The
// concrete types are CreditRecord, DebitRecord and TransferRecord.
type Parties interface {
	Type() TransactionType
	SenderID() string
	RecipientID() string
	validate() error
}

// CreditRecord describes money entering the system into Recipient's wallet.
type CreditRecord struct {
	Recipient string
}

func (r CreditRecord) Type() TransactionType { return TransactionTypeCredit }
func (r CreditRecord) SenderID() string      { return "" }
func (r CreditRecord) RecipientID() string   { return r.Recipient }

func (r CreditRecord) validate() error {
	if strings.TrimSpace(r.Recipient) == "" {
		return lerrors.ErrDomainValidation.WithMessage("recipient id cannot be empty")
	}
	return nil
}

// DebitRecord describes money leaving the system from Sender's wallet.
type DebitRecord struct {
	Sender string
}

func (r DebitRecord) Type() TransactionType { return TransactionTypeDebit }
func (r DebitRecord) SenderID() string      { return r.Sender }
func (r DebitRecord) RecipientID() string   { return "" }

func (r DebitRecord) validate() error {
	if strings.TrimSpace(r.Sender) == "" {
		return lerrors.ErrDomainValidation.WithMessage("sender id cannot be empty")
	}
	return nil
}

// TransferRecord describes money moved from Sender's wallet to Recipient's.
type TransferRecord struct {
	Sender    string
	Recipient string
}

func (r TransferRecord) Type() TransactionType { return TransactionTypeTransfer }
func (r TransferRecord) SenderID() string      { return r.Sender }
func (r TransferRecord) RecipientID() string   { return r.Recipient }

func (r TransferRecord) validate() error {
	if strings.TrimSpace(r.Sender) == "" {
		return lerrors.ErrDomainValidation.WithMessage("sender id cannot be empty")
	}
	if strings.TrimSpace(r.Recipient) == "" {
		return lerrors.ErrDomainValidation.WithMessage("recipient id cannot be empty")
	}
	if r.Sender == r.Recipient {
		return lerrors.ErrDomainValidation.WithMessage("sender and recipient cannot be the same")
	}
	return nil
}

// Transaction is the immutable record of one completed balance movement.
type Transaction struct {
	id          string
	amount      decimal.Decimal
	description string
	timestamp   time.Time
	status      TransactionStatus
	parties     Parties
}

// TransactionSnapshot is the flat form of a Transaction used by storage
// backends, caches and event payloads.
type TransactionSnapshot struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description"`
	Status      TransactionStatus `json:"status"`
	SenderID    string            `json:"sender_id,omitempty"`
	RecipientID string            `json:"recipient_id,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// TransactionFactory builds validated, completed transaction records.
type TransactionFactory struct {
	clock Clock
	ids   IDGenerator
}

func NewTransactionFactory(clock Clock, ids IDGenerator) *TransactionFactory {
	if clock == nil {
		clock = SystemClock{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &TransactionFactory{clock: clock, ids: ids}
}

// CreateCredit records amount credited to recipientID's wallet.
func (f *TransactionFactory) CreateCredit(amount decimal.Decimal, description, recipientID string) (*Transaction, error) {
	return f.create(amount, description, CreditRecord{Recipient: recipientID})
}

// CreateDebit records amount debited from senderID's wallet.
func (f *TransactionFactory) CreateDebit(amount decimal.Decimal, description, senderID string) (*Transaction, error) {
	return f.create(amount, description, DebitRecord{Sender: senderID})
}

// CreateTransfer records amount moved from senderID's wallet to recipientID's.
func (f *TransactionFactory) CreateTransfer(amount decimal.Decimal, description, senderID, recipientID string) (*Transaction, error) {
	return f.create(amount, description, TransferRecord{Sender: senderID, Recipient: recipientID})
}

func (f *TransactionFactory) create(amount decimal.Decimal, description string, parties Parties) (*Transaction, error) {
	now := f.clock.Now()
	if err := validateTransaction(amount, description, now, now, parties); err != nil {
		return nil, err
	}
	return &Transaction{
		id:          f.ids.NewID(),
		amount:      amount,
		description: description,
		timestamp:   now,
		status:      TransactionStatusCompleted,
		parties:     parties,
	}, nil
}

func validateTransaction(amount decimal.Decimal, description string, timestamp, now time.Time, parties Parties) error {
	if !amount.IsPositive() {
		return lerrors.ErrDomainValidation.WithMessage("transaction amount must be greater than zero")
	}
	if strings.TrimSpace(description) == "" {
		return lerrors.ErrDomainValidation.WithMessage("transaction description is required")
	}
	if err := validateTimestamp(timestamp, now); err != nil {
		return err
	}
	if parties == nil {
		return lerrors.ErrDomainValidation.WithMessage("transaction parties are required")
	}
	return parties.validate()
}

func validateTimestamp(timestamp, now time.Time) error {
	switch {
	case timestamp.IsZero():
		return lerrors.ErrDomainValidation.WithMessage("timestamp must be valid")
	case timestamp.After(now.Add(maxTimestampLead)):
		return lerrors.ErrDomainValidation.WithMessage("timestamp cannot be more than one day in the future")
	case timestamp.Before(now.Add(-maxTimestampAge)):
		return lerrors.ErrDomainValidation.WithMessage("timestamp cannot be more than one year in the past")
	}
	return nil
}

// RestoreTransaction rebuilds a stored record. The timestamp window is not
// re-checked, since stored records legitimately age past it.
func RestoreTransaction(s TransactionSnapshot) (*Transaction, error) {
	var parties Parties
	switch s.Type {
	case TransactionTypeCredit:
		parties = CreditRecord{Recipient: s.RecipientID}
	case TransactionTypeDebit:
		parties = DebitRecord{Sender: s.SenderID}
	case TransactionTypeTransfer:
		parties = TransferRecord{Sender: s.SenderID, Recipient: s.RecipientID}
	default:
		return nil, lerrors.ErrDomainValidation.WithMessage("unknown transaction type %q", s.Type)
	}
	if err := parties.validate(); err != nil {
		return nil, err
	}
	return &Transaction{
		id:          s.ID,
		amount:      s.Amount,
		description: s.Description,
		timestamp:   s.Timestamp,
		status:      s.Status,
		parties:     parties,
	}, nil
}

func (t *Transaction) ID() string                { return t.id }
func (t *Transaction) Amount() decimal.Decimal   { return t.amount }
func (t *Transaction) Description() string       { return t.description }
func (t *Transaction) Timestamp() time.Time      { return t.timestamp }
func (t *Transaction) Status() TransactionStatus { return t.status }
func (t *Transaction) Parties() Parties          { return t.parties }
func (t *Transaction) Type() TransactionType     { return t.parties.Type() }
func (t *Transaction) SenderID() string          { return t.parties.SenderID() }
func (t *Transaction) RecipientID() string       { return t.parties.RecipientID() }

// TransitionTo moves a pending record to completed or failed. Settled
// records never change status.
func (t *Transaction) TransitionTo(status TransactionStatus) error {
	if t.status != TransactionStatusPending {
		return lerrors.ErrInvalidStatusTransition.WithMessage("transaction %s is already %s", t.id, t.status)
	}
	if status != TransactionStatusCompleted && status != TransactionStatusFailed {
		return lerrors.ErrInvalidStatusTransition.WithMessage("cannot move transaction %s to %s", t.id, status)
	}
	t.status = status
	return nil
}

func (t *Transaction) Snapshot() TransactionSnapshot {
	return TransactionSnapshot{
		ID:          t.id,
		Type:        t.Type(),
		Amount:      t.amount,
		Description: t.description,
		Status:      t.status,
		SenderID:    t.SenderID(),
		RecipientID: t.RecipientID(),
		Timestamp:   t.timestamp,
	}
}

// Involves reports whether userID sent or received money in t.
func (t *Transaction) Involves(userID string) bool {
	return t.SenderID() == userID || t.RecipientID() == userID
}
