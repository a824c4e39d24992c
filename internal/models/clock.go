package models

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time to entity factories.
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies fresh identifiers to entity factories.
type IDGenerator interface {
	NewID() string
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator issues random (v4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }
