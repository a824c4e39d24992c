package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LEDGER_STORE_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Ledger.StoreTimeout)
	assert.Equal(t, "wallets", cfg.Database.Name)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TransactionTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LEDGER_STORE", "memory")
	t.Setenv("LEDGER_STORE_TIMEOUT", "250ms")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Ledger.Store)
	assert.Equal(t, 250*time.Millisecond, cfg.Ledger.StoreTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "many")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	assert.Equal(t, 10, GetIntEnv("DB_MAX_IDLE_CONNS", 10))
	assert.Equal(t, time.Second, GetDurationEnv("SHUTDOWN_TIMEOUT", time.Second))
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "wallets", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=wallets port=5432 sslmode=disable", c.DSN())
}
