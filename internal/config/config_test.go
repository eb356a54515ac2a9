package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "0.08", cfg.Checkout.TaxRate.String())
	assert.Equal(t, 30*time.Minute, cfg.Checkout.SessionTTL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Payment.SimulatedDelay)
	assert.Equal(t, "order.placed", cfg.AMQP.Queue)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CHECKOUT_TAX_RATE", "0.2")
	t.Setenv("PAYMENT_SIMULATED_DELAY", "0s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "0.2", cfg.Checkout.TaxRate.String())
	assert.Equal(t, time.Duration(0), cfg.Payment.SimulatedDelay)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_RejectsBadTaxRate(t *testing.T) {
	t.Setenv("CHECKOUT_TAX_RATE", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHECKOUT_TAX_RATE")
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	t.Setenv("CHECKOUT_SESSION_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", c.DSN())
}
