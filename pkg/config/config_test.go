package config_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("STOCK_MEDIUM_FACTOR", "1.5")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.5").Equal(cfg.Stock.MediumFactor))
	assert.Equal(t, 30, cfg.Stock.ExpiryHorizonDays)
	assert.Equal(t, 8080, cfg.HTTP.Port, "valor no numérico usa el default")
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("STOCK_EXPIRY_HORIZON_DAYS", "45")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 45, cfg.Stock.ExpiryHorizonDays)
}

func TestLoad_FactorInvalido(t *testing.T) {
	t.Setenv("STOCK_MEDIUM_FACTOR", "0.5")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "pharma", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/pharma?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
