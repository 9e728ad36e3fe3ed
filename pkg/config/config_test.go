package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "HND", cfg.Sales.SalePrefix)
	assert.Equal(t, "HND-ORD", cfg.Sales.OrderPrefix)
	assert.Equal(t, "Cliente", cfg.Sales.DefaultCustomer)
	assert.Equal(t, "Correios", cfg.Sales.DefaultCarrier)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SALE_PREFIX", "ABC")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ABC", cfg.Sales.SalePrefix)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "x", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/x?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
