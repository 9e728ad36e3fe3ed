package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("ruido"))
}

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "estoque-pdv", Out: &buf})

	l.WithComponent("sales").Info().Str("sale_number", "HND-000001").Msg("venta")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "estoque-pdv", line["service"])
	assert.Equal(t, "sales", line["component"])
	assert.Equal(t, "HND-000001", line["sale_number"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "error", Out: &buf})

	l.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len())
}
