package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/money"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestToFixed2_FormatosDeEntrada(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"string con punto", "10.5", "10.50"},
		{"string con coma", "10,5", "10.50"},
		{"miles y coma", "1.234,56", "1234.56"},
		{"prefijo R$", "R$ 1.234,56", "1234.56"},
		{"entero", 7, "7.00"},
		{"float", 19.99, "19.99"},
		{"decimal", dec("3.456"), "3.46"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := money.ToFixed2(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestToFixed2_TextoInvalido(t *testing.T) {
	_, err := money.ToFixed2("diez")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = money.ToFixed2(struct{}{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRound2_MitadSeAlejaDeCero(t *testing.T) {
	assert.Equal(t, "2.35", money.Round2(dec("2.345")).StringFixed(2))
	assert.Equal(t, "-2.35", money.Round2(dec("-2.345")).StringFixed(2))
	assert.Equal(t, "2.34", money.Round2(dec("2.344")).StringFixed(2))
}

func TestValidatePositive(t *testing.T) {
	_, err := money.ValidatePositive("0", false)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	d, err := money.ValidatePositive("0", true)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = money.ValidatePositive("-0.01", true)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestValidatePercent_Limites(t *testing.T) {
	for _, ok := range []string{"0", "10", "100"} {
		_, err := money.ValidatePercent(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"-1", "100.01", "abc"} {
		_, err := money.ValidatePercent(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidPercent, bad)
	}
}

func TestComputeLine_DescuentoSobreBruto(t *testing.T) {
	l := money.ComputeLine(dec("10.00"), 3, dec("10"))
	assert.Equal(t, "30.00", l.Gross.StringFixed(2))
	assert.Equal(t, "3.00", l.Discount.StringFixed(2))
	assert.Equal(t, "27.00", l.Net.StringFixed(2))
}

func TestComputeLine_RedondeaCadaPaso(t *testing.T) {
	// 3 x 3.33 = 9.99; 15% = 1.4985 -> 1.50
	l := money.ComputeLine(dec("3.333"), 3, dec("15"))
	assert.Equal(t, "3.33", l.UnitPrice.StringFixed(2))
	assert.Equal(t, "9.99", l.Gross.StringFixed(2))
	assert.Equal(t, "1.50", l.Discount.StringFixed(2))
	assert.Equal(t, "8.49", l.Net.StringFixed(2))
}

func TestParseLine_Validaciones(t *testing.T) {
	_, err := money.ParseLine("10", 0, "0")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = money.ParseLine("10", domain.MaxQuantity+1, "0")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = money.ParseLine("-1", 1, "0")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = money.ParseLine("10", 1, "150")
	assert.ErrorIs(t, err, domain.ErrInvalidPercent)

	l, err := money.ParseLine("0", 2, "0")
	require.NoError(t, err)
	assert.True(t, l.Net.IsZero())
}

func TestTotals_SumaLineasRedondeadas(t *testing.T) {
	var tot money.Totals
	tot.Add(money.ComputeLine(dec("10.00"), 3, dec("10")))
	tot.Add(money.ComputeLine(dec("5.00"), 1, dec("0")))
	assert.Equal(t, "35.00", tot.Gross.StringFixed(2))
	assert.Equal(t, "3.00", tot.Discount.StringFixed(2))
	assert.Equal(t, "32.00", tot.Net.StringFixed(2))
}

func TestMarkup(t *testing.T) {
	assert.Equal(t, "50.00", money.Markup(dec("15"), dec("10")).StringFixed(2))
	assert.True(t, money.Markup(dec("15"), decimal.Zero).IsZero())
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", money.FormatBRL(dec("1234.56")))
	assert.Equal(t, "R$ 0,50", money.FormatBRL(dec("0.5")))
	assert.Equal(t, "R$ 0,00", money.FormatBRL(decimal.Zero))
	assert.Equal(t, "-R$ 7,50", money.FormatBRL(dec("-7.5")))
	assert.Equal(t, "R$ 1,01", money.FormatBRL(dec("1.005")))
}

func TestFormatBRL_ValoresGrandesSinPerderCentavos(t *testing.T) {
	// 17 dígitos significativos no caben exactos en un float64.
	assert.Equal(t, "R$ 123.456.789.012.345,67", money.FormatBRL(dec("123456789012345.67")))
	assert.Equal(t, "R$ 90.071.992.547.409,93", money.FormatBRL(dec("90071992547409.93")))
}
