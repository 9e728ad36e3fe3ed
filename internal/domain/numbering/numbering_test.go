package numbering_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/numbering"
)

func TestNextSaleNumber(t *testing.T) {
	cases := []struct {
		name, prefix, last, want string
	}{
		{"primera venta", "ABC", "", "ABC-000001"},
		{"siguiente", "ABC", "ABC-000007", "ABC-000008"},
		{"minúsculas y espacios", " abc ", "ABC-000041", "ABC-000042"},
		{"otro prefijo reinicia", "ABC", "XYZ-000009", "ABC-000001"},
		{"formato desconocido reinicia", "ABC", "ABC-7", "ABC-000001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := numbering.NextSaleNumber(tc.prefix, tc.last)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextSaleNumber_PrefijoInvalido(t *testing.T) {
	for _, p := range []string{"", "AB", "ABCD", "AB1"} {
		_, err := numbering.NextSaleNumber(p, "")
		assert.ErrorIs(t, err, domain.ErrInvalidPrefix, p)
	}
}

func TestNextOrderNumber(t *testing.T) {
	assert.Equal(t, "HND-ORD-000001", numbering.NextOrderNumber("HND-ORD", ""))
	assert.Equal(t, "HND-ORD-000042", numbering.NextOrderNumber("HND-ORD", "HND-ORD-000041"))
	assert.Equal(t, "HND-ORD-000001", numbering.NextOrderNumber("HND-ORD", "HND-ORD-xyz"))
	assert.Equal(t, "HND-ORD-000001", numbering.NextOrderNumber("HND-ORD", "OTRO-000005"))
}
