// Package numbering genera los consecutivos de venta (AAA-000001) y de pedido (HND-ORD-000001).
package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jhoicas/estoque-pdv/internal/domain"
)

const digits = 6

var (
	salePrefixPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	saleNumberPattern = regexp.MustCompile(`^([A-Z]{3})-(\d{6})$`)
)

// NormalizeSalePrefix aplica trim + mayúsculas y valida 3 letras.
func NormalizeSalePrefix(prefix string) (string, error) {
	p := strings.ToUpper(strings.TrimSpace(prefix))
	if !salePrefixPattern.MatchString(p) {
		return "", domain.NewFieldError(domain.ErrInvalidPrefix, "prefix", prefix, "debe tener 3 letras mayúsculas")
	}
	return p, nil
}

// NextSaleNumber devuelve el consecutivo siguiente a last para el prefijo dado.
// last vacío o con formato desconocido reinicia en 000001.
func NextSaleNumber(prefix, last string) (string, error) {
	p, err := NormalizeSalePrefix(prefix)
	if err != nil {
		return "", err
	}
	m := saleNumberPattern.FindStringSubmatch(last)
	if m == nil || m[1] != p {
		return format(p, 1), nil
	}
	n, _ := strconv.Atoi(m[2])
	return format(p, n+1), nil
}

// NextOrderNumber acepta prefijos libres con guiones; el sufijo es lo que sigue al último guion.
func NextOrderNumber(prefix, last string) string {
	p := strings.TrimSpace(prefix)
	if last == "" || !strings.HasPrefix(last, p+"-") {
		return format(p, 1)
	}
	suffix := last[strings.LastIndex(last, "-")+1:]
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return format(p, 1)
	}
	return format(p, n+1)
}

func format(prefix string, n int) string {
	return fmt.Sprintf("%s-%0*d", prefix, digits, n)
}
