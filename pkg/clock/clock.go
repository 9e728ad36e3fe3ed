package clock

import "time"

// Clock provee la hora actual para created_at, *_at y movimientos del ledger.
type Clock interface {
	Now() time.Time
}

// System devuelve la hora del sistema en UTC, truncada a microsegundos (precisión de timestamptz).
type System struct{}

func (System) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// Fixed devuelve siempre el mismo instante; útil en tests.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// ISOLayout es ISO-8601 con precisión fija, ordenable lexicográficamente.
const ISOLayout = "2006-01-02T15:04:05.000000Z"

// ISO formatea un instante en UTC con ISOLayout.
func ISO(t time.Time) string { return t.UTC().Format(ISOLayout) }
