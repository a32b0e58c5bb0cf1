// Package period maneja los meses "YYYY-MM" usados como clave de captura y de libro.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/428lab/sales-aggregator/internal/domain"
)

// Layout formato canónico de un mes.
const Layout = "2006-01"

// FirstOptionMonth primer mes ofrecido en el selector.
const FirstOptionMonth = "2020-01"

// Parse valida un mes "YYYY-MM" y devuelve el primer día del mes en UTC.
func Parse(month string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, month)
	}
	return t.UTC(), nil
}

// Valid indica si month es un "YYYY-MM" bien formado.
func Valid(month string) bool {
	_, err := Parse(month)
	return err == nil
}

// Normalize devuelve el mes canónico o "" si no es válido. Acepta fechas "YYYY-MM-DD..." tomando los 7 primeros caracteres.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 7 {
		s = s[:7]
	}
	if !Valid(s) {
		return ""
	}
	return s
}

// Of devuelve el mes de t en UTC.
func Of(t time.Time) string {
	return t.UTC().Format(Layout)
}

// FirstDay devuelve la fecha de venta que se registra para el mes (día 1, 00:00 UTC).
func FirstDay(month string) (time.Time, error) {
	return Parse(month)
}

// Label etiqueta de presentación, p. ej. "2024年3月".
func Label(month string) string {
	t, err := Parse(month)
	if err != nil {
		return month
	}
	return fmt.Sprintf("%d年%d月", t.Year(), int(t.Month()))
}

// Option entrada del selector de meses.
type Option struct {
	Value string
	Label string
}

// Options devuelve los meses desde FirstOptionMonth hasta el mes de now, del más reciente al más antiguo.
func Options(now time.Time) []Option {
	start, _ := Parse(FirstOptionMonth)
	end, _ := Parse(Of(now))
	var out []Option
	for m := end; !m.Before(start); m = m.AddDate(0, -1, 0) {
		v := Of(m)
		out = append(out, Option{Value: v, Label: Label(v)})
	}
	return out
}
