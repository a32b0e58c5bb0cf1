package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/428lab/sales-aggregator/internal/domain/period"
)

// row una línea del CSV tal como la escribe la exportación (/export.csv).
// subtotal, charges y payout se ignoran: se rederivan de las copias.
type row struct {
	Line          int
	Month         string
	Platform      string
	Item          string
	Variant       string
	Quantity      int
	BasePrice     decimal.Decimal
	FeePercentage decimal.Decimal
	ShippingFee   decimal.Decimal
	TotalAmount   decimal.Decimal
}

var required = []string{"month", "platform", "item", "variant", "quantity", "total_amount"}

// decodeReader envuelve r con el decodificador del encoding indicado ("sjis" o "utf8").
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
		return r, nil
	case "sjis", "shift_jis", "shift-jis":
		return transform.NewReader(r, japanese.ShiftJIS.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("encoding no soportado: %s", encoding)
	}
}

// parseRows lee el CSV con cabecera. Las líneas con cantidad ≤ 0 se omiten; un mes o número
// inválido aborta la importación indicando la línea.
func parseRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}
	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	money := func(rec []string, col string, line int) (decimal.Decimal, error) {
		s := get(rec, col)
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("línea %d: %s inválido: %q", line, col, s)
		}
		if d.IsNegative() {
			return decimal.Zero, nil
		}
		return d, nil
	}

	var rows []row
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		month := get(rec, "month")
		if _, err := period.Parse(month); err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		q, err := strconv.Atoi(get(rec, "quantity"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: cantidad inválida", line)
		}
		if q <= 0 {
			continue
		}
		x := row{
			Line: line, Month: month, Quantity: q,
			Platform: get(rec, "platform"), Item: get(rec, "item"), Variant: get(rec, "variant"),
		}
		if x.BasePrice, err = money(rec, "base_price", line); err != nil {
			return nil, err
		}
		if x.FeePercentage, err = money(rec, "fee_percentage", line); err != nil {
			return nil, err
		}
		if x.ShippingFee, err = money(rec, "shipping_fee", line); err != nil {
			return nil, err
		}
		if x.TotalAmount, err = money(rec, "total_amount", line); err != nil {
			return nil, err
		}
		rows = append(rows, x)
	}
	return rows, nil
}
