package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// seedNamespace fija los UUID generados: el mismo código produce siempre el mismo id.
var seedNamespace = uuid.MustParse("6f1c2a4e-9b53-4c1f-8f0a-3d5e7b9c1a20")

type catalogRow struct {
	Code           string
	Name           string
	GenericName    string
	Manufacturer   string
	Category       string
	BaseCost       decimal.Decimal
	MinStockGodown int64
	MinStockMR     int64
	BoxFactor      int64
}

type seedStats struct {
	categories, products, units int
}

// readCatalog lee el CSV con encabezado. charset latin1 decodifica ISO-8859-1.
func readCatalog(r io.Reader, charset string) ([]catalogRow, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "windows-1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, req := range []string{"code", "name", "category"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("falta la columna %q", req)
		}
	}

	var rows []catalogRow
	seen := make(map[string]int)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		row := catalogRow{
			Code:         get("code"),
			Name:         get("name"),
			GenericName:  get("generic_name"),
			Manufacturer: get("manufacturer"),
			Category:     get("category"),
			BaseCost:     decimal.Zero,
		}
		if row.Code == "" || row.Name == "" || row.Category == "" {
			return nil, fmt.Errorf("línea %d: code, name y category son obligatorios", line)
		}
		if v := get("base_cost"); v != "" {
			// Acepta coma decimal de hojas de cálculo en español.
			cost, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
			if err != nil || cost.IsNegative() {
				return nil, fmt.Errorf("línea %d: base_cost inválido %q", line, v)
			}
			row.BaseCost = cost
		}
		if row.MinStockGodown, err = nonNegative(get("min_stock_godown")); err != nil {
			return nil, fmt.Errorf("línea %d: min_stock_godown: %w", line, err)
		}
		if row.MinStockMR, err = nonNegative(get("min_stock_mr")); err != nil {
			return nil, fmt.Errorf("línea %d: min_stock_mr: %w", line, err)
		}
		if row.BoxFactor, err = nonNegative(get("box_factor")); err != nil {
			return nil, fmt.Errorf("línea %d: box_factor: %w", line, err)
		}
		// Un código repetido reemplaza la fila anterior.
		if i, ok := seen[row.Code]; ok {
			rows[i] = row
			continue
		}
		seen[row.Code] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

func nonNegative(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("valor inválido %q", s)
	}
	return n, nil
}

func seedID(kind, key string) string {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+key)).String()
}

// writeSeed escribe el SQL. Todas las sentencias usan ON CONFLICT para poder reaplicarse.
func writeSeed(w io.Writer, rows []catalogRow) (seedStats, error) {
	var stats seedStats
	var b strings.Builder

	cats := make(map[string]struct{})
	for _, r := range rows {
		cats[r.Category] = struct{}{}
	}
	names := make([]string, 0, len(cats))
	for c := range cats {
		names = append(names, c)
	}
	sort.Strings(names)

	b.WriteString("-- Catálogo inicial generado por cmd/seed\n\n")
	if len(names) > 0 {
		b.WriteString("-- 1. Categorías\n")
		b.WriteString("INSERT INTO product_categories (id, name) VALUES\n")
		for i, n := range names {
			sep := ","
			if i == len(names)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  ('%s', '%s')%s\n", seedID("category", n), escapeSQL(n), sep)
		}
		b.WriteString("ON CONFLICT (name) DO NOTHING;\n\n")
		stats.categories = len(names)
	}

	if len(rows) > 0 {
		b.WriteString("-- 2. Productos y unidades de empaque\n")
	}
	for _, r := range rows {
		pid := seedID("product", r.Code)
		fmt.Fprintf(&b, "INSERT INTO products (id, code, name, generic_name, manufacturer, category_id, base_cost, min_stock_godown, min_stock_mr)\n")
		fmt.Fprintf(&b, "SELECT '%s', '%s', '%s', '%s', '%s', id, %s, %d, %d FROM product_categories WHERE name = '%s'\n",
			pid, escapeSQL(r.Code), escapeSQL(r.Name), escapeSQL(r.GenericName), escapeSQL(r.Manufacturer),
			r.BaseCost.String(), r.MinStockGodown, r.MinStockMR, escapeSQL(r.Category))
		b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, generic_name = EXCLUDED.generic_name,\n")
		b.WriteString("  manufacturer = EXCLUDED.manufacturer, base_cost = EXCLUDED.base_cost,\n")
		b.WriteString("  min_stock_godown = EXCLUDED.min_stock_godown, min_stock_mr = EXCLUDED.min_stock_mr, updated_at = now();\n")
		stats.products++

		boxDefault := r.BoxFactor > 1
		writeUnit(&b, r.Code, "Strip", 1, 1, true, !boxDefault, true)
		stats.units++
		if boxDefault {
			writeUnit(&b, r.Code, "Box", r.BoxFactor, 2, false, true, false)
			stats.units++
		}
	}

	_, err := io.WriteString(w, b.String())
	return stats, err
}

// writeUnit inserta la unidad resolviendo el producto por código, por si ya existía con otro id.
func writeUnit(b *strings.Builder, code, unit string, factor int64, order int, base, defPurchase, defSale bool) {
	fmt.Fprintf(b, "INSERT INTO product_packaging_units (id, product_id, unit_name, conversion_factor, hierarchy_order, is_base_unit, is_default_purchase, is_default_sale)\n")
	fmt.Fprintf(b, "SELECT '%s', id, '%s', %d, %d, %t, %t, %t FROM products WHERE code = '%s'\n",
		seedID("unit", code+":"+unit), unit, factor, order, base, defPurchase, defSale, escapeSQL(code))
	b.WriteString("ON CONFLICT (product_id, unit_name) DO NOTHING;\n")
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
