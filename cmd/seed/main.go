// seed genera un script SQL idempotente para poblar el catálogo (categorías,
// productos y unidades de empaque) a partir de un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed -in catalogo.csv [-charset latin1] [-out ruta.sql]
// Por defecto escribe internal/infrastructure/postgres/migrations/002_seed_catalog.sql,
// que la API aplica al arrancar. SEED_CSV, SEED_CHARSET y SEED_OUT en .env sirven de valores por defecto.
//
// Columnas: code,name,generic_name,manufacturer,category,base_cost,min_stock_godown,min_stock_mr,box_factor
// (code, name y category son obligatorias; box_factor > 1 agrega la unidad Box).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	in := flag.String("in", envOr("SEED_CSV", "catalogo.csv"), "CSV de productos")
	charset := flag.String("charset", envOr("SEED_CHARSET", "utf-8"), "utf-8 | latin1")
	out := flag.String("out", envOr("SEED_OUT", ""), "script SQL de salida")
	flag.Parse()

	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	}

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := readCatalog(f, *charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	w, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	stats, err := writeSeed(w, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías, %d productos, %d unidades\n", outPath, stats.categories, stats.products, stats.units)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
