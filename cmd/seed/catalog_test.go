package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sampleCSV = `code,name,generic_name,manufacturer,category,base_cost,min_stock_godown,min_stock_mr,box_factor
PCM500,Paracetamol 500mg,Paracetamol,Lab A,Analgésicos,"1,25",100,10,10
IBU400,Ibuprofeno 400mg,,Lab B,Antiinflamatorios,2,50,5,
PCM500,Paracetamol 500mg tab,Paracetamol,Lab A,Analgésicos,1.30,120,12,10
`

func TestReadCatalog(t *testing.T) {
	rows, err := readCatalog(strings.NewReader(sampleCSV), "utf-8")
	require.NoError(t, err)
	require.Len(t, rows, 2, "el código repetido reemplaza la fila")

	assert.Equal(t, "Paracetamol 500mg tab", rows[0].Name)
	assert.Equal(t, "1.3", rows[0].BaseCost.String())
	assert.Equal(t, int64(120), rows[0].MinStockGodown)
	assert.Equal(t, int64(10), rows[0].BoxFactor)
	assert.Equal(t, int64(0), rows[1].BoxFactor)
}

func TestReadCatalog_Latin1(t *testing.T) {
	enc, err := charmap.ISO8859_1.NewEncoder().String("code,name,category\nX1,Jarabe niño,Pediatría\n")
	require.NoError(t, err)

	rows, err := readCatalog(strings.NewReader(enc), "latin1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jarabe niño", rows[0].Name)
	assert.Equal(t, "Pediatría", rows[0].Category)
}

func TestReadCatalog_Errores(t *testing.T) {
	_, err := readCatalog(strings.NewReader("code,name\nA,B\n"), "utf-8")
	assert.ErrorContains(t, err, "category")

	_, err = readCatalog(strings.NewReader("code,name,category,base_cost\nA,B,C,-1\n"), "utf-8")
	assert.ErrorContains(t, err, "base_cost")

	_, err = readCatalog(strings.NewReader("code,name,category\nA,B,C\n"), "ebcdic")
	assert.Error(t, err)
}

func TestWriteSeed(t *testing.T) {
	rows, err := readCatalog(strings.NewReader(sampleCSV+"D'1,Gotas D'Arcy,,,Analgésicos,0,0,0,\n"), "utf-8")
	require.NoError(t, err)

	var buf bytes.Buffer
	stats, err := writeSeed(&buf, rows)
	require.NoError(t, err)
	assert.Equal(t, seedStats{categories: 2, products: 3, units: 4}, stats)

	sql := buf.String()
	assert.Contains(t, sql, "ON CONFLICT (name) DO NOTHING;")
	assert.Contains(t, sql, "'Gotas D''Arcy'")
	assert.Contains(t, sql, "'Box', 10, 2, false, true, false")
	assert.Equal(t, 3, strings.Count(sql, "INSERT INTO products"))
	assert.Contains(t, sql, seedID("product", "PCM500"), "ids estables por código")
	assert.Equal(t, seedID("product", "PCM500"), seedID("product", "PCM500"))
}
