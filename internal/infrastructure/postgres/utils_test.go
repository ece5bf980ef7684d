package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
)

func TestMapWriteError(t *testing.T) {
	assert.NoError(t, mapWriteError("x", nil))
	assert.ErrorIs(t, mapWriteError("insert", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)
	assert.ErrorIs(t, mapWriteError("delete", &pgconn.PgError{Code: "23503"}), domain.ErrConflict)
	assert.ErrorIs(t, mapWriteError("lock", &pgconn.PgError{Code: "55P03"}), domain.ErrConflict)
	assert.ErrorIs(t, mapWriteError("lock", &pgconn.PgError{Code: "40P01"}), domain.ErrConflict)

	base := errors.New("conexión perdida")
	err := mapWriteError("insert", base)
	assert.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.sql())

	w.add("product_id = ?", "P")
	w.add("(source_id::text = ? OR destination_id::text = ?)", "L")
	assert.Equal(t, " WHERE product_id = $1 AND (source_id::text = $2 OR destination_id::text = $2)", w.sql())
	assert.Equal(t, " LIMIT $3 OFFSET $4", w.page(10, 0))
	assert.Equal(t, []any{"P", "L", 10, 0}, w.args)
}
