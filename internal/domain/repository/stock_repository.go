package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
)

// TransactionFilter filtros sobre stock_transactions_view. Los campos vacíos no filtran.
type TransactionFilter struct {
	ProductID    string
	BatchID      string
	LocationType string // coincide con origen o destino
	LocationID   string
	Type         string
	Search       string // código o nombre de producto
	CategoryID   string
	BatchSearch  string // subcadena del número de lote
	From, To     *time.Time
	ExpiryFrom   *time.Time
	ExpiryTo     *time.Time
	Limit        int // 0 = sin límite
	Offset       int
}

// StockTransactionRepository puerto del libro de stock (append-only).
type StockTransactionRepository interface {
	// Create inserta la fila y asigna Seq.
	Create(ctx context.Context, tx *entity.StockTransaction) error
	List(ctx context.Context, f TransactionFilter) ([]*entity.StockTransactionView, error)
	ListByProductBatch(ctx context.Context, productID, batchID string) ([]*entity.StockTransaction, error)
	ListAll(ctx context.Context) ([]*entity.StockTransaction, error)
	// LatestOccurredAt fecha más reciente del par producto/lote (cero si no hay filas).
	LatestOccurredAt(ctx context.Context, productID, batchID string) (time.Time, error)
	// DeleteByReference borra el grupo de transacciones de un documento y lo devuelve.
	DeleteByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.StockTransaction, error)
}

// BalanceFilter filtros de saldos materializados.
type BalanceFilter struct {
	LocationType string
	LocationID   string
	ProductID    string
	PositiveOnly bool
}

// StockBalanceRepository puerto de products_stock_status. Usado dentro de transacciones
// para garantizar consistencia.
type StockBalanceRepository interface {
	// LockProductBatch serializa escrituras y reconstrucciones del par producto/lote
	// hasta el fin de la transacción, exista o no la fila de saldo.
	LockProductBatch(ctx context.Context, productID, batchID string) error
	// LockAll excluye a todo escritor de saldos hasta el fin de la transacción.
	LockAll(ctx context.Context) error
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); devuelve nil si no existe.
	GetForUpdate(ctx context.Context, productID, batchID, locationType, locationID string) (*entity.StockBalance, error)
	Upsert(ctx context.Context, b *entity.StockBalance) error
	List(ctx context.Context, f BalanceFilter) ([]*entity.StockBalanceView, error)
	ListAll(ctx context.Context) ([]*entity.StockBalance, error)
	DeleteByProductBatch(ctx context.Context, productID, batchID string) error
	DeleteAll(ctx context.Context) error
}
