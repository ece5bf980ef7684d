package inventory

import (
	"context"

	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD.
type Repos struct {
	Transactions repository.StockTransactionRepository
	Balances     repository.StockBalanceRepository
	Batches      repository.BatchRepository
	Purchases    repository.PurchaseRepository
	Sales        repository.SaleRepository
	Adjustments  repository.AdjustmentRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
