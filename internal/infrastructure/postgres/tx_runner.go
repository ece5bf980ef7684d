package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pharma-stock-api/internal/application/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/application/usecase"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// TxRunner implementa inventory.TxRunner, usecase.PackagingTxRunner y usecase.CatalogTxRunner.
var (
	_ inventory.TxRunner        = (*TxRunner)(nil)
	_ usecase.PackagingTxRunner = (*TxRunner)(nil)
	_ usecase.CatalogTxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.Repos{
		Transactions: NewStockTransactionRepository(tx),
		Balances:     NewStockBalanceRepository(tx),
		Batches:      NewBatchRepository(tx),
		Purchases:    NewPurchaseRepository(tx),
		Sales:        NewSaleRepository(tx),
		Adjustments:  NewAdjustmentRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPackaging ejecuta fn con el repositorio de empaques atado a una tx (reemplazo atómico de unidades).
func (r *TxRunner) RunPackaging(ctx context.Context, fn func(repo repository.PackagingRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewPackagingRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCatalog ejecuta fn con productos y empaques atados a la misma tx (alta de producto con sus unidades).
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(products repository.ProductRepository, packaging repository.PackagingRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewPackagingRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
