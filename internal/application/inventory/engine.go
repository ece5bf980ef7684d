package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/pkg/logger"
)

// Engine es el único punto de escritura de products_stock_status: aplica cada fila
// nueva del libro con la misma regla que usa el replay.
type Engine struct {
	log *logger.Logger
	now inventory.Clock
}

// NewEngine construye el motor. now nil usa time.Now.
func NewEngine(log *logger.Logger, now inventory.Clock) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{log: log.Component("stock-engine"), now: now}
}

// Append valida e inserta la fila en el libro sin tocar saldos.
// Quien llama debe reconstruir las claves afectadas con RebuildKeys.
func (e *Engine) Append(ctx context.Context, r Repos, tx *entity.StockTransaction) error {
	m, err := toMovement(tx)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	return r.Transactions.Create(ctx, tx)
}

// Lock serializa la transacción actual con cualquier otra que escriba o reconstruya
// los mismos pares producto/lote. Los pares se bloquean en orden para evitar deadlocks;
// volver a bloquear un par ya tomado no espera.
func (e *Engine) Lock(ctx context.Context, r Repos, pairs []productBatch) error {
	sorted := append([]productBatch(nil), pairs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProductID != sorted[j].ProductID {
			return sorted[i].ProductID < sorted[j].ProductID
		}
		return sorted[i].BatchID < sorted[j].BatchID
	})
	for _, pb := range sorted {
		if err := r.Balances.LockProductBatch(ctx, pb.ProductID, pb.BatchID); err != nil {
			return fmt.Errorf("stock: bloquear lote %s/%s: %w", pb.ProductID, pb.BatchID, err)
		}
	}
	return nil
}

// Record inserta la fila en el libro y aplica sus efectos. Toma primero el lock del
// par producto/lote y luego cada saldo (SELECT FOR UPDATE) en orden de clave.
// Debe ejecutarse dentro de TxRunner.Run.
//
// Una fila con fecha anterior a la última del par producto/lote no se aplica de forma
// incremental: se reproduce el libro del par para respetar el orden cronológico.
// En ese caso no hay Outcomes.
func (e *Engine) Record(ctx context.Context, r Repos, tx *entity.StockTransaction) ([]inventory.Outcome, error) {
	m, err := toMovement(tx)
	if err != nil {
		return nil, err
	}
	effects, err := inventory.Effects(m)
	if err != nil {
		return nil, err
	}
	if err := e.Lock(ctx, r, []productBatch{{ProductID: tx.ProductID, BatchID: tx.BatchID}}); err != nil {
		return nil, err
	}
	latest, err := r.Transactions.LatestOccurredAt(ctx, tx.ProductID, tx.BatchID)
	if err != nil {
		return nil, err
	}
	if err := r.Transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("stock: insertar transacción: %w", err)
	}
	if tx.OccurredAt.Before(latest) {
		e.log.Info().Str("tx_id", tx.ID).Time("occurred_at", tx.OccurredAt).
			Msg("transacción con fecha anterior; se reconstruyen los saldos del lote")
		_, err := e.RebuildKeys(ctx, r, []productBatch{{ProductID: tx.ProductID, BatchID: tx.BatchID}})
		return nil, err
	}

	outcomes := make([]inventory.Outcome, 0, len(effects))
	for _, eff := range effects {
		current, err := r.Balances.GetForUpdate(ctx, eff.Key.ProductID, eff.Key.BatchID,
			string(eff.Key.Location.Type), eff.Key.Location.ID)
		if err != nil {
			return nil, fmt.Errorf("stock: bloquear saldo %s: %w", eff.Key, err)
		}
		out, err := eff.Apply(toDomainBalance(current))
		if err != nil {
			return nil, err
		}
		out.Balance.UpdatedAt = e.now().UTC()
		if err := r.Balances.Upsert(ctx, fromDomainBalance(out.Balance)); err != nil {
			return nil, fmt.Errorf("stock: guardar saldo %s: %w", eff.Key, err)
		}
		if out.Shortfall > 0 {
			e.log.Warn().
				Str("tx_id", tx.ID).
				Str("type", tx.Type).
				Str("key", eff.Key.String()).
				Int64("shortfall", out.Shortfall).
				Msg("salida mayor al saldo disponible; saldo llevado a cero")
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// productBatch par producto/lote cuyo libro se vuelve a reproducir.
type productBatch struct {
	ProductID string
	BatchID   string
}

func pairsOf(txs ...[]*entity.StockTransaction) []productBatch {
	seen := map[productBatch]bool{}
	var out []productBatch
	for _, group := range txs {
		for _, tx := range group {
			k := productBatch{ProductID: tx.ProductID, BatchID: tx.BatchID}
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// RebuildKeys recalcula los saldos de cada par producto/lote reproduciendo su libro.
// Con los pares bloqueados borra los saldos y escribe el resultado del replay.
func (e *Engine) RebuildKeys(ctx context.Context, r Repos, pairs []productBatch) (int, error) {
	if err := e.Lock(ctx, r, pairs); err != nil {
		return 0, err
	}
	written := 0
	for _, pb := range pairs {
		if err := r.Balances.DeleteByProductBatch(ctx, pb.ProductID, pb.BatchID); err != nil {
			return written, fmt.Errorf("stock: limpiar saldos: %w", err)
		}
		txs, err := r.Transactions.ListByProductBatch(ctx, pb.ProductID, pb.BatchID)
		if err != nil {
			return written, fmt.Errorf("stock: leer libro: %w", err)
		}
		n, err := e.writeReplay(ctx, r, txs)
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

// RebuildAll reemplaza todos los saldos materializados por el replay del libro completo.
func (e *Engine) RebuildAll(ctx context.Context, r Repos) (replayed, written int, err error) {
	if err := r.Balances.LockAll(ctx); err != nil {
		return 0, 0, fmt.Errorf("stock: bloquear saldos: %w", err)
	}
	if err := r.Balances.DeleteAll(ctx); err != nil {
		return 0, 0, fmt.Errorf("stock: limpiar saldos: %w", err)
	}
	txs, err := r.Transactions.ListAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("stock: leer libro: %w", err)
	}
	written, err = e.writeReplay(ctx, r, txs)
	return len(txs), written, err
}

func (e *Engine) writeReplay(ctx context.Context, r Repos, txs []*entity.StockTransaction) (int, error) {
	ledger, err := replayStored(txs)
	if err != nil {
		return 0, err
	}
	now := e.now().UTC()
	balances := ledger.Balances()
	for _, b := range balances {
		b.UpdatedAt = now
		if err := r.Balances.Upsert(ctx, fromDomainBalance(b)); err != nil {
			return 0, fmt.Errorf("stock: guardar saldo %s: %w", b.Key, err)
		}
	}
	return len(balances), nil
}
