package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

var errDuplicateGRN = fmt.Errorf("%w: grn_number", domain.ErrDuplicate)

func defaultTestPolicy() inventory.Policy { return inventory.DefaultPolicy() }

// memDB base en memoria compartida por los repositorios falsos.
type memDB struct {
	mu          sync.Mutex
	products    map[string]*entity.Product
	batches     map[string]*entity.Batch
	units       map[string]*entity.PackagingUnit
	suppliers   map[string]*entity.Supplier
	godowns     map[string]*entity.Godown
	reps        map[string]*entity.MedicalRep
	txs         []*entity.StockTransaction
	seq         int64
	balances    map[string]*entity.StockBalance
	purchases   map[string]*entity.StockPurchase
	sales       map[string]*entity.StockSale
	adjustments []*entity.StockAdjustment
	runs        int
	// calls registro compartido de llamadas de bloqueo y escritura de saldos.
	calls *[]string
}

func newMemDB() *memDB {
	return &memDB{
		products:  map[string]*entity.Product{},
		batches:   map[string]*entity.Batch{},
		units:     map[string]*entity.PackagingUnit{},
		suppliers: map[string]*entity.Supplier{},
		godowns:   map[string]*entity.Godown{},
		reps:      map[string]*entity.MedicalRep{},
		balances:  map[string]*entity.StockBalance{},
		purchases: map[string]*entity.StockPurchase{},
		sales:     map[string]*entity.StockSale{},
		calls:     &[]string{},
	}
}

func (db *memDB) record(call string) { *db.calls = append(*db.calls, call) }

func balanceKey(productID, batchID, locType, locID string) string {
	return productID + "|" + batchID + "|" + locType + "|" + locID
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// memTx ejecuta fn sobre copias y solo publica si no hubo error (rollback simulado).
type memTx struct{ db *memDB }

func (t memTx) Run(ctx context.Context, fn func(r Repos) error) error {
	t.db.mu.Lock()
	snapshot := t.db.clone()
	t.db.runs++
	t.db.mu.Unlock()

	repos := Repos{
		Transactions: txRepo{snapshot},
		Balances:     balanceRepo{snapshot},
		Batches:      batchRepo{snapshot},
		Purchases:    purchaseRepo{snapshot},
		Sales:        saleRepo{snapshot},
		Adjustments:  adjustmentRepo{snapshot},
	}
	if err := fn(repos); err != nil {
		return err
	}
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.batches = snapshot.batches
	t.db.txs = snapshot.txs
	t.db.seq = snapshot.seq
	t.db.balances = snapshot.balances
	t.db.purchases = snapshot.purchases
	t.db.sales = snapshot.sales
	t.db.adjustments = snapshot.adjustments
	return nil
}

func (db *memDB) clone() *memDB {
	c := newMemDB()
	c.products, c.units, c.suppliers, c.godowns, c.reps = db.products, db.units, db.suppliers, db.godowns, db.reps
	for k, v := range db.batches {
		b := *v
		c.batches[k] = &b
	}
	for _, t := range db.txs {
		cp := *t
		c.txs = append(c.txs, &cp)
	}
	c.seq = db.seq
	c.calls = db.calls
	for k, v := range db.balances {
		b := *v
		c.balances[k] = &b
	}
	for k, v := range db.purchases {
		p := *v
		p.Items = append([]entity.StockPurchaseItem(nil), v.Items...)
		c.purchases[k] = &p
	}
	for k, v := range db.sales {
		s := *v
		c.sales[k] = &s
	}
	c.adjustments = append(c.adjustments, db.adjustments...)
	return c
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

type productRepo struct{ db *memDB }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.db.products[p.ID] = p
	return nil
}
func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.db.products[id], nil
}
func (r productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	for _, p := range r.db.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}
func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.db.products[p.ID] = p
	return nil
}
func (r productRepo) List(_ context.Context, _ repository.ProductFilter) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.db.products))
	for _, p := range r.db.products {
		out = append(out, p)
	}
	return out, nil
}
func (r productRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	for _, t := range r.db.txs {
		if t.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}
func (r productRepo) Delete(_ context.Context, id string) error {
	delete(r.db.products, id)
	return nil
}

type batchRepo struct{ db *memDB }

func (r batchRepo) Create(_ context.Context, b *entity.Batch) error {
	r.db.batches[b.ID] = b
	return nil
}
func (r batchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	return r.db.batches[id], nil
}
func (r batchRepo) GetByProductAndNumber(_ context.Context, productID, number string) (*entity.Batch, error) {
	for _, b := range r.db.batches {
		if b.ProductID == productID && b.BatchNumber == number {
			return b, nil
		}
	}
	return nil, nil
}
func (r batchRepo) ListByProduct(_ context.Context, productID string, includeInactive bool) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.db.batches {
		if b.ProductID == productID && (includeInactive || b.IsActive) {
			out = append(out, b)
		}
	}
	return out, nil
}
func (r batchRepo) Update(_ context.Context, b *entity.Batch) error {
	r.db.batches[b.ID] = b
	return nil
}

type packagingRepo struct{ db *memDB }

func (r packagingRepo) ListUnits(_ context.Context, productID string) ([]*entity.PackagingUnit, error) {
	var out []*entity.PackagingUnit
	for _, u := range r.db.units {
		if u.ProductID == productID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HierarchyOrder < out[j].HierarchyOrder })
	return out, nil
}
func (r packagingRepo) GetUnit(_ context.Context, id string) (*entity.PackagingUnit, error) {
	return r.db.units[id], nil
}
func (r packagingRepo) ReplaceUnits(_ context.Context, productID string, units []*entity.PackagingUnit) error {
	for id, u := range r.db.units {
		if u.ProductID == productID {
			delete(r.db.units, id)
		}
	}
	for _, u := range units {
		r.db.units[u.ID] = u
	}
	return nil
}
func (r packagingRepo) CreateTemplate(context.Context, *entity.PackagingTemplate) error { return nil }
func (r packagingRepo) GetTemplate(context.Context, string) (*entity.PackagingTemplate, error) {
	return nil, nil
}
func (r packagingRepo) ListTemplates(context.Context) ([]*entity.PackagingTemplate, error) {
	return nil, nil
}

type supplierRepo struct{ db *memDB }

func (r supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.db.suppliers[s.ID] = s
	return nil
}
func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return r.db.suppliers[id], nil
}
func (r supplierRepo) List(context.Context, bool) ([]*entity.Supplier, error) { return nil, nil }
func (r supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	r.db.suppliers[s.ID] = s
	return nil
}

type godownRepo struct{ db *memDB }

func (r godownRepo) Create(_ context.Context, g *entity.Godown) error {
	r.db.godowns[g.ID] = g
	return nil
}
func (r godownRepo) GetByID(_ context.Context, id string) (*entity.Godown, error) {
	return r.db.godowns[id], nil
}
func (r godownRepo) List(context.Context, bool) ([]*entity.Godown, error) { return nil, nil }
func (r godownRepo) Update(_ context.Context, g *entity.Godown) error {
	r.db.godowns[g.ID] = g
	return nil
}

type repRepo struct{ db *memDB }

func (r repRepo) Create(_ context.Context, m *entity.MedicalRep) error {
	r.db.reps[m.ID] = m
	return nil
}
func (r repRepo) GetByID(_ context.Context, id string) (*entity.MedicalRep, error) {
	return r.db.reps[id], nil
}
func (r repRepo) List(context.Context, bool) ([]*entity.MedicalRep, error) { return nil, nil }
func (r repRepo) Update(_ context.Context, m *entity.MedicalRep) error {
	r.db.reps[m.ID] = m
	return nil
}

// ── Libro y saldos ────────────────────────────────────────────────────────────

type txRepo struct{ db *memDB }

func (r txRepo) Create(_ context.Context, t *entity.StockTransaction) error {
	r.db.seq++
	t.Seq = r.db.seq
	cp := *t
	r.db.txs = append(r.db.txs, &cp)
	return nil
}

func (r txRepo) view(t *entity.StockTransaction) *entity.StockTransactionView {
	v := &entity.StockTransactionView{StockTransaction: *t}
	if p := r.db.products[t.ProductID]; p != nil {
		v.ProductCode, v.ProductName, v.CategoryID = p.Code, p.Name, p.CategoryID
	}
	if b := r.db.batches[t.BatchID]; b != nil {
		v.BatchNumber, v.ExpiryDate = b.BatchNumber, b.ExpiryDate
	}
	return v
}

func (r txRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.StockTransactionView, error) {
	var out []*entity.StockTransactionView
	for _, t := range r.db.txs {
		v := r.view(t)
		if f.ProductID != "" && t.ProductID != f.ProductID {
			continue
		}
		if f.BatchID != "" && t.BatchID != f.BatchID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.CategoryID != "" && v.CategoryID != f.CategoryID {
			continue
		}
		if f.BatchSearch != "" && !strings.Contains(strings.ToLower(v.BatchNumber), strings.ToLower(f.BatchSearch)) {
			continue
		}
		if f.LocationID != "" && t.SourceID != f.LocationID && t.DestinationID != f.LocationID {
			continue
		}
		out = append(out, v)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r txRepo) ListByProductBatch(_ context.Context, productID, batchID string) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	for _, t := range r.db.txs {
		if t.ProductID == productID && t.BatchID == batchID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r txRepo) ListAll(context.Context) ([]*entity.StockTransaction, error) {
	out := make([]*entity.StockTransaction, 0, len(r.db.txs))
	for _, t := range r.db.txs {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (r txRepo) LatestOccurredAt(_ context.Context, productID, batchID string) (time.Time, error) {
	var latest time.Time
	for _, t := range r.db.txs {
		if t.ProductID == productID && t.BatchID == batchID && t.OccurredAt.After(latest) {
			latest = t.OccurredAt
		}
	}
	return latest, nil
}

func (r txRepo) DeleteByReference(_ context.Context, refType, refID string) ([]*entity.StockTransaction, error) {
	var kept, deleted []*entity.StockTransaction
	for _, t := range r.db.txs {
		if t.ReferenceType == refType && t.ReferenceID == refID {
			deleted = append(deleted, t)
			continue
		}
		kept = append(kept, t)
	}
	r.db.txs = kept
	return deleted, nil
}

type balanceRepo struct{ db *memDB }

func (r balanceRepo) LockProductBatch(_ context.Context, productID, batchID string) error {
	r.db.record("lock " + productID + "|" + batchID)
	return nil
}

func (r balanceRepo) LockAll(context.Context) error {
	r.db.record("lockall")
	return nil
}

func (r balanceRepo) GetForUpdate(_ context.Context, productID, batchID, locType, locID string) (*entity.StockBalance, error) {
	r.db.record("get " + balanceKey(productID, batchID, locType, locID))
	b := r.db.balances[balanceKey(productID, batchID, locType, locID)]
	if b == nil {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r balanceRepo) Upsert(_ context.Context, b *entity.StockBalance) error {
	r.db.record("upsert " + balanceKey(b.ProductID, b.BatchID, b.LocationType, b.LocationID))
	cp := *b
	r.db.balances[balanceKey(b.ProductID, b.BatchID, b.LocationType, b.LocationID)] = &cp
	return nil
}

func (r balanceRepo) List(_ context.Context, f repository.BalanceFilter) ([]*entity.StockBalanceView, error) {
	var out []*entity.StockBalanceView
	for _, b := range r.db.balances {
		if f.LocationType != "" && b.LocationType != f.LocationType {
			continue
		}
		if f.LocationID != "" && b.LocationID != f.LocationID {
			continue
		}
		if f.ProductID != "" && b.ProductID != f.ProductID {
			continue
		}
		if f.PositiveOnly && b.Quantity <= 0 {
			continue
		}
		v := &entity.StockBalanceView{StockBalance: *b}
		if p := r.db.products[b.ProductID]; p != nil {
			v.ProductCode, v.ProductName, v.CategoryID = p.Code, p.Name, p.CategoryID
			v.MinStockGodown, v.MinStockMR = p.MinStockGodown, p.MinStockMR
		}
		if bt := r.db.batches[b.BatchID]; bt != nil {
			v.BatchNumber, v.ExpiryDate = bt.BatchNumber, bt.ExpiryDate
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return balanceKey(out[i].ProductID, out[i].BatchID, out[i].LocationType, out[i].LocationID) <
			balanceKey(out[j].ProductID, out[j].BatchID, out[j].LocationType, out[j].LocationID)
	})
	return out, nil
}

func (r balanceRepo) ListAll(context.Context) ([]*entity.StockBalance, error) {
	out := make([]*entity.StockBalance, 0, len(r.db.balances))
	for _, b := range r.db.balances {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r balanceRepo) DeleteByProductBatch(_ context.Context, productID, batchID string) error {
	r.db.record("delete " + productID + "|" + batchID)
	for k, b := range r.db.balances {
		if b.ProductID == productID && b.BatchID == batchID {
			delete(r.db.balances, k)
		}
	}
	return nil
}

func (r balanceRepo) DeleteAll(context.Context) error {
	r.db.record("deleteall")
	r.db.balances = map[string]*entity.StockBalance{}
	return nil
}

// ── Documentos ────────────────────────────────────────────────────────────────

type purchaseRepo struct{ db *memDB }

func (r purchaseRepo) Create(_ context.Context, p *entity.StockPurchase) error {
	for _, x := range r.db.purchases {
		if x.GRNNumber == p.GRNNumber {
			return errDuplicateGRN
		}
	}
	cp := *p
	cp.Items = append([]entity.StockPurchaseItem(nil), p.Items...)
	r.db.purchases[p.ID] = &cp
	return nil
}
func (r purchaseRepo) Update(_ context.Context, p *entity.StockPurchase) error {
	cp := *p
	cp.Items = append([]entity.StockPurchaseItem(nil), p.Items...)
	r.db.purchases[p.ID] = &cp
	return nil
}
func (r purchaseRepo) Delete(_ context.Context, id string) error {
	delete(r.db.purchases, id)
	return nil
}
func (r purchaseRepo) GetByID(_ context.Context, id string) (*entity.StockPurchase, error) {
	p := r.db.purchases[id]
	if p == nil {
		return nil, nil
	}
	cp := *p
	cp.Items = append([]entity.StockPurchaseItem(nil), p.Items...)
	return &cp, nil
}
func (r purchaseRepo) List(context.Context, repository.DocumentFilter) ([]*entity.StockPurchase, error) {
	out := make([]*entity.StockPurchase, 0, len(r.db.purchases))
	for _, p := range r.db.purchases {
		out = append(out, p)
	}
	return out, nil
}

type saleRepo struct{ db *memDB }

func (r saleRepo) Create(_ context.Context, s *entity.StockSale) error {
	cp := *s
	r.db.sales[s.ID] = &cp
	return nil
}
func (r saleRepo) GetByID(_ context.Context, id string) (*entity.StockSale, error) {
	return r.db.sales[id], nil
}
func (r saleRepo) List(_ context.Context, kind string, _ repository.DocumentFilter) ([]*entity.StockSale, error) {
	var out []*entity.StockSale
	for _, s := range r.db.sales {
		if kind == "" || s.Kind == kind {
			out = append(out, s)
		}
	}
	return out, nil
}

type adjustmentRepo struct{ db *memDB }

func (r adjustmentRepo) Create(_ context.Context, a *entity.StockAdjustment) error {
	r.db.adjustments = append(r.db.adjustments, a)
	return nil
}
func (r adjustmentRepo) List(context.Context, repository.DocumentFilter) ([]*entity.StockAdjustment, error) {
	return r.db.adjustments, nil
}

// ── Fixture ───────────────────────────────────────────────────────────────────

const (
	productID  = "11111111-1111-1111-1111-111111111111"
	batchID    = "22222222-2222-2222-2222-222222222222"
	godownID   = "33333333-3333-3333-3333-333333333333"
	godown2ID  = "33333333-3333-3333-3333-333333333334"
	repID      = "44444444-4444-4444-4444-444444444444"
	supplierID = "55555555-5555-5555-5555-555555555555"
	boxUnitID  = "66666666-6666-6666-6666-666666666666"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// world base con un producto (Strip/Box×10), un lote, dos bodegas, un MR y un proveedor.
type world struct {
	db     *memDB
	tx     memTx
	refs   *References
	engine *Engine
}

func newWorld() *world {
	db := newMemDB()
	db.products[productID] = &entity.Product{
		ID: productID, Code: "PARA500", Name: "Paracetamol 500mg", CategoryID: "cat-1",
		BaseCost: decimal.NewFromInt(2), MinStockGodown: 100, MinStockMR: 10, IsActive: true,
	}
	db.batches[batchID] = &entity.Batch{
		ID: batchID, ProductID: productID, BatchNumber: "LOT-A",
		ExpiryDate: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), IsActive: true,
	}
	db.units["strip"] = &entity.PackagingUnit{ID: "strip", ProductID: productID, UnitName: "Strip", ConversionFactor: 1, HierarchyOrder: 1, IsBaseUnit: true}
	db.units[boxUnitID] = &entity.PackagingUnit{ID: boxUnitID, ProductID: productID, UnitName: "Box", ConversionFactor: 10, HierarchyOrder: 2}
	db.godowns[godownID] = &entity.Godown{ID: godownID, Name: "Central", IsActive: true}
	db.godowns[godown2ID] = &entity.Godown{ID: godown2ID, Name: "Norte", IsActive: true}
	db.reps[repID] = &entity.MedicalRep{ID: repID, Name: "Ana", IsActive: true}
	db.suppliers[supplierID] = &entity.Supplier{ID: supplierID, Name: "Pharma SA", IsActive: true}

	refs := NewReferences(productRepo{db}, batchRepo{db}, packagingRepo{db}, supplierRepo{db}, godownRepo{db}, repRepo{db})
	return &world{db: db, tx: memTx{db}, refs: refs, engine: NewEngine(nil, clock)}
}

func (w *world) balance(locType, locID string) *entity.StockBalance {
	return w.db.balances[balanceKey(productID, batchID, locType, locID)]
}

func (w *world) recorder() *RecordTransactionUseCase {
	return NewRecordTransactionUseCase(w.tx, w.refs, w.engine, nil, clock)
}

func (w *world) queries() *StockQueryUseCase {
	return NewStockQueryUseCase(w.tx, w.engine, w.refs, productRepo{w.db}, txRepo{w.db}, balanceRepo{w.db},
		defaultTestPolicy(), clock, nil)
}
