package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

type fakeProducts struct {
	items      map[string]*entity.Product
	referenced map[string]bool
	deletes    int
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: map[string]*entity.Product{}, referenced: map[string]bool{}}
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	for _, p := range f.items {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) List(_ context.Context, flt repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.items {
		if flt.ActiveOnly && !p.IsActive {
			continue
		}
		if flt.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(flt.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeProducts) IsReferenced(_ context.Context, id string) (bool, error) {
	return f.referenced[id], nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.deletes++
	delete(f.items, id)
	return nil
}

type fakeCategories struct {
	cats  map[string]*entity.ProductCategory
	subs  map[string]*entity.ProductSubCategory
	forms map[string]*entity.ProductFormulation
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{
		cats:  map[string]*entity.ProductCategory{},
		subs:  map[string]*entity.ProductSubCategory{},
		forms: map[string]*entity.ProductFormulation{},
	}
}

func (f *fakeCategories) CreateCategory(_ context.Context, c *entity.ProductCategory) error {
	for _, other := range f.cats {
		if strings.EqualFold(other.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	f.cats[c.ID] = c
	return nil
}

func (f *fakeCategories) GetCategory(_ context.Context, id string) (*entity.ProductCategory, error) {
	c, ok := f.cats[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) ListCategories(_ context.Context, activeOnly bool) ([]*entity.ProductCategory, error) {
	var out []*entity.ProductCategory
	for _, c := range f.cats {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) UpdateCategory(_ context.Context, c *entity.ProductCategory) error {
	f.cats[c.ID] = c
	return nil
}

func (f *fakeCategories) CreateSubCategory(_ context.Context, s *entity.ProductSubCategory) error {
	f.subs[s.ID] = s
	return nil
}

func (f *fakeCategories) GetSubCategory(_ context.Context, id string) (*entity.ProductSubCategory, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeCategories) ListSubCategories(_ context.Context, categoryID string) ([]*entity.ProductSubCategory, error) {
	var out []*entity.ProductSubCategory
	for _, s := range f.subs {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeCategories) UpdateSubCategory(_ context.Context, s *entity.ProductSubCategory) error {
	f.subs[s.ID] = s
	return nil
}

func (f *fakeCategories) CreateFormulation(_ context.Context, fm *entity.ProductFormulation) error {
	f.forms[fm.ID] = fm
	return nil
}

func (f *fakeCategories) GetFormulation(_ context.Context, id string) (*entity.ProductFormulation, error) {
	fm, ok := f.forms[id]
	if !ok {
		return nil, nil
	}
	cp := *fm
	return &cp, nil
}

func (f *fakeCategories) ListFormulations(context.Context) ([]*entity.ProductFormulation, error) {
	var out []*entity.ProductFormulation
	for _, fm := range f.forms {
		out = append(out, fm)
	}
	return out, nil
}

func (f *fakeCategories) UpdateFormulation(_ context.Context, fm *entity.ProductFormulation) error {
	f.forms[fm.ID] = fm
	return nil
}

// fakePackaging también hace de PackagingTxRunner; failReplace simula un error dentro de la tx.
type fakePackaging struct {
	units       map[string][]*entity.PackagingUnit
	templates   map[string]*entity.PackagingTemplate
	failReplace error
}

func newFakePackaging() *fakePackaging {
	return &fakePackaging{units: map[string][]*entity.PackagingUnit{}, templates: map[string]*entity.PackagingTemplate{}}
}

func (f *fakePackaging) RunPackaging(ctx context.Context, fn func(repo repository.PackagingRepository) error) error {
	snapshot := make(map[string][]*entity.PackagingUnit, len(f.units))
	for k, v := range f.units {
		snapshot[k] = v
	}
	if err := fn(f); err != nil {
		f.units = snapshot
		return err
	}
	return nil
}

// fakeCatalogTx publica productos y unidades juntos; si fn falla restaura ambos.
type fakeCatalogTx struct {
	products  *fakeProducts
	packaging *fakePackaging
	runs      int
}

func (f *fakeCatalogTx) RunCatalog(ctx context.Context, fn func(products repository.ProductRepository, packaging repository.PackagingRepository) error) error {
	f.runs++
	items := make(map[string]*entity.Product, len(f.products.items))
	for k, v := range f.products.items {
		items[k] = v
	}
	units := make(map[string][]*entity.PackagingUnit, len(f.packaging.units))
	for k, v := range f.packaging.units {
		units[k] = v
	}
	if err := fn(f.products, f.packaging); err != nil {
		f.products.items = items
		f.packaging.units = units
		return err
	}
	return nil
}

func (f *fakePackaging) ListUnits(_ context.Context, productID string) ([]*entity.PackagingUnit, error) {
	return append([]*entity.PackagingUnit(nil), f.units[productID]...), nil
}

func (f *fakePackaging) GetUnit(_ context.Context, id string) (*entity.PackagingUnit, error) {
	for _, list := range f.units {
		for _, u := range list {
			if u.ID == id {
				return u, nil
			}
		}
	}
	return nil, nil
}

func (f *fakePackaging) ReplaceUnits(_ context.Context, productID string, units []*entity.PackagingUnit) error {
	if f.failReplace != nil {
		return f.failReplace
	}
	f.units[productID] = append([]*entity.PackagingUnit(nil), units...)
	return nil
}

func (f *fakePackaging) CreateTemplate(_ context.Context, t *entity.PackagingTemplate) error {
	f.templates[t.ID] = t
	return nil
}

func (f *fakePackaging) GetTemplate(_ context.Context, id string) (*entity.PackagingTemplate, error) {
	return f.templates[id], nil
}

func (f *fakePackaging) ListTemplates(context.Context) ([]*entity.PackagingTemplate, error) {
	var out []*entity.PackagingTemplate
	for _, t := range f.templates {
		out = append(out, t)
	}
	return out, nil
}

type fakeBatches struct {
	items map[string]*entity.Batch
}

func (f *fakeBatches) Create(_ context.Context, b *entity.Batch) error {
	f.items[b.ID] = b
	return nil
}

func (f *fakeBatches) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBatches) GetByProductAndNumber(_ context.Context, productID, number string) (*entity.Batch, error) {
	for _, b := range f.items {
		if b.ProductID == productID && b.BatchNumber == number {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBatches) ListByProduct(_ context.Context, productID string, includeInactive bool) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range f.items {
		if b.ProductID == productID && (includeInactive || b.IsActive) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

func (f *fakeBatches) Update(_ context.Context, b *entity.Batch) error {
	f.items[b.ID] = b
	return nil
}

const (
	testCategoryID = "c0000000-0000-0000-0000-000000000001"
	otherCategory  = "c0000000-0000-0000-0000-000000000002"
)

func seededCategories() *fakeCategories {
	c := newFakeCategories()
	c.cats[testCategoryID] = &entity.ProductCategory{ID: testCategoryID, Name: "Analgésicos", IsActive: true}
	c.cats[otherCategory] = &entity.ProductCategory{ID: otherCategory, Name: "Antibióticos", IsActive: true}
	return c
}
