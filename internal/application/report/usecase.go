package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/application/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	stock "github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
	"github.com/jhoicas/pharma-stock-api/pkg/logger"
)

// StockSource consultas de stock usadas por el libro (StockQueryUseCase).
type StockSource interface {
	ListPositions(ctx context.Context, q inventory.PositionQuery) (*dto.StockPositionListResponse, error)
	Summary(ctx context.Context, q inventory.BalanceQuery) (*dto.SummaryResponse, error)
}

// PurchaseSource acceso al GRN completo (PurchaseUseCase).
type PurchaseSource interface {
	GetEntity(ctx context.Context, id string) (*entity.StockPurchase, error)
}

// Catalog repositorios para resolver nombres en los reportes.
type Catalog struct {
	Products  repository.ProductRepository
	Batches   repository.BatchRepository
	Packaging repository.PackagingRepository
	Suppliers repository.SupplierRepository
	Godowns   repository.GodownRepository
	Reps      repository.MedicalRepRepository
}

// ReportUseCase genera el libro de stock (xlsx) y el PDF de un GRN.
type ReportUseCase struct {
	queries   StockSource
	purchases PurchaseSource
	catalog   Catalog
	pdf       GRNPDFGenerator
	workbook  StockWorkbookWriter
	log       *logger.Logger
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	queries StockSource,
	purchases PurchaseSource,
	catalog Catalog,
	pdf GRNPDFGenerator,
	workbook StockWorkbookWriter,
	log *logger.Logger,
) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		queries:   queries,
		purchases: purchases,
		catalog:   catalog,
		pdf:       pdf,
		workbook:  workbook,
		log:       log.Component("reports"),
		now:       time.Now,
	}
}

// StockWorkbook arma el libro de stock con las posiciones filtradas y el resumen de
// la misma ubicación (global si la consulta no fija ubicación).
// Devuelve los bytes del xlsx y el nombre de archivo sugerido.
func (uc *ReportUseCase) StockWorkbook(ctx context.Context, q inventory.PositionQuery) ([]byte, string, error) {
	positions, err := uc.queries.ListPositions(ctx, q)
	if err != nil {
		return nil, "", err
	}
	summary, err := uc.queries.Summary(ctx, inventory.BalanceQuery{LocationType: q.LocationType, LocationID: q.LocationID})
	if err != nil {
		return nil, "", err
	}
	names, err := uc.locationNames(ctx)
	if err != nil {
		return nil, "", err
	}
	now := uc.now()
	wb := StockWorkbook{GeneratedAt: now, Summary: summary}
	for _, p := range positions.Items {
		wb.Rows = append(wb.Rows, StockRow{
			StockPositionResponse: p,
			LocationName:          names[p.LocationType+":"+p.LocationID],
		})
	}
	data, err := uc.workbook.WriteStockWorkbook(ctx, wb)
	if err != nil {
		return nil, "", fmt.Errorf("report: libro de stock: %w", err)
	}
	uc.log.Info().Int("rows", len(wb.Rows)).Msg("libro de stock generado")
	return data, fmt.Sprintf("stock_%s.xlsx", now.Format("20060102_1504")), nil
}

func (uc *ReportUseCase) locationNames(ctx context.Context) (map[string]string, error) {
	names := map[string]string{}
	godowns, err := uc.catalog.Godowns.List(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, g := range godowns {
		names[string(stock.LocationGodown)+":"+g.ID] = g.Name
	}
	reps, err := uc.catalog.Reps.List(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, m := range reps {
		names[string(stock.LocationMR)+":"+m.ID] = m.Name
	}
	return names, nil
}

// GRNPDF genera el PDF de un GRN. GRN inexistente → ErrNotFound.
func (uc *ReportUseCase) GRNPDF(ctx context.Context, purchaseID string) ([]byte, string, error) {
	p, err := uc.purchases.GetEntity(ctx, purchaseID)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.grnDocument(ctx, p)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.GenerateGRNPDF(ctx, *doc)
	if err != nil {
		return nil, "", fmt.Errorf("report: pdf del GRN: %w", err)
	}
	return data, "grn_" + safeFileName(p.GRNNumber) + ".pdf", nil
}

func (uc *ReportUseCase) grnDocument(ctx context.Context, p *entity.StockPurchase) (*GRNDocument, error) {
	doc := &GRNDocument{
		GRNNumber:             p.GRNNumber,
		SupplierInvoiceNumber: p.SupplierInvoiceNumber,
		ReceivedAt:            p.ReceivedAt,
		Notes:                 p.Notes,
		TotalValue:            p.TotalValue,
	}
	supplier, err := uc.catalog.Suppliers.GetByID(ctx, p.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier != nil {
		doc.SupplierName, doc.SupplierTaxID = supplier.Name, supplier.TaxID
	}
	godown, err := uc.catalog.Godowns.GetByID(ctx, p.GodownID)
	if err != nil {
		return nil, err
	}
	if godown != nil {
		doc.GodownName = godown.Name
	}
	for _, it := range p.Items {
		line := GRNLine{
			QuantityEntered: it.QuantityEntered,
			QuantityStrips:  it.QuantityStrips,
			CostPerUnit:     it.CostPerUnit,
			LineValue:       it.LineValue,
			UnitName:        "Strip",
		}
		product, err := uc.catalog.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s del GRN", domain.ErrNotFound, it.ProductID)
		}
		line.ProductCode, line.ProductName = product.Code, product.Name
		batch, err := uc.catalog.Batches.GetByID(ctx, it.BatchID)
		if err != nil {
			return nil, err
		}
		if batch != nil {
			line.BatchNumber, line.ExpiryDate = batch.BatchNumber, batch.ExpiryDate
		}
		if it.PackagingUnitID != "" {
			unit, err := uc.catalog.Packaging.GetUnit(ctx, it.PackagingUnitID)
			if err != nil {
				return nil, err
			}
			if unit != nil {
				line.UnitName = unit.UnitName
			}
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc, nil
}

func safeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
