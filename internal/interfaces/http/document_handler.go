package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/application/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/application/report"
)

// DocumentHandler documentos de stock: GRN de compra, ventas/despachos y ajustes.
type DocumentHandler struct {
	purchases   *inventory.PurchaseUseCase
	sales       *inventory.SaleUseCase
	adjustments *inventory.AdjustmentUseCase
	reports     *report.ReportUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(
	purchases *inventory.PurchaseUseCase,
	sales *inventory.SaleUseCase,
	adjustments *inventory.AdjustmentUseCase,
	reports *report.ReportUseCase,
) *DocumentHandler {
	return &DocumentHandler{purchases: purchases, sales: sales, adjustments: adjustments, reports: reports}
}

// CreatePurchase godoc
// @Summary      Registrar GRN de compra
// @Description  Crea lotes nuevos por batch_number y registra un STOCK_IN por línea.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "GRN"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *DocumentHandler) CreatePurchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.purchases.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPurchases godoc
// @Summary      Listar GRN
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.PurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases [get]
func (h *DocumentHandler) ListPurchases(c *fiber.Ctx) error {
	from, to, err := dateRange(c, "from", "to")
	if err != nil {
		return badRequest(c, "INVALID_DATE", "fechas en formato YYYY-MM-DD")
	}
	out, err := h.purchases.List(c.UserContext(), from, to, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetPurchase godoc
// @Summary      Obtener GRN con sus líneas
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *DocumentHandler) GetPurchase(c *fiber.Ctx) error {
	out, err := h.purchases.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdatePurchase godoc
// @Summary      Editar GRN
// @Description  Reemplaza las líneas y reconstruye los saldos afectados desde el libro.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.PurchaseRequest  true  "GRN"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [put]
func (h *DocumentHandler) UpdatePurchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.purchases.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeletePurchase godoc
// @Summary      Eliminar GRN
// @Tags         purchases
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *DocumentHandler) DeletePurchase(c *fiber.Ctx) error {
	if err := h.purchases.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PurchasePDF godoc
// @Summary      Descargar GRN en PDF
// @Tags         purchases
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/pdf [get]
func (h *DocumentHandler) PurchasePDF(c *fiber.Ctx) error {
	pdf, name, err := h.reports.GRNPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(pdf)
}

// CreateSale godoc
// @Summary      Registrar venta o despacho a MR
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Venta (kind SALE) o despacho (kind DISPATCH)"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *DocumentHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.sales.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSales godoc
// @Summary      Listar ventas y despachos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        kind    query  string  false  "SALE | DISPATCH"
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.SaleResponse
// @Router       /api/sales [get]
func (h *DocumentHandler) ListSales(c *fiber.Ctx) error {
	from, to, err := dateRange(c, "from", "to")
	if err != nil {
		return badRequest(c, "INVALID_DATE", "fechas en formato YYYY-MM-DD")
	}
	out, err := h.sales.List(c.UserContext(), c.Query("kind"), from, to, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetSale godoc
// @Summary      Obtener venta o despacho
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *DocumentHandler) GetSale(c *fiber.Ctx) error {
	out, err := h.sales.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateAdjustment godoc
// @Summary      Registrar ajuste de stock
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "Ajuste"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *DocumentHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.adjustments.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAdjustments godoc
// @Summary      Listar ajustes
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.AdjustmentResponse
// @Router       /api/adjustments [get]
func (h *DocumentHandler) ListAdjustments(c *fiber.Ctx) error {
	from, to, err := dateRange(c, "from", "to")
	if err != nil {
		return badRequest(c, "INVALID_DATE", "fechas en formato YYYY-MM-DD")
	}
	out, err := h.adjustments.List(c.UserContext(), from, to, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
