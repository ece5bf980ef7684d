package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/application/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// InventoryHandler libro de transacciones, saldos, alertas y auditoría de stock.
type InventoryHandler struct {
	recorder *inventory.RecordTransactionUseCase
	queries  *inventory.StockQueryUseCase
	alerts   *inventory.AlertsUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(recorder *inventory.RecordTransactionUseCase, queries *inventory.StockQueryUseCase, alerts *inventory.AlertsUseCase) *InventoryHandler {
	return &InventoryHandler{recorder: recorder, queries: queries, alerts: alerts}
}

// RecordTransaction godoc
// @Summary      Registrar transacción de stock
// @Description  Quantity en la unidad packaging_unit_id (vacío = strips). Las salidas mayores al saldo lo dejan en cero.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransactionRequest  true  "Transacción"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/transactions [post]
func (h *InventoryHandler) RecordTransaction(c *fiber.Ctx) error {
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.recorder.RecordTransactionFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTransactions godoc
// @Summary      Libro de transacciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "Producto"
// @Param        batch_id       query  string  false  "Lote"
// @Param        location_type  query  string  false  "GODOWN | MR"
// @Param        location_id    query  string  false  "Ubicación (origen o destino)"
// @Param        type           query  string  false  "Tipo de transacción"
// @Param        search         query  string  false  "Código o nombre"
// @Param        category_id    query  string  false  "Categoría"
// @Param        batch          query  string  false  "Número de lote"
// @Param        from           query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to             query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit          query  int     false  "Límite"  default(50)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	locType, locID, ok := scopeLocation(c, c.Query("location_type"), c.Query("location_id"))
	if !ok {
		return forbidden(c)
	}
	from, to, err := dateRange(c, "from", "to")
	if err != nil {
		return badRequest(c, "INVALID_DATE", "fechas en formato YYYY-MM-DD")
	}
	expFrom, expTo, err := dateRange(c, "expiry_from", "expiry_to")
	if err != nil {
		return badRequest(c, "INVALID_DATE", "fechas en formato YYYY-MM-DD")
	}
	f := repository.TransactionFilter{
		ProductID:    c.Query("product_id"),
		BatchID:      c.Query("batch_id"),
		LocationType: locType,
		LocationID:   locID,
		Type:         c.Query("type"),
		Search:       c.Query("search"),
		CategoryID:   c.Query("category_id"),
		BatchSearch:  c.Query("batch"),
		From:         from,
		To:           to,
		ExpiryFrom:   expFrom,
		ExpiryTo:     expTo,
	}
	out, err := h.queries.ListTransactions(c.UserContext(), f, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListBalances godoc
// @Summary      Saldos materializados
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_type  query  string  false  "GODOWN | MR"
// @Param        location_id    query  string  false  "Ubicación"
// @Param        product_id     query  string  false  "Producto"
// @Param        positive       query  bool    false  "Solo saldos mayores a cero"
// @Success      200  {object}  dto.StockPositionListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/balances [get]
func (h *InventoryHandler) ListBalances(c *fiber.Ctx) error {
	locType, locID, ok := scopeLocation(c, c.Query("location_type"), c.Query("location_id"))
	if !ok {
		return forbidden(c)
	}
	out, err := h.queries.ListBalances(c.UserContext(), inventory.BalanceQuery{
		LocationType: locType,
		LocationID:   locID,
		ProductID:    c.Query("product_id"),
		PositiveOnly: c.QueryBool("positive", false),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// positionQuery arma los filtros de posiciones ya acotados a la ubicación del usuario.
func positionQuery(c *fiber.Ctx) (inventory.PositionQuery, bool, error) {
	locType, locID, ok := scopeLocation(c, c.Query("location_type"), c.Query("location_id"))
	if !ok {
		return inventory.PositionQuery{}, false, nil
	}
	expFrom, expTo, err := dateRange(c, "expiry_from", "expiry_to")
	if err != nil {
		return inventory.PositionQuery{}, true, err
	}
	return inventory.PositionQuery{
		Search:       c.Query("search"),
		CategoryID:   c.Query("category_id"),
		BatchSearch:  c.Query("batch"),
		ProductID:    c.Query("product_id"),
		LocationType: locType,
		LocationID:   locID,
		ExpiryFrom:   expFrom,
		ExpiryTo:     expTo,
	}, true, nil
}

// ListPositions godoc
// @Summary      Posiciones de stock calculadas desde el libro
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        search         query  string  false  "Código o nombre, sin acentos"
// @Param        category_id    query  string  false  "Categoría"
// @Param        batch          query  string  false  "Número de lote"
// @Param        product_id     query  string  false  "Producto"
// @Param        location_type  query  string  false  "GODOWN | MR"
// @Param        location_id    query  string  false  "Ubicación"
// @Param        expiry_from    query  string  false  "Vence desde (YYYY-MM-DD)"
// @Param        expiry_to      query  string  false  "Vence hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.StockPositionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/positions [get]
func (h *InventoryHandler) ListPositions(c *fiber.Ctx) error {
	q, ok, err := positionQuery(c)
	if !ok {
		return forbidden(c)
	}
	if err != nil {
		return badRequest(c, "INVALID_DATE", "fechas en formato YYYY-MM-DD")
	}
	out, err := h.queries.ListPositions(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Alertas de stock bajo y vencimiento
// @Description  Stock bajo ordenado por prioridad con cantidad sugerida de reposición.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_type  query  string  false  "GODOWN | MR"
// @Param        location_id    query  string  false  "Ubicación"
// @Success      200  {object}  dto.AlertsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	locType, locID, ok := scopeLocation(c, c.Query("location_type"), c.Query("location_id"))
	if !ok {
		return forbidden(c)
	}
	out, err := h.alerts.Alerts(c.UserContext(), locType, locID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de stock por ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/stock/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.queries.Summary(c.UserContext(), inventory.BalanceQuery{})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Audit godoc
// @Summary      Auditar saldos contra el replay del libro
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AuditResponse
// @Router       /api/stock/audit [get]
func (h *InventoryHandler) Audit(c *fiber.Ctx) error {
	out, err := h.queries.Audit(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Rebuild godoc
// @Summary      Reconstruir saldos materializados desde el libro
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RebuildResponse
// @Router       /api/stock/rebuild [post]
func (h *InventoryHandler) Rebuild(c *fiber.Ctx) error {
	out, err := h.queries.Rebuild(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
