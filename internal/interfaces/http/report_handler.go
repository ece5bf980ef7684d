package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharma-stock-api/internal/application/report"
	"github.com/jhoicas/pharma-stock-api/internal/application/usecase"
)

// ReportHandler exportaciones y preferencias de columnas.
type ReportHandler struct {
	reports *report.ReportUseCase
	prefs   *usecase.PreferenceUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *report.ReportUseCase, prefs *usecase.PreferenceUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, prefs: prefs}
}

// StockWorkbook godoc
// @Summary      Exportar posiciones de stock a Excel
// @Description  Acepta los mismos filtros que /api/stock/positions.
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        search         query  string  false  "Código o nombre"
// @Param        location_type  query  string  false  "GODOWN | MR"
// @Param        location_id    query  string  false  "Ubicación"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/stock.xlsx [get]
func (h *ReportHandler) StockWorkbook(c *fiber.Ctx) error {
	q, ok, err := positionQuery(c)
	if !ok {
		return forbidden(c)
	}
	if err != nil {
		return badRequest(c, "INVALID_DATE", "fechas en formato YYYY-MM-DD")
	}
	data, name, err := h.reports.StockWorkbook(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// GetPreferences godoc
// @Summary      Columnas visibles de una vista
// @Tags         preferences
// @Security     Bearer
// @Produce      json
// @Param        view  path  string  true  "Nombre de la vista"
// @Success      200   {object}  dto.ViewPreferences
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/preferences/{view} [get]
func (h *ReportHandler) GetPreferences(c *fiber.Ctx) error {
	out, err := h.prefs.Get(c.UserContext(), GetUserID(c), c.Params("view"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SavePreferences godoc
// @Summary      Guardar columnas visibles de una vista
// @Tags         preferences
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        view  path  string           true  "Nombre de la vista"
// @Param        body  body  map[string]bool  true  "columna -> visible"
// @Success      200   {object}  dto.ViewPreferences
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/preferences/{view} [put]
func (h *ReportHandler) SavePreferences(c *fiber.Ctx) error {
	var columns map[string]bool
	if err := c.BodyParser(&columns); err != nil {
		return invalidBody(c)
	}
	out, err := h.prefs.Save(c.UserContext(), GetUserID(c), c.Params("view"), columns)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
