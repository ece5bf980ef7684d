package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/application/usecase"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// ProductHandler maneja las peticiones HTTP para Product, sus unidades y lotes.
type ProductHandler struct {
	uc        *usecase.ProductUseCase
	packaging *usecase.PackagingUseCase
	batches   *usecase.BatchUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, packaging *usecase.PackagingUseCase, batches *usecase.BatchUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, packaging: packaging, batches: batches}
}

// Create godoc
// @Summary      Crear producto
// @Description  Sin unidades se crea la unidad base Strip.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Code == "" || in.Name == "" || in.CategoryID == "" {
		return badRequest(c, "VALIDATION", "code, name y category_id son requeridos")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Código o nombre"
// @Param        category_id  query  string  false  "Categoría"
// @Param        active       query  bool    false  "Solo activos"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repository.ProductFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		ActiveOnly: c.QueryBool("active", false),
	}
	out, err := h.uc.List(c.UserContext(), f, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	out, err := h.uc.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Solo productos sin transacciones; los demás se desactivan.
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUnits godoc
// @Summary      Unidades de empaque del producto
// @Tags         packaging
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.PackagingUnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/packaging-units [get]
func (h *ProductHandler) ListUnits(c *fiber.Ctx) error {
	out, err := h.packaging.ListUnits(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReplaceUnits godoc
// @Summary      Reemplazar la jerarquía de empaque
// @Tags         packaging
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  []dto.PackagingUnitRequest  true  "Unidades"
// @Success      200   {array}   dto.PackagingUnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/packaging-units [put]
func (h *ProductHandler) ReplaceUnits(c *fiber.Ctx) error {
	var in []dto.PackagingUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.packaging.ReplaceUnits(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddUnit godoc
// @Summary      Agregar unidad de empaque
// @Tags         packaging
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.PackagingUnitRequest  true  "Unidad"
// @Success      201   {array}   dto.PackagingUnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/packaging-units [post]
func (h *ProductHandler) AddUnit(c *fiber.Ctx) error {
	var in dto.PackagingUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.packaging.AddUnit(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ApplyTemplate godoc
// @Summary      Aplicar plantilla de empaque
// @Tags         packaging
// @Security     Bearer
// @Produce      json
// @Param        id          path  string  true  "ID del producto"
// @Param        templateId  path  string  true  "ID de la plantilla"
// @Success      200  {array}   dto.PackagingUnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/apply-template/{templateId} [post]
func (h *ProductHandler) ApplyTemplate(c *fiber.Ctx) error {
	out, err := h.packaging.ApplyTemplate(c.UserContext(), c.Params("id"), c.Params("templateId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateBatch godoc
// @Summary      Crear lote
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.BatchRequest  true  "Lote"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches [post]
func (h *ProductHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.BatchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.batches.Create(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBatches godoc
// @Summary      Lotes del producto
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id                path   string  true   "ID del producto"
// @Param        include_inactive  query  bool    false  "Incluir inactivos"
// @Success      200  {array}   dto.BatchResponse
// @Router       /api/products/{id}/batches [get]
func (h *ProductHandler) ListBatches(c *fiber.Ctx) error {
	out, err := h.batches.List(c.UserContext(), c.Params("id"), c.QueryBool("include_inactive", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
