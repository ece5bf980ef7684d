package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/application/usecase"
)

// CatalogHandler categorías, subcategorías, formulaciones, plantillas de empaque y lotes.
type CatalogHandler struct {
	categories *usecase.CategoryUseCase
	packaging  *usecase.PackagingUseCase
	batches    *usecase.BatchUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(categories *usecase.CategoryUseCase, packaging *usecase.PackagingUseCase, batches *usecase.BatchUseCase) *CatalogHandler {
	return &CatalogHandler{categories: categories, packaging: packaging, batches: batches}
}

func parseCategory(c *fiber.Ctx) (dto.CategoryRequest, bool) {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return in, false
	}
	return in, true
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	in, ok := parseCategory(c)
	if !ok {
		return invalidBody(c)
	}
	out, err := h.categories.CreateCategory(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Solo activas"
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.categories.ListCategories(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCategory godoc
// @Summary      Actualizar categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.CategoryRequest  true  "Categoría"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	in, ok := parseCategory(c)
	if !ok {
		return invalidBody(c)
	}
	out, err := h.categories.UpdateCategory(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeactivateCategory godoc
// @Summary      Desactivar categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.CategoryResponse
// @Router       /api/categories/{id}/deactivate [post]
func (h *CatalogHandler) DeactivateCategory(c *fiber.Ctx) error {
	out, err := h.categories.DeactivateCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateSubCategory godoc
// @Summary      Crear subcategoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.CategoryRequest  true  "Subcategoría"
// @Success      201   {object}  dto.CategoryResponse
// @Router       /api/categories/{id}/sub-categories [post]
func (h *CatalogHandler) CreateSubCategory(c *fiber.Ctx) error {
	in, ok := parseCategory(c)
	if !ok {
		return invalidBody(c)
	}
	out, err := h.categories.CreateSubCategory(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSubCategories godoc
// @Summary      Subcategorías de una categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories/{id}/sub-categories [get]
func (h *CatalogHandler) ListSubCategories(c *fiber.Ctx) error {
	out, err := h.categories.ListSubCategories(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateSubCategory godoc
// @Summary      Actualizar subcategoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.CategoryRequest  true  "Subcategoría"
// @Success      200   {object}  dto.CategoryResponse
// @Router       /api/sub-categories/{id} [put]
func (h *CatalogHandler) UpdateSubCategory(c *fiber.Ctx) error {
	in, ok := parseCategory(c)
	if !ok {
		return invalidBody(c)
	}
	out, err := h.categories.UpdateSubCategory(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateFormulation godoc
// @Summary      Crear formulación
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Formulación"
// @Success      201   {object}  dto.CategoryResponse
// @Router       /api/formulations [post]
func (h *CatalogHandler) CreateFormulation(c *fiber.Ctx) error {
	in, ok := parseCategory(c)
	if !ok {
		return invalidBody(c)
	}
	out, err := h.categories.CreateFormulation(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListFormulations godoc
// @Summary      Listar formulaciones
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/formulations [get]
func (h *CatalogHandler) ListFormulations(c *fiber.Ctx) error {
	out, err := h.categories.ListFormulations(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateFormulation godoc
// @Summary      Actualizar formulación
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.CategoryRequest  true  "Formulación"
// @Success      200   {object}  dto.CategoryResponse
// @Router       /api/formulations/{id} [put]
func (h *CatalogHandler) UpdateFormulation(c *fiber.Ctx) error {
	in, ok := parseCategory(c)
	if !ok {
		return invalidBody(c)
	}
	out, err := h.categories.UpdateFormulation(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateTemplate godoc
// @Summary      Crear plantilla de empaque
// @Tags         packaging
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PackagingTemplateRequest  true  "Plantilla"
// @Success      201   {object}  dto.PackagingTemplateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/packaging-templates [post]
func (h *CatalogHandler) CreateTemplate(c *fiber.Ctx) error {
	var in dto.PackagingTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.packaging.CreateTemplate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTemplates godoc
// @Summary      Listar plantillas de empaque
// @Tags         packaging
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PackagingTemplateResponse
// @Router       /api/packaging-templates [get]
func (h *CatalogHandler) ListTemplates(c *fiber.Ctx) error {
	out, err := h.packaging.ListTemplates(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetTemplate godoc
// @Summary      Obtener plantilla de empaque
// @Tags         packaging
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.PackagingTemplateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/packaging-templates/{id} [get]
func (h *CatalogHandler) GetTemplate(c *fiber.Ctx) error {
	out, err := h.packaging.GetTemplate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetBatch godoc
// @Summary      Obtener lote
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *CatalogHandler) GetBatch(c *fiber.Ctx) error {
	out, err := h.batches.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateBatch godoc
// @Summary      Actualizar lote
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.BatchRequest  true  "Lote"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [put]
func (h *CatalogHandler) UpdateBatch(c *fiber.Ctx) error {
	var in dto.BatchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.batches.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeactivateBatch godoc
// @Summary      Desactivar lote
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Router       /api/batches/{id}/deactivate [post]
func (h *CatalogHandler) DeactivateBatch(c *fiber.Ctx) error {
	out, err := h.batches.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
