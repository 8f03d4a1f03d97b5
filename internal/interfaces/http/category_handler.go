package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// CategoryHandler maneja las peticiones HTTP para Category.
type CategoryHandler struct {
	uc  *usecase.CategoryUseCase
	log *logger.Logger
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{uc: uc, log: log}
}

// paramID lee un id de ruta; un valor no numérico se trata como 0 y lo rechazan los casos de uso.
func paramID(c *fiber.Ctx, key string) int64 {
	id, err := strconv.ParseInt(c.Params(key), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func createdLocation(c *fiber.Ctx, id int64) {
	c.Location(strings.TrimRight(c.Path(), "/") + "/" + strconv.FormatInt(id, 10))
}

// List godoc
// @Summary      Listar categorías activas
// @Tags         categorias
// @Produce      json
// @Success      200  {array}   dto.CategoryResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /categorias [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, fiber.StatusBadRequest)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría por ID
// @Tags         categorias
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /categorias/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), paramID(c, "id"))
	if err != nil {
		return respondError(c, h.log, err, fiber.StatusNotFound)
	}
	return c.JSON(out)
}

// GetWithProducts godoc
// @Summary      Obtener categoría con sus productos activos
// @Tags         categorias
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryWithProductsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /categorias/{id}/productos [get]
func (h *CategoryHandler) GetWithProducts(c *fiber.Ctx) error {
	out, err := h.uc.GetWithProducts(c.UserContext(), paramID(c, "id"))
	if err != nil {
		return respondError(c, h.log, err, fiber.StatusNotFound)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /categorias [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err, fiber.StatusBadRequest)
	}
	createdLocation(c, out.ID)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar categoría
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /categorias/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), paramID(c, "id"), in)
	if err != nil {
		return respondError(c, h.log, err, fiber.StatusBadRequest)
	}
	return c.JSON(out)
}

// Patch godoc
// @Summary      Actualizar parcialmente una categoría
// @Description  Solo se aplican los campos enviados. totalProductos se devuelve en 0.
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la categoría"
// @Param        body  body  dto.PatchCategoryRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /categorias/{id} [patch]
func (h *CategoryHandler) Patch(c *fiber.Ctx) error {
	var in dto.PatchCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdatePartial(c.UserContext(), paramID(c, "id"), in)
	if err != nil {
		return respondError(c, h.log, err, fiber.StatusBadRequest)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría (lógico)
// @Tags         categorias
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryDeletedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /categorias/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	return h.delete(c, nil)
}

// DeleteAudited godoc
// @Summary      Eliminar categoría registrando usuario y motivo
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la categoría"
// @Param        body  body  dto.DeletionRequest  true  "Auditoría de la eliminación"
// @Success      200   {object}  dto.CategoryDeletedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /categorias/{id}/auditoria [delete]
func (h *CategoryHandler) DeleteAudited(c *fiber.Ctx) error {
	var in dto.DeletionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return h.delete(c, &in)
}

func (h *CategoryHandler) delete(c *fiber.Ctx, audit *dto.DeletionRequest) error {
	if err := h.uc.Delete(c.UserContext(), paramID(c, "id"), audit); err != nil {
		return respondError(c, h.log, err, fiber.StatusBadRequest)
	}
	return c.JSON(dto.CategoryDeletedResponse{Message: "Categoría eliminada correctamente", Deleted: true})
}
