package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar productos activos
// @Tags         productos
// @Produce      json
// @Success      200  {array}   dto.ProductResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /productos [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, fiber.StatusBadRequest)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos por nombre o código
// @Description  Sin término devuelve todos los productos activos.
// @Tags         productos
// @Produce      json
// @Param        q    query  string  false  "Texto a buscar"
// @Success      200  {array}   dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /productos/buscar [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, h.log, err, fiber.StatusBadRequest)
	}
	return c.JSON(out)
}

// ListByCategory godoc
// @Summary      Listar productos activos de una categoría
// @Tags         productos
// @Produce      json
// @Param        categoriaId  path  int  true  "ID de la categoría"
// @Success      200  {array}   dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /productos/categoria/{categoriaId} [get]
func (h *ProductHandler) ListByCategory(c *fiber.Ctx) error {
	out, err := h.uc.ListByCategory(c.UserContext(), paramID(c, "categoriaId"))
	if err != nil {
		return respondError(c, h.log, err, fiber.StatusBadRequest)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         productos
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /productos/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), paramID(c, "id"))
	if err != nil {
		return respondError(c, h.log, err, fiber.StatusNotFound)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /productos [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
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
// @Summary      Actualizar producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /productos/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
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
// @Summary      Actualizar parcialmente un producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.PatchProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /productos/{id} [patch]
func (h *ProductHandler) Patch(c *fiber.Ctx) error {
	var in dto.PatchProductRequest
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
// @Summary      Eliminar producto (lógico)
// @Tags         productos
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductDeletedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /productos/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	return h.delete(c, nil)
}

// DeleteAudited godoc
// @Summary      Eliminar producto registrando usuario y motivo
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.DeletionRequest  true  "Auditoría de la eliminación"
// @Success      200   {object}  dto.ProductDeletedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /productos/{id}/auditoria [delete]
func (h *ProductHandler) DeleteAudited(c *fiber.Ctx) error {
	var in dto.DeletionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return h.delete(c, &in)
}

func (h *ProductHandler) delete(c *fiber.Ctx, audit *dto.DeletionRequest) error {
	if err := h.uc.Delete(c.UserContext(), paramID(c, "id"), audit); err != nil {
		return respondError(c, h.log, err, fiber.StatusBadRequest)
	}
	return c.JSON(dto.ProductDeletedResponse{Message: "Producto eliminado correctamente", Deleted: true})
}
