package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

const msgInternal = "Error interno del servidor"

// respondError traduce un error de los casos de uso a la respuesta HTTP.
// Los errores de negocio usan businessStatus (400 o 404 según la ruta); los internos responden 500,
// se registran con su causa y exponen el detalle en el cuerpo.
func respondError(c *fiber.Ctx, log *logger.Logger, err error, businessStatus int) error {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		log.Error().Err(err).
			Str("request_id", RequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    kind.Code(),
			Message: msgInternal,
			Detail:  err.Error(),
		})
	}
	var de *domain.Error
	errors.As(err, &de)
	return c.Status(businessStatus).JSON(dto.ErrorResponse{Code: kind.Code(), Message: de.Message})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler responde los errores que escapan de los handlers (rutas inexistentes, pánicos recuperados).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			if fe.Code == fiber.StatusNotFound {
				code = domain.KindNotFound.Code()
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		return respondError(c, log, err, fiber.StatusBadRequest)
	}
}
