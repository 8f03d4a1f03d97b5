package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	Logger     *logger.Logger
	BasePath   string // ej. /api; vacío monta las rutas en la raíz
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group(deps.BasePath)

	categories := api.Group("/categorias")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Logger)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Get("/:id/productos", categoryHandler.GetWithProducts)
	categories.Put("/:id", categoryHandler.Update)
	categories.Patch("/:id", categoryHandler.Patch)
	categories.Delete("/:id", categoryHandler.Delete)
	categories.Delete("/:id/auditoria", categoryHandler.DeleteAudited)

	// /buscar y /categoria/:categoriaId van antes de /:id.
	products := api.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC, deps.Logger)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/buscar", productHandler.Search)
	products.Get("/categoria/:categoriaId", productHandler.ListByCategory)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Patch("/:id", productHandler.Patch)
	products.Delete("/:id", productHandler.Delete)
	products.Delete("/:id/auditoria", productHandler.DeleteAudited)
}
