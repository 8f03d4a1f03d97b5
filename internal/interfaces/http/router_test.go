package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp monta la API completa sobre el almacén en memoria.
func buildTestApp(basePath string) *fiber.App {
	store := memory.NewStore()
	return buildAppWith(basePath, store.Categories(), store.Products())
}

func buildAppWith(basePath string, categories repository.CategoryRepository, products repository.ProductRepository) *fiber.App {
	log := logger.Nop()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(recover.New())
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC: usecase.NewCategoryUseCase(categories),
		ProductUC:  usecase.NewProductUseCase(products, categories),
		Logger:     log,
		BasePath:   basePath,
	})
	return app
}

// doJSON lanza la petición y decodifica el cuerpo en un mapa.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	resp, raw := doRaw(t, app, method, path, body)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func doList(t *testing.T, app *fiber.App, path string) []map[string]any {
	t.Helper()
	resp, raw := doRaw(t, app, http.MethodGet, path, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var out []map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func doRaw(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func createCategory(t *testing.T, app *fiber.App, name string) int64 {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/categorias", map[string]any{"nombre": name})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	return int64(body["id"].(float64))
}

func createProduct(t *testing.T, app *fiber.App, categoryID int64, name, code string) int64 {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/productos", map[string]any{
		"nombre": name, "codigo": code, "precio": 1500.5, "stock": 2, "categoriaId": categoryID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	return int64(body["id"].(float64))
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategorias_CrearDevuelve201ConLocation(t *testing.T) {
	app := buildTestApp("/api")

	resp, body := doJSON(t, app, http.MethodPost, "/api/categorias", map[string]any{"nombre": "Hogar", "descripcion": "Muebles"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/api/categorias/1", resp.Header.Get("Location"))
	assert.Equal(t, "Hogar", body["nombre"])
	assert.Equal(t, "Muebles", body["descripcion"])
	assert.Equal(t, true, body["estado"])
	assert.EqualValues(t, 0, body["totalProductos"])
	assert.Contains(t, body, "fechaCreacion")
}

func TestCategorias_CuerpoMalformado(t *testing.T) {
	app := buildTestApp("/api")

	resp, body := doJSON(t, app, http.MethodPost, "/api/categorias", `{"nombre":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", body["codigo"])
}

func TestCategorias_ErroresDeNegocio(t *testing.T) {
	app := buildTestApp("/api")
	id := createCategory(t, app, "Hogar")
	createProduct(t, app, id, "Silla", "SIL-1")

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"get id no numérico", http.MethodGet, "/api/categorias/abc", nil, fiber.StatusNotFound, "NOT_FOUND"},
		{"get inexistente", http.MethodGet, "/api/categorias/99", nil, fiber.StatusNotFound, "NOT_FOUND"},
		{"productos de inexistente", http.MethodGet, "/api/categorias/99/productos", nil, fiber.StatusNotFound, "NOT_FOUND"},
		{"crear sin nombre", http.MethodPost, "/api/categorias", map[string]any{"nombre": ""}, fiber.StatusBadRequest, "VALIDATION"},
		{"crear duplicada", http.MethodPost, "/api/categorias", map[string]any{"nombre": "HOGAR"}, fiber.StatusBadRequest, "CONFLICT"},
		{"put id cero", http.MethodPut, "/api/categorias/0", map[string]any{"nombre": "X"}, fiber.StatusBadRequest, "VALIDATION"},
		{"put inexistente", http.MethodPut, "/api/categorias/50", map[string]any{"nombre": "X"}, fiber.StatusBadRequest, "NOT_FOUND"},
		{"borrar con productos", http.MethodDelete, "/api/categorias/1", nil, fiber.StatusBadRequest, "CONFLICT"},
		{"borrar auditado sin usuario", http.MethodDelete, "/api/categorias/1/auditoria", map[string]any{"usuarioEliminacion": ""}, fiber.StatusBadRequest, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, app, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, body["codigo"])
			assert.NotEmpty(t, body["mensaje"])
			assert.NotContains(t, body, "detalle")
		})
	}
}

func TestCategorias_ConProductosYPatch(t *testing.T) {
	app := buildTestApp("/api")
	id := createCategory(t, app, "Hogar")
	createProduct(t, app, id, "Silla", "SIL-1")

	resp, body := doJSON(t, app, http.MethodGet, "/api/categorias/1/productos", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	products := body["productos"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Hogar", products[0].(map[string]any)["categoriaNombre"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/categorias/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["totalProductos"])

	resp, body = doJSON(t, app, http.MethodPatch, "/api/categorias/1", map[string]any{"descripcion": "Muebles"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Muebles", body["descripcion"])
	assert.EqualValues(t, 0, body["totalProductos"])
	assert.NotNil(t, body["fechaModificacion"])
}

func TestCategorias_EliminarAuditado(t *testing.T) {
	app := buildTestApp("/api")
	createCategory(t, app, "Temporal")

	resp, body := doJSON(t, app, http.MethodDelete, "/api/categorias/1/auditoria",
		map[string]any{"usuarioEliminacion": "admin", "motivoEliminacion": "duplicada"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["eliminada"])
	assert.Equal(t, "Categoría eliminada correctamente", body["mensaje"])

	assert.Empty(t, doList(t, app, "/api/categorias"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductos_PrecioComoNumeroJSON(t *testing.T) {
	app := buildTestApp("/api")
	id := createCategory(t, app, "Computación")

	resp, raw := doRaw(t, app, http.MethodPost, "/api/productos", map[string]any{
		"nombre": "Laptop", "codigo": "LAP-1", "precio": 1500.5, "stock": 3, "categoriaId": id,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	assert.Equal(t, "/api/productos/1", resp.Header.Get("Location"))
	assert.Contains(t, string(raw), `"precio":1500.5`)
	assert.Contains(t, string(raw), `"categoriaNombre":"Computación"`)
}

func TestProductos_RutasDeLectura(t *testing.T) {
	app := buildTestApp("/api")
	hogar := createCategory(t, app, "Hogar")
	oficina := createCategory(t, app, "Oficina")
	createProduct(t, app, hogar, "Silla", "SIL-1")
	createProduct(t, app, oficina, "Lámpara de escritorio", "LAM-1")

	assert.Len(t, doList(t, app, "/api/productos"), 2)
	assert.Len(t, doList(t, app, "/api/productos/buscar?q=sil"), 1)
	assert.Len(t, doList(t, app, "/api/productos/buscar"), 2)

	byCategory := doList(t, app, "/api/productos/categoria/2")
	require.Len(t, byCategory, 1)
	assert.Equal(t, "LAM-1", byCategory[0]["codigo"])

	resp, body := doJSON(t, app, http.MethodGet, "/api/productos/categoria/x", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["codigo"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/productos/7", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No se encontró el producto con ID 7", body["mensaje"])
}

func TestProductos_ActualizarYEliminar(t *testing.T) {
	app := buildTestApp("/api")
	cat := createCategory(t, app, "Hogar")
	createProduct(t, app, cat, "Silla", "SIL-1")
	createProduct(t, app, cat, "Mesa", "MES-1")

	resp, body := doJSON(t, app, http.MethodPut, "/api/productos/1", map[string]any{
		"nombre": "Silla ergonómica", "codigo": "SIL-1", "precio": "250.00", "stock": 0, "categoriaId": cat,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Silla ergonómica", body["nombre"])
	assert.EqualValues(t, 250, body["precio"])

	resp, body = doJSON(t, app, http.MethodPatch, "/api/productos/1", map[string]any{"codigo": "mes-1"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body["codigo"])

	resp, body = doJSON(t, app, http.MethodPatch, "/api/productos/1", map[string]any{"stock": 9})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 9, body["stock"])

	resp, body = doJSON(t, app, http.MethodDelete, "/api/productos/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["eliminado"])
	assert.Equal(t, "Producto eliminado correctamente", body["mensaje"])

	resp, body = doJSON(t, app, http.MethodDelete, "/api/productos/1/auditoria", map[string]any{"usuarioEliminacion": "admin"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["codigo"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores internos, request id y base path
// ──────────────────────────────────────────────────────────────────────────────

type brokenCategories struct {
	repository.CategoryRepository
}

func (brokenCategories) ListActive(context.Context) ([]*entity.Category, error) {
	return nil, errors.New("conexión rechazada")
}

func TestErrorInterno_Responde500ConDetalle(t *testing.T) {
	store := memory.NewStore()
	app := buildAppWith("/api", brokenCategories{}, store.Products())

	resp, body := doJSON(t, app, http.MethodGet, "/api/categorias", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL", body["codigo"])
	assert.Equal(t, "Error interno del servidor", body["mensaje"])
	assert.Contains(t, body["detalle"], "conexión rechazada")
	assert.Contains(t, body["detalle"], "Error al obtener las categorías")
}

func TestRequestID_SeRespetaOSeGenera(t *testing.T) {
	app := buildTestApp("/api")

	req := httptest.NewRequest(http.MethodGet, "/api/categorias", nil)
	req.Header.Set(apphttp.HeaderRequestID, "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(apphttp.HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/categorias", nil), -1)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(apphttp.HeaderRequestID), 36)
}

func TestBasePath_Configurable(t *testing.T) {
	app := buildTestApp("/v1")

	resp, _ := doRaw(t, app, http.MethodGet, "/v1/categorias", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/categorias", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["codigo"])
}
