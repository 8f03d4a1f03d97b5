package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/memory"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

type fixture struct {
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	importer   *catalog.Importer
}

func newFixture() fixture {
	store := memory.NewStore()
	categories := usecase.NewCategoryUseCase(store.Categories())
	products := usecase.NewProductUseCase(store.Products(), store.Categories())
	return fixture{
		categories: categories,
		products:   products,
		importer:   catalog.NewImporter(categories, products, logger.Nop()),
	}
}

const header = "categoria,categoria_descripcion,nombre,descripcion,precio,stock,codigo\n"

func TestImport_CreaCategoriasYProductos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	csv := header +
		"Bebidas,Frías y calientes,Café,Tostado,12000.50,10,CAF-1\n" +
		"bebidas,,Té verde,,8000,,TE-1\n" +
		"Snacks,,Maní,,2500,40,MAN-1\n"

	res, err := f.importer.Import(ctx, strings.NewReader(csv), catalog.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 2, res.CategoriesCreated)
	assert.Equal(t, 3, res.ProductsCreated)
	assert.Empty(t, res.Errors)

	list, err := f.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bebidas", list[0].Name)
	assert.Equal(t, 2, list[0].TotalProducts)
	require.NotNil(t, list[0].Description)
	assert.Equal(t, "Frías y calientes", *list[0].Description)

	found, err := f.products.Search(ctx, "TE-1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 0, found[0].Stock)
	assert.Nil(t, found[0].Description)
}

func TestImport_ReutilizaCategoriaExistente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	existing, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Lácteos"})
	require.NoError(t, err)

	res, err := f.importer.Import(ctx, strings.NewReader(header+"LÁCTEOS,,Leche,,3200,5,LEC-1\n"), catalog.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.CategoriesCreated)
	assert.Equal(t, 1, res.ProductsCreated)

	products, err := f.products.ListByCategory(ctx, existing.ID)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestImport_CodigoExistenteSeOmite(t *testing.T) {
	f := newFixture()
	csv := header +
		"Aseo,,Jabón,,1500,1,JAB-1\n" +
		"Aseo,,Jabón líquido,,2500,1,jab-1\n"

	res, err := f.importer.Import(context.Background(), strings.NewReader(csv), catalog.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProductsCreated)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, res.Errors)
}

func TestImport_FilasInvalidasSeReportanConLinea(t *testing.T) {
	f := newFixture()
	csv := header +
		",,Sin categoría,,1000,1,X-1\n" +
		"Aseo,,Escoba,,abc,1,ESC-1\n" +
		"Aseo,,Trapero,,1000,-2,TRA-1\n" +
		"Aseo,,Balde,,1000,uno,BAL-1\n" +
		"Aseo,,Cepillo,,1000,3,CEP-1\n"

	res, err := f.importer.Import(context.Background(), strings.NewReader(csv), catalog.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProductsCreated)
	require.Len(t, res.Errors, 4)

	assert.Equal(t, 2, res.Errors[0].Line)
	assert.Equal(t, "La categoría es obligatoria", res.Errors[0].Message)
	assert.Equal(t, 3, res.Errors[1].Line)
	assert.Contains(t, res.Errors[1].Message, "Precio inválido")
	assert.Equal(t, 4, res.Errors[2].Line)
	assert.Equal(t, "El stock del producto no puede ser negativo", res.Errors[2].Message)
	assert.Equal(t, 5, res.Errors[3].Line)
	assert.Contains(t, res.Errors[3].Message, "Stock inválido")
}

func TestImport_Latin1ConPuntoYComa(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	raw := "categoria;nombre;precio;stock;codigo\n" +
		"Panadería;Pan de bono;1500,75;20;PAN-1\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(raw)
	require.NoError(t, err)

	res, err := f.importer.Import(ctx, strings.NewReader(encoded), catalog.Options{
		Encoding:  catalog.EncodingLatin1,
		Separator: ';',
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProductsCreated)

	list, err := f.products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pan de bono", list[0].Name)
	assert.Equal(t, "Panadería", list[0].CategoryName)
	assert.Equal(t, "1500.75", list[0].Price.String())
}

func TestImport_UTF8ConBOM(t *testing.T) {
	f := newFixture()
	csv := "\ufeff" + header + "Frutas,,Mango,,4000,2,MAN-9\n"

	res, err := f.importer.Import(context.Background(), strings.NewReader(csv), catalog.Options{Encoding: "UTF-8"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProductsCreated)
	assert.Empty(t, res.Errors)
}

func TestImport_ArchivoVacio(t *testing.T) {
	f := newFixture()
	res, err := f.importer.Import(context.Background(), strings.NewReader(""), catalog.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rows)
}

func TestImport_CodificacionNoSoportada(t *testing.T) {
	f := newFixture()
	_, err := f.importer.Import(context.Background(), strings.NewReader(header), catalog.Options{Encoding: "ebcdic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codificación no soportada")
}

// brokenCategories simula un almacenamiento caído al crear.
type brokenCategories struct {
	*memory.CategoryRepo
}

func (brokenCategories) Create(context.Context, *entity.Category) error {
	return errors.New("conexión perdida")
}

func TestImport_ErrorInternoCortaLaImportacion(t *testing.T) {
	store := memory.NewStore()
	repo := brokenCategories{store.Categories()}
	categories := usecase.NewCategoryUseCase(repo)
	products := usecase.NewProductUseCase(store.Products(), repo)
	im := catalog.NewImporter(categories, products, logger.Nop())

	csv := header + "Aseo,,Jabón,,1500,1,JAB-1\nAseo,,Escoba,,1500,1,ESC-1\n"
	res, err := im.Import(context.Background(), strings.NewReader(csv), catalog.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
	assert.Equal(t, 0, res.ProductsCreated)
}
