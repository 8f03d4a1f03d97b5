// Package catalog carga catálogos completos (categorías y productos) desde archivos CSV
// pasando por los mismos casos de uso que la API, de modo que se aplican las mismas reglas.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// Codificaciones aceptadas para el archivo de entrada.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "iso-8859-1"
)

// Row es una línea del CSV. Cada fila describe un producto y la categoría a la que pertenece;
// la categoría se crea la primera vez que aparece.
type Row struct {
	Category            string `csv:"categoria"`
	CategoryDescription string `csv:"categoria_descripcion"`
	Name                string `csv:"nombre"`
	Description         string `csv:"descripcion"`
	Price               string `csv:"precio"`
	Stock               string `csv:"stock"`
	Code                string `csv:"codigo"`
}

// Options controla cómo se lee el archivo.
type Options struct {
	Encoding  string // utf-8 (por defecto) o iso-8859-1
	Separator rune   // ',' por defecto
}

// RowError describe una fila rechazada por validación.
type RowError struct {
	Line    int
	Message string
}

// Result resume una importación.
type Result struct {
	Rows              int
	CategoriesCreated int
	ProductsCreated   int
	Skipped           int // productos cuyo código ya existía
	Errors            []RowError
}

// Importer recorre el CSV y crea categorías y productos.
type Importer struct {
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	log        *logger.Logger
}

// NewImporter construye el importador sobre los casos de uso.
func NewImporter(categories *usecase.CategoryUseCase, products *usecase.ProductUseCase, log *logger.Logger) *Importer {
	return &Importer{categories: categories, products: products, log: log}
}

// Import lee todas las filas de r y las aplica en orden. Los errores de negocio por fila
// se acumulan en el resultado; un error interno corta la importación.
func (im *Importer) Import(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	rows, err := decodeRows(r, opts)
	if err != nil {
		return nil, err
	}

	existing, err := im.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar categorías: %w", err)
	}
	lower := cases.Lower(language.Und)
	categoryIDs := make(map[string]int64, len(existing))
	for _, c := range existing {
		categoryIDs[lower.String(c.Name)] = c.ID
	}

	res := &Result{Rows: len(rows)}
	for i, row := range rows {
		line := i + 2 // la línea 1 es la cabecera
		reject := func(format string, args ...any) {
			msg := fmt.Sprintf(format, args...)
			res.Errors = append(res.Errors, RowError{Line: line, Message: msg})
			im.log.Warn().Int("line", line).Str("codigo", row.Code).Msg(msg)
		}

		categoryName := strings.TrimSpace(row.Category)
		if categoryName == "" {
			reject("La categoría es obligatoria")
			continue
		}
		key := lower.String(categoryName)
		categoryID, ok := categoryIDs[key]
		if !ok {
			created, err := im.categories.Create(ctx, dto.CreateCategoryRequest{
				Name:        categoryName,
				Description: optional(row.CategoryDescription),
			})
			if err != nil {
				if !domain.IsBusiness(err) {
					return res, fmt.Errorf("línea %d: %w", line, err)
				}
				reject("%s", err.Error())
				continue
			}
			categoryID = created.ID
			categoryIDs[key] = categoryID
			res.CategoriesCreated++
		}

		price, err := parsePrice(row.Price)
		if err != nil {
			reject("Precio inválido '%s'", row.Price)
			continue
		}
		stock, err := parseStock(row.Stock)
		if err != nil {
			reject("Stock inválido '%s'", row.Stock)
			continue
		}

		_, err = im.products.Create(ctx, dto.CreateProductRequest{
			Name:        strings.TrimSpace(row.Name),
			Description: optional(row.Description),
			Price:       price,
			Stock:       stock,
			Code:        strings.TrimSpace(row.Code),
			CategoryID:  categoryID,
		})
		switch {
		case err == nil:
			res.ProductsCreated++
		case domain.KindOf(err) == domain.KindConflict:
			res.Skipped++
			im.log.Info().Int("line", line).Str("codigo", row.Code).Msg("producto existente, se omite")
		case domain.IsBusiness(err):
			reject("%s", err.Error())
		default:
			return res, fmt.Errorf("línea %d: %w", line, err)
		}
	}

	im.log.Info().
		Int("rows", res.Rows).
		Int("categories_created", res.CategoriesCreated).
		Int("products_created", res.ProductsCreated).
		Int("skipped", res.Skipped).
		Int("errors", len(res.Errors)).
		Msg("importación finalizada")
	return res, nil
}

func decodeRows(r io.Reader, opts Options) ([]Row, error) {
	dec, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(transform.NewReader(r, dec.NewDecoder()))
	if opts.Separator != 0 {
		reader.Comma = opts.Separator
	}
	reader.TrimLeadingSpace = true

	var rows []Row
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	return rows, nil
}

func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingUTF8, "utf8":
		// UTF8BOM descarta el BOM que dejan algunas hojas de cálculo.
		return unicode.UTF8BOM, nil
	case EncodingLatin1, "latin1", "iso8859-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", name)
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parsePrice acepta punto o coma como separador decimal ("1500.50" o "1500,50").
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

func parseStock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
