// Package memory implementa los puertos de persistencia en memoria de proceso.
// Aplica las mismas reglas que los índices únicos parciales de PostgreSQL:
// nombre de categoría y código de producto únicos entre registros activos, sin distinguir mayúsculas.
package memory

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// Store guarda categorías y productos protegidos por un único RWMutex.
type Store struct {
	mu             sync.RWMutex
	categories     map[int64]*entity.Category
	products       map[int64]*entity.Product
	nextCategoryID int64
	nextProductID  int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		categories: make(map[int64]*entity.Category),
		products:   make(map[int64]*entity.Product),
	}
}

// Categories devuelve el repositorio de categorías sobre este almacén.
func (s *Store) Categories() *CategoryRepo {
	return &CategoryRepo{s: s}
}

// Products devuelve el repositorio de productos sobre este almacén.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{s: s}
}

// sameKey compara en minúsculas como lower() de PostgreSQL: "Straße" y "strasse" son distintos.
// cases.Caser no es seguro para uso concurrente, así que se crea uno por llamada.
func sameKey(a, b string) bool {
	lower := cases.Lower(language.Und)
	return lower.String(a) == lower.String(b)
}

// containsLower equivale a ILIKE '%term%'.
func containsLower(s, term string) bool {
	lower := cases.Lower(language.Und)
	return strings.Contains(lower.String(s), lower.String(term))
}

// sortByName ordena alfabéticamente según la collation española.
func sortByName[T any](items []T, name func(T) string) {
	c := collate.New(language.Spanish)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(name(items[i]), name(items[j])) < 0
	})
}

// activeProductCount debe llamarse con el lock tomado.
func (s *Store) activeProductCount(categoryID int64) int {
	n := 0
	for _, p := range s.products {
		if p.Active && p.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// categoryView copia la categoría y completa el total de productos activos. Requiere el lock.
func (s *Store) categoryView(c *entity.Category) *entity.Category {
	out := *c
	out.Description = cloneString(c.Description)
	out.UpdatedAt = cloneTime(c.UpdatedAt)
	out.Deletion = cloneAudit(c.Deletion)
	out.ActiveProducts = s.activeProductCount(c.ID)
	return &out
}

// productView copia el producto y completa el nombre de su categoría. Requiere el lock.
func (s *Store) productView(p *entity.Product) *entity.Product {
	out := *p
	out.Description = cloneString(p.Description)
	out.UpdatedAt = cloneTime(p.UpdatedAt)
	out.Deletion = cloneAudit(p.Deletion)
	if c, ok := s.categories[p.CategoryID]; ok {
		out.CategoryName = c.Name
	}
	return &out
}

// activeProducts devuelve las vistas de los productos activos que cumplen keep, ordenadas por nombre.
func (s *Store) activeProducts(keep func(*entity.Product) bool) []*entity.Product {
	list := make([]*entity.Product, 0)
	for _, p := range s.products {
		if p.Active && keep(p) {
			list = append(list, s.productView(p))
		}
	}
	sortByName(list, func(p *entity.Product) string { return p.Name })
	return list
}
