package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria del puerto ProductRepository.
type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.activeProducts(func(*entity.Product) bool { return true }), nil
}

func (r *ProductRepo) ListByCategory(_ context.Context, categoryID int64) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.activeProducts(func(p *entity.Product) bool { return p.CategoryID == categoryID }), nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || !p.Active {
		return nil, nil
	}
	return r.s.productView(p), nil
}

// Search compara de forma literal: los caracteres comodín de SQL no tienen significado aquí.
func (r *ProductRepo) Search(_ context.Context, term string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.activeProducts(func(p *entity.Product) bool {
		return containsLower(p.Name, term) || containsLower(p.Code, term)
	}), nil
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if product.Active && r.codeTaken(product.Code, 0) {
		return fmt.Errorf("insert product: %w", domain.ErrDuplicate)
	}
	category, ok := r.s.categories[product.CategoryID]
	if !ok {
		return fmt.Errorf("insert product: %w", domain.ErrInvalidInput)
	}
	r.s.nextProductID++
	product.ID = r.s.nextProductID
	product.CategoryName = category.Name
	stored := *product
	stored.Description = cloneString(product.Description)
	stored.UpdatedAt = cloneTime(product.UpdatedAt)
	stored.Deletion = nil
	r.s.products[stored.ID] = &stored
	return nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[product.ID]
	if !ok || !p.Active {
		return nil, nil
	}
	if product.Active && r.codeTaken(product.Code, p.ID) {
		return nil, fmt.Errorf("update product: %w", domain.ErrDuplicate)
	}
	if _, ok := r.s.categories[product.CategoryID]; !ok {
		return nil, fmt.Errorf("update product: %w", domain.ErrInvalidInput)
	}
	p.Name = product.Name
	p.Description = cloneString(product.Description)
	p.Price = product.Price
	p.Stock = product.Stock
	p.Code = product.Code
	p.Active = product.Active
	p.CategoryID = product.CategoryID
	p.UpdatedAt = cloneTime(product.UpdatedAt)
	return r.s.productView(p), nil
}

func (r *ProductRepo) UpdatePartial(_ context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || !p.Active {
		return nil, nil
	}
	code := p.Code
	if patch.Code != nil {
		code = *patch.Code
	}
	active := p.Active
	if patch.Active != nil {
		active = *patch.Active
	}
	if active && r.codeTaken(code, id) {
		return nil, fmt.Errorf("patch product: %w", domain.ErrDuplicate)
	}
	if patch.CategoryID != nil {
		if _, ok := r.s.categories[*patch.CategoryID]; !ok {
			return nil, fmt.Errorf("patch product: %w", domain.ErrInvalidInput)
		}
		p.CategoryID = *patch.CategoryID
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = emptyToNil(patch.Description)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	p.Code = code
	p.Active = active
	updatedAt := patch.UpdatedAt
	p.UpdatedAt = &updatedAt
	return r.s.productView(p), nil
}

func (r *ProductRepo) SoftDelete(_ context.Context, id int64, at time.Time, audit *entity.DeletionAudit) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || !p.Active {
		return false, nil
	}
	p.Active = false
	p.UpdatedAt = &at
	p.Deletion = cloneAudit(audit)
	return true, nil
}

func (r *ProductRepo) ExistsByCode(_ context.Context, code string, excludeID *int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var exclude int64
	if excludeID != nil {
		exclude = *excludeID
	}
	return r.codeTaken(code, exclude), nil
}

// codeTaken requiere el lock. exclude 0 no excluye ningún producto.
func (r *ProductRepo) codeTaken(code string, exclude int64) bool {
	for _, p := range r.s.products {
		if p.Active && p.ID != exclude && sameKey(p.Code, code) {
			return true
		}
	}
	return false
}
