package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación en memoria del puerto CategoryRepository.
type CategoryRepo struct {
	s *Store
}

func (r *CategoryRepo) ListActive(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		if c.Active {
			list = append(list, r.s.categoryView(c))
		}
	}
	sortByName(list, func(c *entity.Category) string { return c.Name })
	return list, nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok || !c.Active {
		return nil, nil
	}
	return r.s.categoryView(c), nil
}

func (r *CategoryRepo) GetByIDWithProducts(_ context.Context, id int64) (*entity.CategoryDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok || !c.Active {
		return nil, nil
	}
	products := r.s.activeProducts(func(p *entity.Product) bool { return p.CategoryID == id })
	return &entity.CategoryDetail{Category: *r.s.categoryView(c), Products: products}, nil
}

func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if category.Active && r.nameTaken(category.Name, 0) {
		return fmt.Errorf("insert category: %w", domain.ErrDuplicate)
	}
	r.s.nextCategoryID++
	category.ID = r.s.nextCategoryID
	stored := *category
	stored.Description = cloneString(category.Description)
	stored.UpdatedAt = cloneTime(category.UpdatedAt)
	stored.Deletion = nil
	stored.ActiveProducts = 0
	r.s.categories[stored.ID] = &stored
	return nil
}

func (r *CategoryRepo) Update(_ context.Context, category *entity.Category) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[category.ID]
	if !ok || !c.Active {
		return nil, nil
	}
	if category.Active && r.nameTaken(category.Name, c.ID) {
		return nil, fmt.Errorf("update category: %w", domain.ErrDuplicate)
	}
	c.Name = category.Name
	c.Description = cloneString(category.Description)
	c.Active = category.Active
	c.UpdatedAt = cloneTime(category.UpdatedAt)
	return r.s.categoryView(c), nil
}

func (r *CategoryRepo) UpdatePartial(_ context.Context, id int64, patch entity.CategoryPatch) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || !c.Active {
		return nil, nil
	}
	name := c.Name
	if patch.Name != nil {
		name = *patch.Name
	}
	active := c.Active
	if patch.Active != nil {
		active = *patch.Active
	}
	if active && r.nameTaken(name, id) {
		return nil, fmt.Errorf("patch category: %w", domain.ErrDuplicate)
	}
	c.Name = name
	c.Active = active
	if patch.Description != nil {
		c.Description = emptyToNil(patch.Description)
	}
	updatedAt := patch.UpdatedAt
	c.UpdatedAt = &updatedAt

	out := r.s.categoryView(c)
	out.ActiveProducts = 0
	return out, nil
}

func (r *CategoryRepo) SoftDelete(_ context.Context, id int64, at time.Time, audit *entity.DeletionAudit) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || !c.Active || r.s.activeProductCount(id) > 0 {
		return false, nil
	}
	c.Active = false
	c.UpdatedAt = &at
	c.Deletion = cloneAudit(audit)
	return true, nil
}

func (r *CategoryRepo) ExistsByName(_ context.Context, name string, excludeID *int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var exclude int64
	if excludeID != nil {
		exclude = *excludeID
	}
	return r.nameTaken(name, exclude), nil
}

// nameTaken requiere el lock. exclude 0 no excluye ninguna categoría.
func (r *CategoryRepo) nameTaken(name string, exclude int64) bool {
	for _, c := range r.s.categories {
		if c.Active && c.ID != exclude && sameKey(c.Name, name) {
			return true
		}
	}
	return false
}
