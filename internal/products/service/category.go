package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"inventory-tracker/internal/products"
)

// resolveCategory turns a category selection into the id to store.
//
// A "new" category is inserted; if the name is already taken the existing row
// is reused, so two racing requests for the same new name end up sharing one
// category. Numeric ids are passed through unchecked and left to the foreign
// key. An empty selection is an error only when required is set.
func (s *Service) resolveCategory(ctx context.Context, sel products.CategorySelection, required bool) (*int64, error) {
	raw := strings.TrimSpace(sel.CategoryID)

	switch raw {
	case products.NewCategoryID:
		name := strings.TrimSpace(sel.NewCategoryName)
		if name == "" {
			return nil, products.Validation("New category name is required.")
		}
		cat, err := s.createOrReuseCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		return &cat.ID, nil

	case "":
		if required {
			return nil, products.Validation("Category is required.")
		}
		return nil, nil

	default:
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, products.Validation("Invalid category.")
		}
		return &id, nil
	}
}

func (s *Service) createOrReuseCategory(ctx context.Context, name string) (products.Category, error) {
	cat, err := s.repo.CreateCategory(ctx, name)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, products.ErrCategoryExists) {
		return products.Category{}, products.Storage("DB Error (Category): "+err.Error(), err)
	}

	cat, err = s.repo.FindCategoryByName(ctx, name)
	if err != nil {
		return products.Category{}, products.Storage("Failed to create new category.", err)
	}
	s.logger.Info("reusing existing category", "category_id", cat.ID, "name", name)
	return cat, nil
}
