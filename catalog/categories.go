package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"log/slog"

	"github.com/rshop/shopbot/logger"
)

// CategoriesByBrand returns the brand's categories ordered by name.
// An unknown brand yields an empty slice, not an error.
func (s *Store) CategoriesByBrand(ctx context.Context, brandID int64) ([]Category, error) {
	var categories []Category
	if err := s.db.SelectContext(ctx, &categories, `
		SELECT id, name, brand_id FROM categories
		WHERE brand_id = $1 ORDER BY name`, brandID); err != nil {
		return nil, fmt.Errorf("select categories of brand %d: %w", brandID, err)
	}
	return categories, nil
}

// CategoriesDetailed returns every category joined with its brand name,
// ordered by brand then category name.
func (s *Store) CategoriesDetailed(ctx context.Context) ([]CategoryDetail, error) {
	var categories []CategoryDetail
	if err := s.db.SelectContext(ctx, &categories, `
		SELECT c.id, c.name, c.brand_id, b.name AS brand_name
		FROM categories c
		JOIN brands b ON b.id = c.brand_id
		ORDER BY b.name, c.name`); err != nil {
		return nil, fmt.Errorf("select categories detailed: %w", err)
	}
	return categories, nil
}

// CategoryByID returns a single category or ErrNotFound.
func (s *Store) CategoryByID(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := s.db.GetContext(ctx, &c,
		`SELECT id, name, brand_id FROM categories WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("select category %d: %w", id, err)
	}
	return c, nil
}

// FindCategory looks a category up within a brand by case-insensitive
// exact name match.
func (s *Store) FindCategory(ctx context.Context, brandID int64, name string) (Category, error) {
	var c Category
	err := s.db.GetContext(ctx, &c, `
		SELECT id, name, brand_id FROM categories
		WHERE brand_id = $1 AND LOWER(name) = LOWER($2)`, brandID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("find category %q in brand %d: %w", name, brandID, err)
	}
	return c, nil
}

// CreateCategory inserts a new category under the brand. Name collisions
// within the brand yield ErrDuplicate.
func (s *Store) CreateCategory(ctx context.Context, brandID int64, name string) (Category, error) {
	var c Category
	err := s.db.GetContext(ctx, &c, `
		INSERT INTO categories (name, brand_id) VALUES ($1, $2)
		RETURNING id, name, brand_id`, name, brandID)
	if isUniqueViolation(err) {
		return Category{}, ErrDuplicate
	}
	if err != nil {
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	logger.SVCCatalog.Info("category created",
		slog.String("event", "category.create"),
		slog.Int64("category_id", c.ID),
		slog.Int64("brand_id", brandID),
	)
	return c, nil
}

// RenameCategory updates the category name within its brand.
func (s *Store) RenameCategory(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1`, id, name)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("rename category %d: %w", id, err)
	}
	return checkAffected(res)
}

// CategoryProductCount reports how many products a category holds.
func (s *Store) CategoryProductCount(ctx context.Context, id int64) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count products of category %d: %w", id, err)
	}
	return count, nil
}

// DeleteCategory removes the category and, via FK cascade, its products.
// It returns the photo references of the deleted products.
func (s *Store) DeleteCategory(ctx context.Context, id int64) ([]string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var photos []string
	if err := tx.SelectContext(ctx, &photos, `
		SELECT photo_url FROM products
		WHERE photo_url IS NOT NULL AND category_id = $1`, id); err != nil {
		return nil, fmt.Errorf("collect category photos %d: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("delete category %d: %w", id, err)
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete category %d: %w", id, err)
	}

	logger.SVCCatalog.Info("category deleted",
		slog.String("event", "category.delete"),
		slog.Int64("category_id", id),
		slog.Int("count", len(photos)),
	)
	return photos, nil
}
