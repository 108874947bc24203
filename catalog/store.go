package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/rshop/shopbot/logger"
)

// Store implements catalog persistence on top of PostgreSQL.
// Every write is a single statement (or one transaction for cascade
// deletes that must also report orphaned photo files), so each
// operation is all-or-nothing.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Brands returns all brands ordered by name.
func (s *Store) Brands(ctx context.Context) ([]Brand, error) {
	var brands []Brand
	if err := s.db.SelectContext(ctx, &brands,
		`SELECT id, name FROM brands ORDER BY name`); err != nil {
		return nil, fmt.Errorf("select brands: %w", err)
	}
	return brands, nil
}

// BrandByID returns a single brand or ErrNotFound.
func (s *Store) BrandByID(ctx context.Context, id int64) (Brand, error) {
	var b Brand
	err := s.db.GetContext(ctx, &b,
		`SELECT id, name FROM brands WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Brand{}, ErrNotFound
	}
	if err != nil {
		return Brand{}, fmt.Errorf("select brand %d: %w", id, err)
	}
	return b, nil
}

// FindBrand looks a brand up by case-insensitive exact name match.
func (s *Store) FindBrand(ctx context.Context, name string) (Brand, error) {
	var b Brand
	err := s.db.GetContext(ctx, &b,
		`SELECT id, name FROM brands WHERE LOWER(name) = LOWER($1)`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return Brand{}, ErrNotFound
	}
	if err != nil {
		return Brand{}, fmt.Errorf("find brand %q: %w", name, err)
	}
	return b, nil
}

// CreateBrand inserts a new brand. A name that collides
// case-insensitively with an existing brand yields ErrDuplicate.
func (s *Store) CreateBrand(ctx context.Context, name string) (Brand, error) {
	var b Brand
	err := s.db.GetContext(ctx, &b,
		`INSERT INTO brands (name) VALUES ($1) RETURNING id, name`, name)
	if isUniqueViolation(err) {
		return Brand{}, ErrDuplicate
	}
	if err != nil {
		return Brand{}, fmt.Errorf("insert brand: %w", err)
	}
	logger.SVCCatalog.Info("brand created",
		slog.String("event", "brand.create"),
		slog.Int64("brand_id", b.ID),
	)
	return b, nil
}

// RenameBrand updates the brand name, keeping the uniqueness rule.
func (s *Store) RenameBrand(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE brands SET name = $2 WHERE id = $1`, id, name)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("rename brand %d: %w", id, err)
	}
	return checkAffected(res)
}

// BrandDependents reports how many categories and products hang off a brand.
func (s *Store) BrandDependents(ctx context.Context, id int64) (categories, products int, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM categories WHERE brand_id = $1),
			(SELECT COUNT(*) FROM products WHERE category_id IN
				(SELECT id FROM categories WHERE brand_id = $1))`, id)
	if err := row.Scan(&categories, &products); err != nil {
		return 0, 0, fmt.Errorf("count brand dependents %d: %w", id, err)
	}
	return categories, products, nil
}

// DeleteBrand removes the brand and, via FK cascade, all of its
// categories and products. It returns the photo references of products
// destroyed by the cascade so the caller can unlink the files.
func (s *Store) DeleteBrand(ctx context.Context, id int64) ([]string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete brand: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var photos []string
	if err := tx.SelectContext(ctx, &photos, `
		SELECT photo_url FROM products
		WHERE photo_url IS NOT NULL AND category_id IN
			(SELECT id FROM categories WHERE brand_id = $1)`, id); err != nil {
		return nil, fmt.Errorf("collect brand photos %d: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("delete brand %d: %w", id, err)
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete brand %d: %w", id, err)
	}

	logger.SVCCatalog.Info("brand deleted",
		slog.String("event", "brand.delete"),
		slog.Int64("brand_id", id),
		slog.Int("count", len(photos)),
	)
	return photos, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
