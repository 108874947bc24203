package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/rshop/shopbot/logger"
)

// ProductsByCategory returns the category's products ordered by name.
// An unknown category yields an empty slice, not an error.
func (s *Store) ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	var products []Product
	if err := s.db.SelectContext(ctx, &products, `
		SELECT id, name, price, description, photo_url, category_id
		FROM products WHERE category_id = $1 ORDER BY name`, categoryID); err != nil {
		return nil, fmt.Errorf("select products of category %d: %w", categoryID, err)
	}
	return products, nil
}

// ProductsDetailed returns every product joined with its category and
// brand names, ordered for grouped rendering.
func (s *Store) ProductsDetailed(ctx context.Context) ([]ProductDetail, error) {
	var products []ProductDetail
	if err := s.db.SelectContext(ctx, &products, `
		SELECT p.id, p.name, p.price, p.description, p.photo_url, p.category_id,
		       c.name AS category_name, b.name AS brand_name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = c.brand_id
		ORDER BY b.name, c.name, p.name`); err != nil {
		return nil, fmt.Errorf("select products detailed: %w", err)
	}
	return products, nil
}

// ProductByID returns a single product or ErrNotFound.
func (s *Store) ProductByID(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := s.db.GetContext(ctx, &p, `
		SELECT id, name, price, description, photo_url, category_id
		FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("select product %d: %w", id, err)
	}
	return p, nil
}

// FindProducts returns every product whose name matches case-insensitively.
// Product names are not unique, so the caller may need to disambiguate.
func (s *Store) FindProducts(ctx context.Context, name string) ([]ProductDetail, error) {
	var products []ProductDetail
	if err := s.db.SelectContext(ctx, &products, `
		SELECT p.id, p.name, p.price, p.description, p.photo_url, p.category_id,
		       c.name AS category_name, b.name AS brand_name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = c.brand_id
		WHERE LOWER(p.name) = LOWER($1)
		ORDER BY b.name, c.name`, name); err != nil {
		return nil, fmt.Errorf("find products %q: %w", name, err)
	}
	return products, nil
}

// NewProduct carries the attributes of a product being created.
type NewProduct struct {
	Name        string
	Price       decimal.Decimal
	Description *string
	PhotoURL    *string
	CategoryID  int64
}

// CreateProduct inserts a new product into its category.
func (s *Store) CreateProduct(ctx context.Context, np NewProduct) (Product, error) {
	var p Product
	err := s.db.GetContext(ctx, &p, `
		INSERT INTO products (name, price, description, photo_url, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, price, description, photo_url, category_id`,
		np.Name, np.Price, np.Description, np.PhotoURL, np.CategoryID)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	logger.SVCCatalog.Info("product created",
		slog.String("event", "product.create"),
		slog.Int64("product_id", p.ID),
		slog.Int64("category_id", np.CategoryID),
	)
	return p, nil
}

// UpdateProductName changes the product name.
func (s *Store) UpdateProductName(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("update product %d name: %w", id, err)
	}
	return checkAffected(res)
}

// UpdateProductPrice changes the product price.
func (s *Store) UpdateProductPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET price = $2 WHERE id = $1`, id, price)
	if err != nil {
		return fmt.Errorf("update product %d price: %w", id, err)
	}
	return checkAffected(res)
}

// UpdateProductDescription changes the product description. A nil value
// clears it.
func (s *Store) UpdateProductDescription(ctx context.Context, id int64, description *string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET description = $2 WHERE id = $1`, id, description)
	if err != nil {
		return fmt.Errorf("update product %d description: %w", id, err)
	}
	return checkAffected(res)
}

// UpdateProductPhoto swaps the photo reference and returns the previous
// one so the caller can unlink the old file.
func (s *Store) UpdateProductPhoto(ctx context.Context, id int64, photoURL string) (*string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update photo: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var old *string
	err = tx.GetContext(ctx, &old,
		`SELECT photo_url FROM products WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product %d photo: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE products SET photo_url = $2 WHERE id = $1`, id, photoURL); err != nil {
		return nil, fmt.Errorf("update product %d photo: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update photo %d: %w", id, err)
	}
	return old, nil
}

// DeleteProduct removes the product and returns its photo reference, if any.
func (s *Store) DeleteProduct(ctx context.Context, id int64) (*string, error) {
	var photo *string
	err := s.db.GetContext(ctx, &photo,
		`DELETE FROM products WHERE id = $1 RETURNING photo_url`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete product %d: %w", id, err)
	}
	logger.SVCCatalog.Info("product deleted",
		slog.String("event", "product.delete"),
		slog.Int64("product_id", id),
	)
	return photo, nil
}
