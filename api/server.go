// Package api serves the public read-only catalog API and the
// multipart admin upload endpoint.
package api

import (
	"context"
	"io"
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rshop/shopbot/catalog"
	"github.com/rshop/shopbot/logger"
)

// Store is the slice of the catalog the HTTP layer needs.
type Store interface {
	Brands(ctx context.Context) ([]catalog.Brand, error)
	CategoriesByBrand(ctx context.Context, brandID int64) ([]catalog.Category, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, np catalog.NewProduct) (catalog.Product, error)
}

// PhotoStorage persists uploaded product photos and exposes where they
// are served from.
type PhotoStorage interface {
	Save(r io.Reader, name string) (string, error)
	Remove(photoURL string) error
	Dir() string
	URLPrefix() string
}

// Server bundles the fiber app with its dependencies.
type Server struct {
	app    *fiber.App
	store  Store
	photos PhotoStorage
}

// NewServer builds the fiber app with all routes registered. Photos are
// served as static files under the storage URL prefix.
func NewServer(store Store, photos PhotoStorage) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{app: app, store: store, photos: photos}

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger())

	app.Static(photos.URLPrefix(), photos.Dir())

	apiGroup := app.Group("/api")
	apiGroup.Get("/brands", s.getBrands)
	apiGroup.Get("/categories/:brand_id", s.getCategories)
	apiGroup.Get("/products/:category_id", s.getProducts)
	apiGroup.Post("/admin/products", s.uploadProduct)

	return s
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen(addr string) error {
	logger.API.Info("api listening",
		slog.String("event", "api.start"),
		slog.String("addr", addr),
	)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// requestLogger emits one structured line per request.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		logger.API.Info("request handled",
			slog.String("event", "api.request"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return err
	}
}
