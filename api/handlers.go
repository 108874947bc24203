package api

import (
	"strconv"

	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/rshop/shopbot/catalog"
	"github.com/rshop/shopbot/logger"
)

// getBrands returns every brand ordered by name.
func (s *Server) getBrands(c *fiber.Ctx) error {
	brands, err := s.store.Brands(c.UserContext())
	if err != nil {
		return internalError(c, "list brands", err)
	}
	if brands == nil {
		brands = []catalog.Brand{}
	}
	return c.JSON(brands)
}

// getCategories returns the brand's categories. An unknown brand yields
// an empty array, not a 404.
func (s *Server) getCategories(c *fiber.Ctx) error {
	brandID, err := pathID(c, "brand_id")
	if err != nil {
		return badRequest(c, "invalid brand_id")
	}
	cats, err := s.store.CategoriesByBrand(c.UserContext(), brandID)
	if err != nil {
		return internalError(c, "list categories", err)
	}
	if cats == nil {
		cats = []catalog.Category{}
	}
	return c.JSON(cats)
}

// getProducts returns the category's products. An unknown category
// yields an empty array, not a 404.
func (s *Server) getProducts(c *fiber.Ctx) error {
	categoryID, err := pathID(c, "category_id")
	if err != nil {
		return badRequest(c, "invalid category_id")
	}
	products, err := s.store.ProductsByCategory(c.UserContext(), categoryID)
	if err != nil {
		return internalError(c, "list products", err)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return c.JSON(products)
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// internalError hides the failure detail from the client and logs it.
func internalError(c *fiber.Ctx, op string, err error) error {
	logger.API.Error("request failed",
		slog.String("event", "api.error"),
		slog.String("operation", op),
		slog.String("path", c.Path()),
		slog.String("err", err.Error()),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
