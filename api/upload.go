package api

import (
	"strconv"
	"strings"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rshop/shopbot/catalog"
	"github.com/rshop/shopbot/logger"
	"github.com/rshop/shopbot/storage"
)

// uploadProduct creates a product from a multipart form: category_id,
// name, price, an optional description, and a photo file.
func (s *Server) uploadProduct(c *fiber.Ctx) error {
	categoryID, err := strconv.ParseInt(c.FormValue("category_id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid category_id")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return badRequest(c, "name is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("price")))
	if err != nil || !price.IsPositive() {
		return badRequest(c, "price must be a positive decimal")
	}

	var description *string
	if desc := strings.TrimSpace(c.FormValue("description")); desc != "" {
		description = &desc
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "photo file is required")
	}

	src, err := file.Open()
	if err != nil {
		return internalError(c, "open upload", err)
	}
	defer src.Close()

	photoURL, err := s.photos.Save(src, uuid.New().String()+storage.Ext(file.Filename))
	if err != nil {
		return internalError(c, "save photo", err)
	}

	product, err := s.store.CreateProduct(c.UserContext(), catalog.NewProduct{
		Name:        name,
		Price:       price,
		Description: description,
		PhotoURL:    &photoURL,
		CategoryID:  categoryID,
	})
	if err != nil {
		// Do not strand the file when the insert fails.
		if rmErr := s.photos.Remove(photoURL); rmErr != nil {
			logger.API.Warn("orphan photo cleanup failed",
				slog.String("event", "api.upload"),
				slog.String("photo", photoURL),
				slog.String("err", rmErr.Error()),
			)
		}
		return internalError(c, "create product", err)
	}

	logger.API.Info("product uploaded",
		slog.String("event", "api.upload"),
		slog.Int64("product_id", product.ID),
		slog.Int64("category_id", categoryID),
	)
	return c.Status(fiber.StatusCreated).JSON(product)
}
