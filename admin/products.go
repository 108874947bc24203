package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"

	"github.com/rshop/shopbot/catalog"
	"github.com/rshop/shopbot/telegram/callbacks"
	"github.com/rshop/shopbot/telegram/format"
	tghelpers "github.com/rshop/shopbot/telegram/helpers"
	"github.com/rshop/shopbot/telegram/keyboard"
)

// ProductAddStart begins the fixed add chain: brand, category, name,
// price, photo, description.
func (h *Handler) ProductAddStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	brands, err := h.store.Brands(ctx)
	if err != nil {
		return h.abortFlow(ctx, c, "product.add", err)
	}
	if len(brands) == 0 {
		return tghelpers.EditOrSendMD(c, "ℹ️ Add a brand first")
	}
	return tghelpers.EditOrSendMD(c, "Pick a brand for the new product:",
		brandSelectMarkup(brands, cbProdAddBrand, cbProdsMenu, 2))
}

// ProductAddBrand stores the brand and offers its categories.
func (h *Handler) ProductAddBrand(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	brandID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}

	cats, err := h.store.CategoriesByBrand(ctx, brandID)
	if err != nil {
		return h.abortFlow(ctx, c, "product.add", err)
	}
	if len(cats) == 0 {
		return tghelpers.EditOrSendMD(c, "ℹ️ This brand has no categories yet. Add a category first.")
	}

	h.fsm.SetTemp(c.Sender().ID, tempBrandID, brandID)

	buttons := make([]keyboard.InlineBtn, 0, len(cats))
	for _, cat := range cats {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   cat.Name,
			Unique: cbProdAddCat,
			Data:   fmt.Sprintf("%d", cat.ID),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 2)
	back := &tele.ReplyMarkup{}
	keyboard.AppendRow(markup, back.Data("🔙 Back", cbProdAdd))
	return tghelpers.EditOrSendMD(c, "Pick a category:", markup)
}

// ProductAddCategory stores the category and asks for the product name.
func (h *Handler) ProductAddCategory(c tele.Context) error {
	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}
	userID := c.Sender().ID
	h.fsm.SetTemp(userID, tempCategoryID, categoryID)
	h.fsm.SetState(userID, stateProductAddName)
	return tghelpers.SendMD(c, "Enter the product name:", cancelMarkup())
}

// ProductAddName stores the name and asks for the price.
func (h *Handler) ProductAddName(c tele.Context) error {
	userID := c.Sender().ID

	name, err := CleanName(c.Text())
	if err != nil {
		return tghelpers.SendMD(c, "❌ The name cannot be empty. Enter the product name:", cancelMarkup())
	}

	h.fsm.SetTemp(userID, tempName, name)
	h.fsm.SetState(userID, stateProductAddPrice)
	return tghelpers.SendMD(c, "Enter the price:", cancelMarkup())
}

// ProductAddPrice stores the price and asks for the photo.
func (h *Handler) ProductAddPrice(c tele.Context) error {
	userID := c.Sender().ID

	price, err := ParsePrice(c.Text())
	if err != nil {
		return tghelpers.SendMD(c, "❌ Enter a valid positive price, e.g. 199.99:", cancelMarkup())
	}

	h.fsm.SetTemp(userID, tempPrice, price.String())
	h.fsm.SetState(userID, stateProductAddPhoto)
	return tghelpers.SendMD(c, "Send the product photo:", cancelMarkup())
}

// ProductAddPhoto downloads the photo, stores it, and asks for the
// description.
func (h *Handler) ProductAddPhoto(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	url, err := h.savePhoto(c)
	if errors.Is(err, errNoPhoto) {
		return tghelpers.SendMD(c, "❌ Send a photo, not text:", cancelMarkup())
	}
	if err != nil {
		return h.abortFlow(ctx, c, "product.add", err)
	}

	h.fsm.SetTemp(userID, tempPhotoURL, url)
	h.fsm.SetState(userID, stateProductAddDesc)
	return tghelpers.SendMD(c, "Enter the description (or '-' to skip):", cancelMarkup())
}

// ProductAddDescription finishes the chain and persists the product.
func (h *Handler) ProductAddDescription(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	categoryID, ok := h.fsm.GetTempInt64(userID, tempCategoryID)
	if !ok {
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ No category selected.", adminMenuMarkup())
	}
	name, _ := h.fsm.GetTempString(userID, tempName)
	priceRaw, _ := h.fsm.GetTempString(userID, tempPrice)
	price, err := decimal.NewFromString(priceRaw)
	if name == "" || err != nil {
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ The flow state is incomplete, start over.", adminMenuMarkup())
	}

	var photoURL *string
	if url, ok := h.fsm.GetTempString(userID, tempPhotoURL); ok && url != "" {
		photoURL = &url
	}

	product, err := h.store.CreateProduct(ctx, catalog.NewProduct{
		Name:        name,
		Price:       price,
		Description: ParseDescription(c.Text()),
		PhotoURL:    photoURL,
		CategoryID:  categoryID,
	})
	if err != nil {
		if photoURL != nil {
			_ = h.photos.Remove(*photoURL)
		}
		return h.abortFlow(ctx, c, "product.add", err)
	}

	h.resetFlow(c)
	desc := "no description"
	if product.Description != nil {
		desc = *product.Description
	}
	msg := fmt.Sprintf("✅ Product added:\n%s\nPrice: %s\nDescription: %s\nID: %d",
		format.EscapeMarkdown(product.Name), product.Price.String(), format.EscapeMarkdown(desc), product.ID)
	if err := tghelpers.SendMD(c, msg); err != nil {
		return err
	}
	return h.AdminPanel(c)
}

// ProductEditStart asks for the product name. Names are not unique, so a
// follow-up disambiguation step may be needed.
func (h *Handler) ProductEditStart(c tele.Context) error {
	h.fsm.SetState(c.Sender().ID, stateProductEditSearch)
	return tghelpers.SendMD(c, "Enter the name of the product to edit:", cancelMarkup())
}

// ProductEditSearch looks the name up and either jumps straight to the
// field menu or asks which match was meant.
func (h *Handler) ProductEditSearch(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	name, err := CleanName(c.Text())
	if err != nil {
		return tghelpers.SendMD(c, "❌ The name cannot be empty. Enter the product name:", cancelMarkup())
	}

	matches, err := h.store.FindProducts(ctx, name)
	if err != nil {
		return h.abortFlow(ctx, c, "product.edit", err)
	}

	switch len(matches) {
	case 0:
		return tghelpers.SendMD(c, "❌ No product with this name. Enter another name:", cancelMarkup())
	case 1:
		h.fsm.ClearState(userID)
		h.fsm.SetTemp(userID, tempProductID, matches[0].ID)
		return h.sendFieldMenu(c, matches[0])
	}

	h.fsm.ClearState(userID)
	buttons := make([]keyboard.InlineBtn, 0, len(matches))
	for _, m := range matches {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%s / %s / %s (ID: %d)", m.BrandName, m.CategoryName, m.Name, m.ID),
			Unique: cbProdEditPick,
			Data:   fmt.Sprintf("%d", m.ID),
		})
	}
	markup := keyboard.InlineButtons(buttons)
	back := &tele.ReplyMarkup{}
	keyboard.AppendRow(markup, back.Data("🔙 Back", cbProdsMenu))
	return tghelpers.SendMD(c, "Several products share this name. Pick one:", markup)
}

// ProductEditPick resolves a disambiguation choice to the field menu.
func (h *Handler) ProductEditPick(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	productID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}

	product, err := h.store.ProductByID(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Product not found", ShowAlert: true})
	}
	if err != nil {
		return h.abortFlow(ctx, c, "product.edit", err)
	}

	h.fsm.SetTemp(c.Sender().ID, tempProductID, product.ID)
	return h.sendFieldMenu(c, catalog.ProductDetail{Product: product})
}

func (h *Handler) sendFieldMenu(c tele.Context, p catalog.ProductDetail) error {
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✏️ Name", Unique: cbProdField, Data: catalog.FieldName.String()},
			{Text: "💰 Price", Unique: cbProdField, Data: catalog.FieldPrice.String()},
		},
		[]keyboard.InlineBtn{
			{Text: "📝 Description", Unique: cbProdField, Data: catalog.FieldDescription.String()},
			{Text: "🖼 Photo", Unique: cbProdField, Data: catalog.FieldPhoto.String()},
		},
		[]keyboard.InlineBtn{
			{Text: "🔙 Back", Unique: cbProdsMenu},
		},
	)
	text := fmt.Sprintf("Editing *%s* (ID: %d). Pick a field:", format.EscapeMarkdown(p.Name), p.ID)
	return tghelpers.SendMD(c, text, markup)
}

// ProductFieldPick stores the chosen field and prompts for its new value.
func (h *Handler) ProductFieldPick(c tele.Context) error {
	field, ok := catalog.ParseProductField(callbacks.CallbackPayload(c))
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}
	userID := c.Sender().ID
	if _, ok := h.fsm.GetTempInt64(userID, tempProductID); !ok {
		h.resetFlow(c)
		return tghelpers.EditOrSendMD(c, "❌ No product selected.", adminMenuMarkup())
	}

	h.fsm.SetTemp(userID, tempField, field.String())
	h.fsm.SetState(userID, stateProductEditValue)

	var prompt string
	switch field {
	case catalog.FieldName:
		prompt = "Enter the new name:"
	case catalog.FieldPrice:
		prompt = "Enter the new price:"
	case catalog.FieldDescription:
		prompt = "Enter the new description (or '-' to clear):"
	case catalog.FieldPhoto:
		prompt = "Send the new photo:"
	}
	return tghelpers.SendMD(c, prompt, cancelMarkup())
}

// ProductEditValue applies the new value to the selected field.
func (h *Handler) ProductEditValue(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	productID, ok := h.fsm.GetTempInt64(userID, tempProductID)
	if !ok {
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ No product selected.", adminMenuMarkup())
	}
	fieldRaw, _ := h.fsm.GetTempString(userID, tempField)
	field, ok := catalog.ParseProductField(fieldRaw)
	if !ok {
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ No field selected.", adminMenuMarkup())
	}

	var err error
	switch field {
	case catalog.FieldName:
		var name string
		name, err = CleanName(c.Text())
		if err != nil {
			return tghelpers.SendMD(c, "❌ The name cannot be empty. Enter the new name:", cancelMarkup())
		}
		err = h.store.UpdateProductName(ctx, productID, name)
	case catalog.FieldPrice:
		var price decimal.Decimal
		price, err = ParsePrice(c.Text())
		if err != nil {
			return tghelpers.SendMD(c, "❌ Enter a valid positive price, e.g. 199.99:", cancelMarkup())
		}
		err = h.store.UpdateProductPrice(ctx, productID, price)
	case catalog.FieldDescription:
		err = h.store.UpdateProductDescription(ctx, productID, ParseDescription(c.Text()))
	case catalog.FieldPhoto:
		err = h.swapPhoto(ctx, c, productID)
		if errors.Is(err, errNoPhoto) {
			return tghelpers.SendMD(c, "❌ Send a photo, not text:", cancelMarkup())
		}
	}

	if errors.Is(err, catalog.ErrNotFound) {
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ Product not found.", adminMenuMarkup())
	}
	if err != nil {
		return h.abortFlow(ctx, c, "product.edit", err)
	}

	h.resetFlow(c)
	if err := tghelpers.SendMD(c, fmt.Sprintf("✅ Product %s updated", field)); err != nil {
		return err
	}
	return h.AdminPanel(c)
}

// ProductDeleteSelect offers the product to delete.
func (h *Handler) ProductDeleteSelect(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	products, err := h.store.ProductsDetailed(ctx)
	if err != nil {
		return h.abortFlow(ctx, c, "product.delete", err)
	}
	if len(products) == 0 {
		return tghelpers.EditOrSendMD(c, "ℹ️ No products yet")
	}

	buttons := make([]keyboard.InlineBtn, 0, len(products))
	for _, p := range products {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%s / %s / %s (ID: %d)", p.BrandName, p.CategoryName, p.Name, p.ID),
			Unique: cbProdDelPick,
			Data:   fmt.Sprintf("%d", p.ID),
		})
	}
	markup := keyboard.InlineButtons(buttons)
	back := &tele.ReplyMarkup{}
	keyboard.AppendRow(markup, back.Data("🔙 Back", cbProdsMenu))
	return tghelpers.EditOrSendMD(c, "Pick a product to delete:", markup)
}

// ProductDeletePick asks for confirmation.
func (h *Handler) ProductDeletePick(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	productID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}

	product, err := h.store.ProductByID(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Product not found", ShowAlert: true})
	}
	if err != nil {
		return h.abortFlow(ctx, c, "product.delete", err)
	}

	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ Yes, delete", Unique: cbProdDelYes, Data: fmt.Sprintf("%d", productID)},
		{Text: "❌ No, keep it", Unique: cbProdDelNo},
	})
	text := fmt.Sprintf("Delete product *%s* (ID: %d, price %s)?",
		format.EscapeMarkdown(product.Name), product.ID, product.Price.String())
	return tghelpers.EditOrSendMD(c, text, markup)
}

// ProductDeleteConfirm removes the product and its photo file.
func (h *Handler) ProductDeleteConfirm(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	productID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}

	photo, err := h.store.DeleteProduct(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Product not found", ShowAlert: true})
	}
	if err != nil {
		return h.abortFlow(ctx, c, "product.delete", err)
	}
	if photo != nil {
		h.photos.RemoveAll([]string{*photo})
	}

	h.resetFlow(c)
	if err := tghelpers.EditOrSendMD(c, "✅ Product deleted"); err != nil {
		return err
	}
	return h.AdminPanel(c)
}

// ProductDeleteAbort leaves the product untouched.
func (h *Handler) ProductDeleteAbort(c tele.Context) error {
	h.resetFlow(c)
	if err := tghelpers.EditOrSendMD(c, "Deletion cancelled."); err != nil {
		return err
	}
	return h.ProductsMenu(c)
}

var errNoPhoto = errors.New("admin: message carries no photo")

// savePhoto downloads the message photo from Telegram and stores it under
// a file-id derived name, returning the public URL path.
func (h *Handler) savePhoto(c tele.Context) (string, error) {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return "", errNoPhoto
	}

	rc, err := c.Bot().File(&msg.Photo.File)
	if err != nil {
		return "", fmt.Errorf("download photo %s: %w", msg.Photo.FileID, err)
	}
	defer rc.Close()

	return h.photos.Save(rc, msg.Photo.FileID+".jpg")
}

// swapPhoto stores the new photo, points the product at it, and unlinks
// the replaced file.
func (h *Handler) swapPhoto(ctx context.Context, c tele.Context, productID int64) error {
	url, err := h.savePhoto(c)
	if err != nil {
		return err
	}
	old, err := h.store.UpdateProductPhoto(ctx, productID, url)
	if err != nil {
		_ = h.photos.Remove(url)
		return err
	}
	if old != nil {
		_ = h.photos.Remove(*old)
	}
	return nil
}
