package admin

import (
	"errors"
	"fmt"

	"github.com/rshop/shopbot/catalog"
	"github.com/rshop/shopbot/telegram/callbacks"
	"github.com/rshop/shopbot/telegram/format"
	tghelpers "github.com/rshop/shopbot/telegram/helpers"
	"github.com/rshop/shopbot/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// categorySelectMarkup lists every category as a "Brand / Category" pick button.
func categorySelectMarkup(cats []catalog.CategoryDetail, pickKey, backKey string) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(cats))
	for _, cat := range cats {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%s / %s (ID: %d)", cat.BrandName, cat.Name, cat.ID),
			Unique: pickKey,
			Data:   fmt.Sprintf("%d", cat.ID),
		})
	}
	markup := keyboard.InlineButtons(buttons)
	back := &tele.ReplyMarkup{}
	keyboard.AppendRow(markup, back.Data("🔙 Back", backKey))
	return markup
}

// CategoryAddStart asks which brand the new category belongs to.
func (h *Handler) CategoryAddStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	brands, err := h.store.Brands(ctx)
	if err != nil {
		return h.abortFlow(ctx, c, "category.add", err)
	}
	if len(brands) == 0 {
		return tghelpers.EditOrSendMD(c, "ℹ️ Add a brand first")
	}
	return tghelpers.EditOrSendMD(c, "Pick a brand for the new category:",
		brandSelectMarkup(brands, cbCatAddBrand, cbCatsMenu, 2))
}

// CategoryAddBrand stores the parent brand and asks for the category name.
func (h *Handler) CategoryAddBrand(c tele.Context) error {
	brandID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}
	userID := c.Sender().ID
	h.fsm.SetTemp(userID, tempBrandID, brandID)
	h.fsm.SetState(userID, stateCategoryAddName)
	return tghelpers.SendMD(c, "Enter the new category name:", cancelMarkup())
}

// CategoryAddName receives the category name and persists it under the
// selected brand.
func (h *Handler) CategoryAddName(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	brandID, ok := h.fsm.GetTempInt64(userID, tempBrandID)
	if !ok {
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ No brand selected.", adminMenuMarkup())
	}

	name, err := CleanName(c.Text())
	if err != nil {
		return tghelpers.SendMD(c, "❌ The name cannot be empty. Enter the category name:", cancelMarkup())
	}

	brand, err := h.store.BrandByID(ctx, brandID)
	if errors.Is(err, catalog.ErrNotFound) {
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ The selected brand no longer exists.", adminMenuMarkup())
	}
	if err != nil {
		return h.abortFlow(ctx, c, "category.add", err)
	}

	// Friendly duplicate check up front; the per-brand unique index
	// still guards the race between the lookup and the insert.
	if _, err := h.store.FindCategory(ctx, brandID, name); err == nil {
		return tghelpers.SendMD(c, "❌ This brand already has a category with this name. Enter a different name:", cancelMarkup())
	} else if !errors.Is(err, catalog.ErrNotFound) {
		return h.abortFlow(ctx, c, "category.add", err)
	}

	cat, err := h.store.CreateCategory(ctx, brandID, name)
	if errors.Is(err, catalog.ErrDuplicate) {
		return tghelpers.SendMD(c, "❌ This brand already has a category with this name. Enter a different name:", cancelMarkup())
	}
	if err != nil {
		return h.abortFlow(ctx, c, "category.add", err)
	}

	h.resetFlow(c)
	msg := fmt.Sprintf("✅ Category added:\nBrand: %s\nCategory: %s (ID: %d)",
		format.EscapeMarkdown(brand.Name), format.EscapeMarkdown(cat.Name), cat.ID)
	if err := tghelpers.SendMD(c, msg); err != nil {
		return err
	}
	return h.AdminPanel(c)
}

// CategoryEditSelect offers the category to rename.
func (h *Handler) CategoryEditSelect(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	cats, err := h.store.CategoriesDetailed(ctx)
	if err != nil {
		return h.abortFlow(ctx, c, "category.edit", err)
	}
	if len(cats) == 0 {
		return tghelpers.EditOrSendMD(c, "ℹ️ No categories yet")
	}
	return tghelpers.EditOrSendMD(c, "Pick a category to rename:",
		categorySelectMarkup(cats, cbCatEditPick, cbCatsMenu))
}

// CategoryEditPick stores the chosen category and asks for the new name.
func (h *Handler) CategoryEditPick(c tele.Context) error {
	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}
	userID := c.Sender().ID
	h.fsm.SetTemp(userID, tempCategoryID, categoryID)
	h.fsm.SetState(userID, stateCategoryEditName)
	return tghelpers.SendMD(c, "Enter the new category name:", cancelMarkup())
}

// CategoryEditName renames the previously selected category.
func (h *Handler) CategoryEditName(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	categoryID, ok := h.fsm.GetTempInt64(userID, tempCategoryID)
	if !ok {
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ No category selected.", adminMenuMarkup())
	}

	name, err := CleanName(c.Text())
	if err != nil {
		return tghelpers.SendMD(c, "❌ The name cannot be empty. Enter the category name:", cancelMarkup())
	}

	err = h.store.RenameCategory(ctx, categoryID, name)
	switch {
	case errors.Is(err, catalog.ErrDuplicate):
		return tghelpers.SendMD(c, "❌ This brand already has a category with this name. Enter a different name:", cancelMarkup())
	case errors.Is(err, catalog.ErrNotFound):
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ Category not found.", adminMenuMarkup())
	case err != nil:
		return h.abortFlow(ctx, c, "category.rename", err)
	}

	h.resetFlow(c)
	if err := tghelpers.SendMD(c, fmt.Sprintf("✅ Category renamed to *%s*", format.EscapeMarkdown(name))); err != nil {
		return err
	}
	return h.AdminPanel(c)
}

// CategoryDeleteSelect offers the category to delete.
func (h *Handler) CategoryDeleteSelect(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	cats, err := h.store.CategoriesDetailed(ctx)
	if err != nil {
		return h.abortFlow(ctx, c, "category.delete", err)
	}
	if len(cats) == 0 {
		return tghelpers.EditOrSendMD(c, "ℹ️ No categories yet")
	}
	return tghelpers.EditOrSendMD(c, "Pick a category to delete:",
		categorySelectMarkup(cats, cbCatDelPick, cbCatsMenu))
}

// CategoryDeletePick shows the product count and asks for confirmation.
func (h *Handler) CategoryDeletePick(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}

	cat, err := h.store.CategoryByID(ctx, categoryID)
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Category not found", ShowAlert: true})
	}
	if err != nil {
		return h.abortFlow(ctx, c, "category.delete", err)
	}

	count, err := h.store.CategoryProductCount(ctx, categoryID)
	if err != nil {
		return h.abortFlow(ctx, c, "category.delete", err)
	}

	text := fmt.Sprintf("Delete category *%s* (ID: %d)?", format.EscapeMarkdown(cat.Name), cat.ID)
	if count > 0 {
		text += fmt.Sprintf("\n\n⚠️ This also deletes %d products.", count)
	}

	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ Yes, delete", Unique: cbCatDelYes, Data: fmt.Sprintf("%d", categoryID)},
		{Text: "❌ No, keep it", Unique: cbCatDelNo},
	})
	return tghelpers.EditOrSendMD(c, text, markup)
}

// CategoryDeleteConfirm cascades the delete and unlinks orphaned photos.
func (h *Handler) CategoryDeleteConfirm(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}

	photos, err := h.store.DeleteCategory(ctx, categoryID)
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Category not found", ShowAlert: true})
	}
	if err != nil {
		return h.abortFlow(ctx, c, "category.delete", err)
	}
	h.photos.RemoveAll(photos)

	h.resetFlow(c)
	if err := tghelpers.EditOrSendMD(c, "✅ Category deleted"); err != nil {
		return err
	}
	return h.AdminPanel(c)
}

// CategoryDeleteAbort leaves the category untouched.
func (h *Handler) CategoryDeleteAbort(c tele.Context) error {
	h.resetFlow(c)
	if err := tghelpers.EditOrSendMD(c, "Deletion cancelled."); err != nil {
		return err
	}
	return h.CategoriesMenu(c)
}
