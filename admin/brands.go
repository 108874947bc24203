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

// brandSelectMarkup lists every brand as a pick button.
func brandSelectMarkup(brands []catalog.Brand, pickKey, backKey string, perRow int) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(brands))
	for _, b := range brands {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   b.Name,
			Unique: pickKey,
			Data:   fmt.Sprintf("%d", b.ID),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, perRow)
	back := &tele.ReplyMarkup{}
	keyboard.AppendRow(markup, back.Data("🔙 Back", backKey))
	return markup
}

// BrandAddStart asks for the new brand name.
func (h *Handler) BrandAddStart(c tele.Context) error {
	h.fsm.SetState(c.Sender().ID, stateBrandAddName)
	return tghelpers.SendMD(c, "Enter the new brand name:", cancelMarkup())
}

// BrandAddName receives the brand name and persists it.
func (h *Handler) BrandAddName(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	name, err := CleanName(c.Text())
	if err != nil {
		return tghelpers.SendMD(c, "❌ The name cannot be empty. Enter the brand name:", cancelMarkup())
	}

	// Friendly duplicate check up front; the unique index still guards
	// the race between the lookup and the insert.
	if _, err := h.store.FindBrand(ctx, name); err == nil {
		return tghelpers.SendMD(c, "❌ A brand with this name already exists. Enter a different name:", cancelMarkup())
	} else if !errors.Is(err, catalog.ErrNotFound) {
		return h.abortFlow(ctx, c, "brand.add", err)
	}

	brand, err := h.store.CreateBrand(ctx, name)
	if errors.Is(err, catalog.ErrDuplicate) {
		return tghelpers.SendMD(c, "❌ A brand with this name already exists. Enter a different name:", cancelMarkup())
	}
	if err != nil {
		return h.abortFlow(ctx, c, "brand.add", err)
	}

	h.resetFlow(c)
	if err := tghelpers.SendMD(c, fmt.Sprintf("✅ Brand *%s* added (ID: %d)", format.EscapeMarkdown(brand.Name), brand.ID)); err != nil {
		return err
	}
	return h.AdminPanel(c)
}

// BrandEditSelect offers the brand to rename.
func (h *Handler) BrandEditSelect(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	brands, err := h.store.Brands(ctx)
	if err != nil {
		return h.abortFlow(ctx, c, "brand.edit", err)
	}
	if len(brands) == 0 {
		return tghelpers.EditOrSendMD(c, "ℹ️ No brands yet")
	}
	return tghelpers.EditOrSendMD(c, "Pick a brand to rename:",
		brandSelectMarkup(brands, cbBrandEditPick, cbBrandsMenu, 1))
}

// BrandEditPick stores the chosen brand and asks for the new name.
func (h *Handler) BrandEditPick(c tele.Context) error {
	brandID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}
	userID := c.Sender().ID
	h.fsm.SetTemp(userID, tempBrandID, brandID)
	h.fsm.SetState(userID, stateBrandEditName)
	return tghelpers.SendMD(c, "Enter the new brand name:", cancelMarkup())
}

// BrandEditName renames the previously selected brand.
func (h *Handler) BrandEditName(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	brandID, ok := h.fsm.GetTempInt64(userID, tempBrandID)
	if !ok {
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ No brand selected.", adminMenuMarkup())
	}

	name, err := CleanName(c.Text())
	if err != nil {
		return tghelpers.SendMD(c, "❌ The name cannot be empty. Enter the brand name:", cancelMarkup())
	}

	err = h.store.RenameBrand(ctx, brandID, name)
	switch {
	case errors.Is(err, catalog.ErrDuplicate):
		return tghelpers.SendMD(c, "❌ A brand with this name already exists. Enter a different name:", cancelMarkup())
	case errors.Is(err, catalog.ErrNotFound):
		h.resetFlow(c)
		return tghelpers.SendMD(c, "❌ Brand not found.", adminMenuMarkup())
	case err != nil:
		return h.abortFlow(ctx, c, "brand.rename", err)
	}

	h.resetFlow(c)
	if err := tghelpers.SendMD(c, fmt.Sprintf("✅ Brand renamed to *%s*", format.EscapeMarkdown(name))); err != nil {
		return err
	}
	return h.AdminPanel(c)
}

// BrandDeleteSelect offers the brand to delete.
func (h *Handler) BrandDeleteSelect(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	brands, err := h.store.Brands(ctx)
	if err != nil {
		return h.abortFlow(ctx, c, "brand.delete", err)
	}
	if len(brands) == 0 {
		return tghelpers.EditOrSendMD(c, "ℹ️ No brands yet")
	}
	return tghelpers.EditOrSendMD(c, "Pick a brand to delete:",
		brandSelectMarkup(brands, cbBrandDelPick, cbBrandsMenu, 1))
}

// BrandDeletePick shows the dependent counts and asks for confirmation.
func (h *Handler) BrandDeletePick(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	brandID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}

	brand, err := h.store.BrandByID(ctx, brandID)
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Brand not found", ShowAlert: true})
	}
	if err != nil {
		return h.abortFlow(ctx, c, "brand.delete", err)
	}

	cats, products, err := h.store.BrandDependents(ctx, brandID)
	if err != nil {
		return h.abortFlow(ctx, c, "brand.delete", err)
	}

	text := fmt.Sprintf("Delete brand *%s* (ID: %d)?", format.EscapeMarkdown(brand.Name), brand.ID)
	if cats > 0 || products > 0 {
		text += fmt.Sprintf("\n\n⚠️ This also deletes %d categories and %d products.", cats, products)
	}

	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ Yes, delete", Unique: cbBrandDelYes, Data: fmt.Sprintf("%d", brandID)},
		{Text: "❌ No, keep it", Unique: cbBrandDelNo},
	})
	return tghelpers.EditOrSendMD(c, text, markup)
}

// BrandDeleteConfirm cascades the delete and unlinks orphaned photos.
func (h *Handler) BrandDeleteConfirm(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	brandID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Bad selection"})
	}

	photos, err := h.store.DeleteBrand(ctx, brandID)
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Brand not found", ShowAlert: true})
	}
	if err != nil {
		return h.abortFlow(ctx, c, "brand.delete", err)
	}
	h.photos.RemoveAll(photos)

	h.resetFlow(c)
	if err := tghelpers.EditOrSendMD(c, "✅ Brand deleted"); err != nil {
		return err
	}
	return h.AdminPanel(c)
}

// BrandDeleteAbort leaves the brand untouched.
func (h *Handler) BrandDeleteAbort(c tele.Context) error {
	h.resetFlow(c)
	if err := tghelpers.EditOrSendMD(c, "Deletion cancelled."); err != nil {
		return err
	}
	return h.BrandsMenu(c)
}
