package admin

import (
	"context"

	"log/slog"

	"github.com/rshop/shopbot/logger"
	tghelpers "github.com/rshop/shopbot/telegram/helpers"
	"github.com/rshop/shopbot/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Start greets any user and points at the public catalog.
func (h *Handler) Start(c tele.Context) error {
	return tghelpers.SendMD(c,
		"👋 Welcome to the shop bot!\n\n"+
			"Browse the catalog through the shop app or website. "+
			"Operators can open the panel with /admin.")
}

// AdminPanel renders the operator main menu as a new message.
func (h *Handler) AdminPanel(c tele.Context) error {
	return tghelpers.SendMD(c, "👨‍💻 *Admin panel*", adminMenuMarkup())
}

// AdminMenu renders the operator main menu in place of the pressed message.
func (h *Handler) AdminMenu(c tele.Context) error {
	h.resetFlow(c)
	return tghelpers.EditOrSendMD(c, "👨‍💻 *Admin panel*", adminMenuMarkup())
}

func adminMenuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "🏷 Brands", Unique: cbBrandsMenu},
			{Text: "📂 Categories", Unique: cbCatsMenu},
			{Text: "📦 Products", Unique: cbProdsMenu},
		},
		[]keyboard.InlineBtn{
			{Text: "➕ Brand", Unique: cbBrandAdd},
			{Text: "➕ Category", Unique: cbCatAdd},
			{Text: "➕ Product", Unique: cbProdAdd},
		},
	)
}

// BrandsMenu shows brand management actions.
func (h *Handler) BrandsMenu(c tele.Context) error {
	h.resetFlow(c)
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "📋 List", Unique: cbBrandsList},
			{Text: "➕ Add", Unique: cbBrandAdd},
		},
		[]keyboard.InlineBtn{
			{Text: "✏️ Rename", Unique: cbBrandEdit},
			{Text: "🗑 Delete", Unique: cbBrandDel},
		},
		[]keyboard.InlineBtn{
			{Text: "🔙 Back", Unique: cbAdminMenu},
		},
	)
	return tghelpers.EditOrSendMD(c, "🏷 *Brands*", markup)
}

// CategoriesMenu shows category management actions.
func (h *Handler) CategoriesMenu(c tele.Context) error {
	h.resetFlow(c)
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "📋 List", Unique: cbCatsList},
			{Text: "➕ Add", Unique: cbCatAdd},
		},
		[]keyboard.InlineBtn{
			{Text: "✏️ Rename", Unique: cbCatEdit},
			{Text: "🗑 Delete", Unique: cbCatDel},
		},
		[]keyboard.InlineBtn{
			{Text: "🔙 Back", Unique: cbAdminMenu},
		},
	)
	return tghelpers.EditOrSendMD(c, "📂 *Categories*", markup)
}

// ProductsMenu shows product management actions.
func (h *Handler) ProductsMenu(c tele.Context) error {
	h.resetFlow(c)
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "📋 List", Unique: cbProdsList},
			{Text: "➕ Add", Unique: cbProdAdd},
		},
		[]keyboard.InlineBtn{
			{Text: "✏️ Edit", Unique: cbProdEdit},
			{Text: "🗑 Delete", Unique: cbProdDel},
		},
		[]keyboard.InlineBtn{
			{Text: "🔙 Back", Unique: cbAdminMenu},
		},
	)
	return tghelpers.EditOrSendMD(c, "📦 *Products*", markup)
}

// Cancel aborts any in-flight conversation from a command.
func (h *Handler) Cancel(c tele.Context) error {
	h.resetFlow(c)
	return tghelpers.SendMD(c, "Operation cancelled.", adminMenuMarkup())
}

// CancelCallback aborts any in-flight conversation from an inline button.
func (h *Handler) CancelCallback(c tele.Context) error {
	h.resetFlow(c)
	return tghelpers.EditOrSendMD(c, "Operation cancelled.", adminMenuMarkup())
}

// AccessDenied is the generic rejection for non-operators. It leaks nothing
// and changes no state.
func AccessDenied(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: "🚫 Access denied", ShowAlert: true})
	}
	return c.Send("🚫 Access denied")
}

// resetFlow clears the operator's conversation state and scratch data.
func (h *Handler) resetFlow(c tele.Context) {
	if sender := c.Sender(); sender != nil {
		h.fsm.Clear(sender.ID)
	}
}

// abortFlow reports a persistence failure, clears scratch state, and
// returns the operator to the main menu.
func (h *Handler) abortFlow(ctx context.Context, c tele.Context, op string, err error) error {
	logger.Error(ctx, "tg", "flow.aborted",
		slog.String("operation", op),
		slog.String("err", err.Error()),
	)
	h.resetFlow(c)
	return tghelpers.SendMD(c, "❌ Something went wrong, operation aborted.", adminMenuMarkup())
}

// cancelMarkup is the single cancel button attached to every free-text prompt.
func cancelMarkup() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(cbCancel)
}
