package admin

import (
	"fmt"
	"strings"

	"github.com/rshop/shopbot/catalog"
	"github.com/rshop/shopbot/telegram/format"
	tghelpers "github.com/rshop/shopbot/telegram/helpers"
	"github.com/rshop/shopbot/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// ListKind identifies which listing the operator is paging through. It is
// stored in the session together with the page index so navigation never
// has to infer the list from rendered text.
type ListKind int

const (
	ListBrands ListKind = iota + 1
	ListCategories
	ListProducts
)

// Per-entity page sizes. Product entries are multi-line, so fewer fit.
const (
	brandsPerPage     = 10
	categoriesPerPage = 10
	productsPerPage   = 5
)

func (k ListKind) pageSize() int {
	switch k {
	case ListCategories:
		return categoriesPerPage
	case ListProducts:
		return productsPerPage
	}
	return brandsPerPage
}

func (k ListKind) backMenu() string {
	switch k {
	case ListCategories:
		return cbCatsMenu
	case ListProducts:
		return cbProdsMenu
	}
	return cbBrandsMenu
}

// BrandsList renders page 0 of the brand list.
func (h *Handler) BrandsList(c tele.Context) error {
	return h.showList(c, ListBrands, 0)
}

// CategoriesList renders page 0 of the category list.
func (h *Handler) CategoriesList(c tele.Context) error {
	return h.showList(c, ListCategories, 0)
}

// ProductsList renders page 0 of the grouped product list.
func (h *Handler) ProductsList(c tele.Context) error {
	return h.showList(c, ListProducts, 0)
}

// ListPrev re-renders the current list one page back.
func (h *Handler) ListPrev(c tele.Context) error {
	kind, page := h.currentList(c)
	return h.showList(c, kind, page-1)
}

// ListNext re-renders the current list one page forward.
func (h *Handler) ListNext(c tele.Context) error {
	kind, page := h.currentList(c)
	return h.showList(c, kind, page+1)
}

func (h *Handler) currentList(c tele.Context) (ListKind, int) {
	userID := c.Sender().ID
	kind := ListBrands
	if v, ok := h.fsm.GetTempInt64(userID, tempListKind); ok {
		kind = ListKind(v)
	}
	page := 0
	if v, ok := h.fsm.GetTempInt64(userID, tempListPage); ok {
		page = int(v)
	}
	return kind, page
}

func (h *Handler) showList(c tele.Context, kind ListKind, page int) error {
	ctx := tghelpers.BuildContext(c)

	var (
		text  string
		total int
		err   error
	)
	switch kind {
	case ListCategories:
		var cats []catalog.CategoryDetail
		cats, err = h.store.CategoriesDetailed(ctx)
		if err == nil {
			total = len(cats)
			page = catalog.ClampPage(page, total, kind.pageSize())
			text = renderCategoryPage(cats, page, kind.pageSize())
		}
	case ListProducts:
		var products []catalog.ProductDetail
		products, err = h.store.ProductsDetailed(ctx)
		if err == nil {
			total = len(products)
			page = catalog.ClampPage(page, total, kind.pageSize())
			text = renderProductPage(products, page, kind.pageSize())
		}
	default:
		var brands []catalog.Brand
		brands, err = h.store.Brands(ctx)
		if err == nil {
			total = len(brands)
			page = catalog.ClampPage(page, total, kind.pageSize())
			text = renderBrandPage(brands, page, kind.pageSize())
		}
	}
	if err != nil {
		return h.abortFlow(ctx, c, "list", err)
	}

	userID := c.Sender().ID
	h.fsm.SetTemp(userID, tempListKind, int64(kind))
	h.fsm.SetTemp(userID, tempListPage, int64(page))

	return tghelpers.EditOrSendMD(c, text, listNavMarkup(kind, page, catalog.Pages(total, kind.pageSize())))
}

func listNavMarkup(kind ListKind, page, pages int) *tele.ReplyMarkup {
	var nav []keyboard.InlineBtn
	if page > 0 {
		nav = append(nav, keyboard.InlineBtn{Text: "⬅️", Unique: cbListPrev})
	}
	if page < pages-1 {
		nav = append(nav, keyboard.InlineBtn{Text: "➡️", Unique: cbListNext})
	}
	back := []keyboard.InlineBtn{{Text: "🔙 Back", Unique: kind.backMenu()}}
	if len(nav) == 0 {
		return keyboard.InlineButtonsRows(back)
	}
	return keyboard.InlineButtonsRows(nav, back)
}

func pageHeader(title string, page, pages int) string {
	if pages <= 1 {
		return title
	}
	return fmt.Sprintf("%s (page %d/%d)", title, page+1, pages)
}

func renderBrandPage(brands []catalog.Brand, page, perPage int) string {
	if len(brands) == 0 {
		return "ℹ️ No brands yet"
	}
	pages := catalog.Pages(len(brands), perPage)
	var b strings.Builder
	b.WriteString("🏷 *" + pageHeader("Brands", page, pages) + "*\n\n")
	offset := page * perPage
	for i, brand := range catalog.Page(brands, page, perPage) {
		fmt.Fprintf(&b, "%d. %s (ID: %d)\n", offset+i+1, format.EscapeMarkdown(brand.Name), brand.ID)
	}
	return b.String()
}

func renderCategoryPage(cats []catalog.CategoryDetail, page, perPage int) string {
	if len(cats) == 0 {
		return "ℹ️ No categories yet"
	}
	pages := catalog.Pages(len(cats), perPage)
	var b strings.Builder
	b.WriteString("📂 *" + pageHeader("Categories", page, pages) + "*\n\n")
	offset := page * perPage
	for i, cat := range catalog.Page(cats, page, perPage) {
		fmt.Fprintf(&b, "%d. %s / %s (ID: %d)\n", offset+i+1,
			format.EscapeMarkdown(cat.BrandName), format.EscapeMarkdown(cat.Name), cat.ID)
	}
	return b.String()
}

// renderProductPage groups the page's products under "Brand / Category"
// headings, keeping the store's brand-category-name ordering.
func renderProductPage(products []catalog.ProductDetail, page, perPage int) string {
	if len(products) == 0 {
		return "ℹ️ No products yet"
	}
	pages := catalog.Pages(len(products), perPage)
	var b strings.Builder
	b.WriteString("📦 *" + pageHeader("Products", page, pages) + "*\n\n")
	group := ""
	for _, p := range catalog.Page(products, page, perPage) {
		key := p.BrandName + " / " + p.CategoryName
		if key != group {
			group = key
			fmt.Fprintf(&b, "*%s*\n", format.EscapeMarkdown(key))
		}
		desc := "no description"
		if p.Description != nil {
			desc = *p.Description
		}
		fmt.Fprintf(&b, "├ %s\n├─ Price: %s\n├─ Description: %s\n└─ ID: %d\n\n",
			format.EscapeMarkdown(p.Name), p.Price.String(), format.EscapeMarkdown(desc), p.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}
