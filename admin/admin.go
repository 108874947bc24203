// Package admin implements the operator panel: conversational CRUD flows
// for brands, categories, and products driven by an in-memory FSM.
package admin

import (
	"context"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"

	"github.com/rshop/shopbot/catalog"
	"github.com/rshop/shopbot/storage"
	tg "github.com/rshop/shopbot/telegram"
	"github.com/rshop/shopbot/telegram/commands"
	"github.com/rshop/shopbot/telegram/state"
)

// Callback keys. Telebot limits unique keys to short identifiers, so they
// stay terse; payloads carry entity IDs.
const (
	cbAdminMenu = "admin_menu"
	cbCancel    = "flow_cancel"

	cbBrandsMenu    = "brands_menu"
	cbBrandsList    = "brands_list"
	cbBrandAdd      = "brand_add"
	cbBrandEdit     = "brand_edit"
	cbBrandEditPick = "brand_edit_pick"
	cbBrandDel      = "brand_del"
	cbBrandDelPick  = "brand_del_pick"
	cbBrandDelYes   = "brand_del_yes"
	cbBrandDelNo    = "brand_del_no"

	cbCatsMenu    = "cats_menu"
	cbCatsList    = "cats_list"
	cbCatAdd      = "cat_add"
	cbCatAddBrand = "cat_add_brand"
	cbCatEdit     = "cat_edit"
	cbCatEditPick = "cat_edit_pick"
	cbCatDel      = "cat_del"
	cbCatDelPick  = "cat_del_pick"
	cbCatDelYes   = "cat_del_yes"
	cbCatDelNo    = "cat_del_no"

	cbProdsMenu    = "prods_menu"
	cbProdsList    = "prods_list"
	cbProdAdd      = "prod_add"
	cbProdAddBrand = "prod_add_brand"
	cbProdAddCat   = "prod_add_cat"
	cbProdEdit     = "prod_edit"
	cbProdEditPick = "prod_edit_pick"
	cbProdField    = "prod_field"
	cbProdDel      = "prod_del"
	cbProdDelPick  = "prod_del_pick"
	cbProdDelYes   = "prod_del_yes"
	cbProdDelNo    = "prod_del_no"

	cbListPrev = "list_prev"
	cbListNext = "list_next"
)

// Conversation states.
const (
	stateBrandAddName  state.State = "brand_add_name"
	stateBrandEditName state.State = "brand_edit_name"

	stateCategoryAddName  state.State = "category_add_name"
	stateCategoryEditName state.State = "category_edit_name"

	stateProductAddName  state.State = "product_add_name"
	stateProductAddPrice state.State = "product_add_price"
	stateProductAddPhoto state.State = "product_add_photo"
	stateProductAddDesc  state.State = "product_add_desc"

	stateProductEditSearch state.State = "product_edit_search"
	stateProductEditValue  state.State = "product_edit_value"
)

// Session temp keys.
const (
	tempBrandID    = "brand_id"
	tempCategoryID = "category_id"
	tempProductID  = "product_id"
	tempName       = "name"
	tempPrice      = "price"
	tempPhotoURL   = "photo_url"
	tempField      = "field"
	tempListKind   = "list_kind"
	tempListPage   = "list_page"
)

// Store is the slice of the catalog the operator panel needs.
// *catalog.Store satisfies it; tests substitute a mock.
type Store interface {
	Brands(ctx context.Context) ([]catalog.Brand, error)
	BrandByID(ctx context.Context, id int64) (catalog.Brand, error)
	FindBrand(ctx context.Context, name string) (catalog.Brand, error)
	CreateBrand(ctx context.Context, name string) (catalog.Brand, error)
	RenameBrand(ctx context.Context, id int64, name string) error
	BrandDependents(ctx context.Context, id int64) (categories, products int, err error)
	DeleteBrand(ctx context.Context, id int64) ([]string, error)

	CategoriesByBrand(ctx context.Context, brandID int64) ([]catalog.Category, error)
	CategoriesDetailed(ctx context.Context) ([]catalog.CategoryDetail, error)
	CategoryByID(ctx context.Context, id int64) (catalog.Category, error)
	FindCategory(ctx context.Context, brandID int64, name string) (catalog.Category, error)
	CreateCategory(ctx context.Context, brandID int64, name string) (catalog.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) error
	CategoryProductCount(ctx context.Context, id int64) (int, error)
	DeleteCategory(ctx context.Context, id int64) ([]string, error)

	ProductsDetailed(ctx context.Context) ([]catalog.ProductDetail, error)
	ProductByID(ctx context.Context, id int64) (catalog.Product, error)
	FindProducts(ctx context.Context, name string) ([]catalog.ProductDetail, error)
	CreateProduct(ctx context.Context, np catalog.NewProduct) (catalog.Product, error)
	UpdateProductName(ctx context.Context, id int64, name string) error
	UpdateProductPrice(ctx context.Context, id int64, price decimal.Decimal) error
	UpdateProductDescription(ctx context.Context, id int64, description *string) error
	UpdateProductPhoto(ctx context.Context, id int64, photoURL string) (*string, error)
	DeleteProduct(ctx context.Context, id int64) (*string, error)
}

// Handler wires the operator panel to the catalog store and photo storage.
type Handler struct {
	store  Store
	fsm    state.Manager
	photos *storage.Photos
}

// NewHandler builds the admin panel handler set.
func NewHandler(store Store, fsm state.Manager, photos *storage.Photos) *Handler {
	return &Handler{store: store, fsm: fsm, photos: photos}
}

// FSM exposes the session manager for router wiring.
func (h *Handler) FSM() state.Manager {
	return h.fsm
}

// Register binds all commands, callbacks, and FSM states to the registry.
func (h *Handler) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Open the catalog",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     h.AdminPanel,
		Description: "Operator panel",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.Cancel,
		Description: "Cancel the current operation",
		Hidden:      true,
	})

	cbs := map[string]tele.HandlerFunc{
		cbAdminMenu: h.AdminMenu,
		cbCancel:    h.CancelCallback,

		cbBrandsMenu:    h.BrandsMenu,
		cbBrandsList:    h.BrandsList,
		cbBrandAdd:      h.BrandAddStart,
		cbBrandEdit:     h.BrandEditSelect,
		cbBrandEditPick: h.BrandEditPick,
		cbBrandDel:      h.BrandDeleteSelect,
		cbBrandDelPick:  h.BrandDeletePick,
		cbBrandDelYes:   h.BrandDeleteConfirm,
		cbBrandDelNo:    h.BrandDeleteAbort,

		cbCatsMenu:    h.CategoriesMenu,
		cbCatsList:    h.CategoriesList,
		cbCatAdd:      h.CategoryAddStart,
		cbCatAddBrand: h.CategoryAddBrand,
		cbCatEdit:     h.CategoryEditSelect,
		cbCatEditPick: h.CategoryEditPick,
		cbCatDel:      h.CategoryDeleteSelect,
		cbCatDelPick:  h.CategoryDeletePick,
		cbCatDelYes:   h.CategoryDeleteConfirm,
		cbCatDelNo:    h.CategoryDeleteAbort,

		cbProdsMenu:    h.ProductsMenu,
		cbProdsList:    h.ProductsList,
		cbProdAdd:      h.ProductAddStart,
		cbProdAddBrand: h.ProductAddBrand,
		cbProdAddCat:   h.ProductAddCategory,
		cbProdEdit:     h.ProductEditStart,
		cbProdEditPick: h.ProductEditPick,
		cbProdField:    h.ProductFieldPick,
		cbProdDel:      h.ProductDeleteSelect,
		cbProdDelPick:  h.ProductDeletePick,
		cbProdDelYes:   h.ProductDeleteConfirm,
		cbProdDelNo:    h.ProductDeleteAbort,

		cbListPrev: h.ListPrev,
		cbListNext: h.ListNext,
	}
	for key, handler := range cbs {
		_ = reg.RegisterCallback(key, handler)
	}

	state.RegisterHandler(stateBrandAddName, h.BrandAddName)
	state.RegisterHandler(stateBrandEditName, h.BrandEditName)
	state.RegisterHandler(stateCategoryAddName, h.CategoryAddName)
	state.RegisterHandler(stateCategoryEditName, h.CategoryEditName)
	state.RegisterHandler(stateProductAddName, h.ProductAddName)
	state.RegisterHandler(stateProductAddPrice, h.ProductAddPrice)
	state.RegisterHandler(stateProductAddPhoto, h.ProductAddPhoto)
	state.RegisterHandler(stateProductAddDesc, h.ProductAddDescription)
	state.RegisterHandler(stateProductEditSearch, h.ProductEditSearch)
	state.RegisterHandler(stateProductEditValue, h.ProductEditValue)
}
