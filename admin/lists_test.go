package admin

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rshop/shopbot/catalog"
)

func TestRenderBrandPageNumbersAcrossPages(t *testing.T) {
	brands := make([]catalog.Brand, 0, 12)
	for i := 1; i <= 12; i++ {
		brands = append(brands, catalog.Brand{ID: int64(i), Name: "Brand"})
	}

	first := renderBrandPage(brands, 0, 10)
	if !strings.Contains(first, "page 1/2") {
		t.Fatalf("missing page header: %q", first)
	}
	if !strings.Contains(first, "1. Brand") || strings.Contains(first, "11. Brand") {
		t.Fatalf("wrong slice on page 0: %q", first)
	}

	second := renderBrandPage(brands, 1, 10)
	if !strings.Contains(second, "11. Brand") || !strings.Contains(second, "12. Brand") {
		t.Fatalf("wrong slice on page 1: %q", second)
	}
}

func TestRenderBrandPageEmpty(t *testing.T) {
	if got := renderBrandPage(nil, 0, 10); !strings.Contains(got, "No brands yet") {
		t.Fatalf("empty list rendering: %q", got)
	}
}

func TestRenderCategoryPageShowsBrandPath(t *testing.T) {
	cats := []catalog.CategoryDetail{
		{Category: catalog.Category{ID: 5, Name: "Shoes", BrandID: 1}, BrandName: "Acme"},
	}
	got := renderCategoryPage(cats, 0, 10)
	if !strings.Contains(got, "Acme / Shoes (ID: 5)") {
		t.Fatalf("category line: %q", got)
	}
}

func TestRenderProductPageGroupsByBrandCategory(t *testing.T) {
	desc := "Classic"
	products := []catalog.ProductDetail{
		{
			Product:      catalog.Product{ID: 1, Name: "Loafer", Price: decimal.RequireFromString("199.99"), Description: &desc},
			CategoryName: "Shoes", BrandName: "Acme",
		},
		{
			Product:      catalog.Product{ID: 2, Name: "Sneaker", Price: decimal.RequireFromString("89.50")},
			CategoryName: "Shoes", BrandName: "Acme",
		},
		{
			Product:      catalog.Product{ID: 3, Name: "Belt", Price: decimal.RequireFromString("25")},
			CategoryName: "Accessories", BrandName: "Zenith",
		},
	}

	got := renderProductPage(products, 0, 5)

	if strings.Count(got, "*Acme / Shoes*") != 1 {
		t.Fatalf("group heading repeated or missing: %q", got)
	}
	if !strings.Contains(got, "*Zenith / Accessories*") {
		t.Fatalf("second group missing: %q", got)
	}
	if !strings.Contains(got, "Price: 199.99") {
		t.Fatalf("price not rendered: %q", got)
	}
	if !strings.Contains(got, "Description: no description") {
		t.Fatalf("nil description placeholder missing: %q", got)
	}
}

func TestRenderPagesEscapeMarkdownInNames(t *testing.T) {
	brands := []catalog.Brand{{ID: 1, Name: "foo_bar"}}
	if got := renderBrandPage(brands, 0, 10); !strings.Contains(got, `foo\_bar`) {
		t.Fatalf("brand name not escaped: %q", got)
	}

	cats := []catalog.CategoryDetail{
		{Category: catalog.Category{ID: 2, Name: "kids_shoes", BrandID: 1}, BrandName: "foo_bar"},
	}
	if got := renderCategoryPage(cats, 0, 10); !strings.Contains(got, `foo\_bar / kids\_shoes`) {
		t.Fatalf("category line not escaped: %q", got)
	}

	desc := "50% *off*"
	products := []catalog.ProductDetail{
		{
			Product:      catalog.Product{ID: 3, Name: "sneaker_v2", Price: decimal.RequireFromString("10"), Description: &desc},
			CategoryName: "kids_shoes", BrandName: "foo_bar",
		},
	}
	got := renderProductPage(products, 0, 5)
	if !strings.Contains(got, `*foo\_bar / kids\_shoes*`) {
		t.Fatalf("group heading not escaped: %q", got)
	}
	if !strings.Contains(got, `sneaker\_v2`) {
		t.Fatalf("product name not escaped: %q", got)
	}
	if !strings.Contains(got, `50% \*off\*`) {
		t.Fatalf("description not escaped: %q", got)
	}
}

func TestListKindPageSizes(t *testing.T) {
	if ListBrands.pageSize() != brandsPerPage {
		t.Error("brand page size")
	}
	if ListCategories.pageSize() != categoriesPerPage {
		t.Error("category page size")
	}
	if ListProducts.pageSize() != productsPerPage {
		t.Error("product page size")
	}
}
