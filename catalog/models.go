package catalog

import "github.com/shopspring/decimal"

// Brand is the top-level catalog grouping.
type Brand struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Category groups products within a brand. Names are unique per brand,
// case-insensitively.
type Category struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	BrandID int64  `db:"brand_id" json:"brand_id"`
}

// Product is a sellable catalog item.
type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Description *string         `db:"description" json:"description"`
	PhotoURL    *string         `db:"photo_url" json:"photo_url"`
	CategoryID  int64           `db:"category_id" json:"category_id"`
}

// CategoryDetail is a category joined with its brand name for admin listings.
type CategoryDetail struct {
	Category
	BrandName string `db:"brand_name"`
}

// ProductDetail is a product joined with its category and brand names,
// used for grouped admin listings.
type ProductDetail struct {
	Product
	CategoryName string `db:"category_name"`
	BrandName    string `db:"brand_name"`
}

// ProductField identifies a single editable product attribute.
type ProductField int

const (
	FieldName ProductField = iota + 1
	FieldPrice
	FieldDescription
	FieldPhoto
)

// String returns the lowercase field name for logging and callbacks.
func (f ProductField) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldPrice:
		return "price"
	case FieldDescription:
		return "description"
	case FieldPhoto:
		return "photo"
	}
	return "unknown"
}

// ParseProductField maps a callback payload back to a ProductField.
func ParseProductField(s string) (ProductField, bool) {
	switch s {
	case "name":
		return FieldName, true
	case "price":
		return FieldPrice, true
	case "description":
		return FieldDescription, true
	case "photo":
		return FieldPhoto, true
	}
	return 0, false
}
