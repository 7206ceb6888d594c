package storefront

import (
	"github.com/angelmondragon/storefront-catalog/internal/catalog"
	"github.com/angelmondragon/storefront-catalog/pkg/enums"
	"github.com/angelmondragon/storefront-catalog/pkg/pagination"
	"github.com/shopspring/decimal"
)

// GetProductInput identifies a product detail request.
type GetProductInput struct {
	ProductID string
	VariantID string
	Locale    enums.Locale
}

// SelectOptionInput applies one option choice on top of the current selection.
type SelectOptionInput struct {
	ProductID string
	Locale    enums.Locale
	Selection catalog.Selection
	Attribute string
	Value     string
}

// ListProductsInput requests one listing page.
type ListProductsInput struct {
	Pagination pagination.Params
	Locale     enums.Locale
}

// Offer is the price, stock and image in effect for a selection: the matched
// variant's when there is one, the product's base values otherwise.
type Offer struct {
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Stock          int              `json:"stock"`
	InStock        bool             `json:"in_stock"`
	Image          string           `json:"image"`
}

// ProductView is the detail page model.
type ProductView struct {
	Product        *catalog.Product      `json:"product"`
	Selection      catalog.Selection     `json:"selection"`
	MatchedVariant *catalog.Variant      `json:"matched_variant,omitempty"`
	Offer          Offer                 `json:"offer"`
	Options        []catalog.OptionState `json:"options"`
}

// SelectionView is the result of choosing one option value.
type SelectionView struct {
	ProductID      string                `json:"product_id"`
	Selection      catalog.Selection     `json:"selection"`
	MatchedVariant *catalog.Variant      `json:"matched_variant,omitempty"`
	Offer          Offer                 `json:"offer"`
	Options        []catalog.OptionState `json:"options"`
}

// ListingPage is one page of listing cards.
type ListingPage struct {
	Cards   []catalog.DisplayCard `json:"cards"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
	Dropped int                   `json:"dropped"`
	Locale  enums.Locale          `json:"locale"`
}

func offerFor(p *catalog.Product, result catalog.SelectionResult) Offer {
	offer := Offer{
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		Stock:          p.Stock,
		Image:          catalog.SelectionImage(p, result),
	}
	switch v := result.Variant; {
	case v != nil:
		offer.Price = v.Price
		offer.CompareAtPrice = v.CompareAtPrice
		offer.Stock = v.Stock
	case len(p.Variants) > 0:
		// An unmatched selection on a variant product is not purchasable.
		offer.Stock = 0
	}
	offer.InStock = offer.Stock > 0
	return offer
}
