package catalog

import (
	"encoding/json"
	"errors"

	"github.com/angelmondragon/storefront-catalog/pkg/enums"
	"github.com/shopspring/decimal"
)

// ErrMissingProductID marks a payload without its mandatory identity.
var ErrMissingProductID = errors.New("catalog payload missing product id")

// DefaultPlaceholderImage is synthesized when a product has no resolvable media.
const DefaultPlaceholderImage = "/static/images/product-placeholder.png"

// LocalizedText holds the two parallel language fields of a catalog string.
type LocalizedText struct {
	EN string `json:"en,omitempty"`
	AR string `json:"ar,omitempty"`
}

// Resolve returns the text for locale, falling back to the other language when empty.
func (t LocalizedText) Resolve(locale enums.Locale) string {
	primary, secondary := t.EN, t.AR
	if locale == enums.LocaleArabic {
		primary, secondary = t.AR, t.EN
	}
	if primary != "" {
		return primary
	}
	return secondary
}

// IsZero reports whether both languages are empty.
func (t LocalizedText) IsZero() bool {
	return t.EN == "" && t.AR == ""
}

// Attribute is a selectable product option such as color or size.
type Attribute struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Values          []AttributeValue `json:"values"`
	IsColor         bool             `json:"is_color"`
	ControlsPricing bool             `json:"controls_pricing"`
	ControlsMedia   bool             `json:"controls_media"`
	ControlsWeight  bool             `json:"controls_weight"`
}

// AttributeValue is one value of an Attribute.
type AttributeValue struct {
	ID     string `json:"id"`
	Value  string `json:"value"`
	Swatch string `json:"swatch,omitempty"`
	Image  string `json:"image,omitempty"`
}

// Dimensions is a pass-through copy of a weight group with numeric fields stringified.
type Dimensions struct {
	Weight     string `json:"weight,omitempty"`
	WeightUnit string `json:"weight_unit,omitempty"`
	Length     string `json:"length,omitempty"`
	Width      string `json:"width,omitempty"`
	Height     string `json:"height,omitempty"`
	Unit       string `json:"unit,omitempty"`
}

// Variant is a purchasable combination of attribute values.
type Variant struct {
	ID             string            `json:"id"`
	SKU            string            `json:"sku"`
	Attributes     map[string]string `json:"attributes"`
	Price          decimal.Decimal   `json:"price"`
	CompareAtPrice *decimal.Decimal  `json:"compare_at_price,omitempty"`
	Stock          int               `json:"stock"`
	Image          string            `json:"image,omitempty"`
	Dimensions     *Dimensions       `json:"dimensions,omitempty"`
}

// InStock reports whether the variant can be purchased.
func (v Variant) InStock() bool {
	return v.Stock > 0
}

// Clone returns a copy that shares no mutable state with v.
func (v Variant) Clone() Variant {
	out := v
	out.Attributes = map[string]string(Selection(v.Attributes).Clone())
	if v.CompareAtPrice != nil {
		compareAt := *v.CompareAtPrice
		out.CompareAtPrice = &compareAt
	}
	if v.Dimensions != nil {
		dims := *v.Dimensions
		out.Dimensions = &dims
	}
	return out
}

// Clone returns a copy with its own value list.
func (a Attribute) Clone() Attribute {
	out := a
	out.Values = append([]AttributeValue(nil), a.Values...)
	return out
}

func cloneVariants(variants []Variant) []Variant {
	if variants == nil {
		return nil
	}
	out := make([]Variant, len(variants))
	for i, v := range variants {
		out[i] = v.Clone()
	}
	return out
}

func cloneAttributes(attributes []Attribute) []Attribute {
	if attributes == nil {
		return nil
	}
	out := make([]Attribute, len(attributes))
	for i, a := range attributes {
		out[i] = a.Clone()
	}
	return out
}

// Product is the canonical view model produced by the Normalizer.
type Product struct {
	ID             string           `json:"id"`
	SKU            string           `json:"sku,omitempty"`
	Locale         enums.Locale     `json:"locale"`
	Name           LocalizedText    `json:"name"`
	Description    LocalizedText    `json:"description"`
	Title          string           `json:"title"`
	Summary        string           `json:"summary,omitempty"`
	Images         []string         `json:"images"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Stock          int              `json:"stock"`
	HasVariants    bool             `json:"has_variants"`
	VariantIDs     []string         `json:"variant_ids,omitempty"`
	Attributes     []Attribute      `json:"attributes"`
	Variants       []Variant        `json:"variants"`
	Category       json.RawMessage  `json:"category,omitempty"`
	Brand          json.RawMessage  `json:"brand,omitempty"`
	Vendor         json.RawMessage  `json:"vendor,omitempty"`
}

// Variant returns the variant with id.
func (p *Product) Variant(id string) (Variant, bool) {
	if p == nil || id == "" {
		return Variant{}, false
	}
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// PrimaryImage returns the first canonical image.
func (p *Product) PrimaryImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DisplayCard is a listing projection of a product. Expanded cards represent
// exactly one in-stock variant; base cards carry the product unchanged.
type DisplayCard struct {
	Product
	DefaultVariantID string            `json:"default_variant_id,omitempty"`
	Options          map[string]string `json:"options,omitempty"`
}

// IsExpanded reports whether the card represents a single variant.
func (c DisplayCard) IsExpanded() bool {
	return c.DefaultVariantID != ""
}
