package catalog

import (
	"strings"

	"github.com/angelmondragon/storefront-catalog/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-catalog/pkg/errors"
)

// Options configures a Normalizer.
type Options struct {
	Locale           enums.Locale
	PlaceholderImage string
}

// Normalizer turns raw catalog payloads into canonical products. It holds no
// state between calls and is safe for concurrent use.
type Normalizer struct {
	locale      enums.Locale
	placeholder string
}

// NewNormalizer applies defaults for unset options.
func NewNormalizer(opts Options) *Normalizer {
	locale := opts.Locale
	if !locale.IsValid() {
		locale = enums.DefaultLocale
	}
	placeholder := strings.TrimSpace(opts.PlaceholderImage)
	if placeholder == "" {
		placeholder = DefaultPlaceholderImage
	}
	return &Normalizer{locale: locale, placeholder: placeholder}
}

// Locale returns the language the normalizer surfaces.
func (n *Normalizer) Locale() enums.Locale {
	return n.locale
}

// Normalize builds one Product. Missing optional structures degrade to defaults;
// only a missing product id fails, and the whole payload must then be dropped.
func (n *Normalizer) Normalize(raw *RawCatalogPayload) (*Product, error) {
	if raw == nil || strings.TrimSpace(raw.ID.String()) == "" {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, ErrMissingProductID, "catalog payload rejected")
	}

	attributes := NewAttributeCatalog(raw.Attributes, n.locale)
	prices := NewPriceResolver(raw.PriceGroups)
	media := NewMediaResolver(raw.MediaGroups, attributes, n.placeholder)
	base := n.basePrice(raw, prices)

	projector := NewVariantProjector(raw, attributes, prices, media, base)
	variants := make([]Variant, 0, len(raw.Variants))
	seen := make(map[string]struct{}, len(raw.Variants))
	for _, rawVariant := range raw.Variants {
		variant, ok := projector.Project(rawVariant)
		if !ok {
			continue
		}
		if _, dup := seen[variant.ID]; dup {
			continue
		}
		seen[variant.ID] = struct{}{}
		variants = append(variants, variant)
	}

	name := LocalizedText{EN: strings.TrimSpace(raw.NameEN), AR: strings.TrimSpace(raw.NameAR)}
	description := LocalizedText{EN: strings.TrimSpace(raw.DescriptionEN), AR: strings.TrimSpace(raw.DescriptionAR)}

	return &Product{
		ID:             strings.TrimSpace(raw.ID.String()),
		SKU:            strings.TrimSpace(raw.SKU),
		Locale:         n.locale,
		Name:           name,
		Description:    description,
		Title:          name.Resolve(n.locale),
		Summary:        description.Resolve(n.locale),
		Images:         media.ProductImages(),
		Price:          base.Amount,
		CompareAtPrice: base.CompareAt,
		Stock:          aggregateStock(raw, variants),
		HasVariants:    len(variants) > 0 || raw.HasVariants || len(raw.VariantIDs) > 0,
		VariantIDs:     variantIDs(raw, variants),
		Attributes:     attributes.Attributes(),
		Variants:       variants,
		Category:       raw.Category,
		Brand:          raw.Brand,
		Vendor:         raw.Vendor,
	}, nil
}

// basePrice advertises the cheapest price group. Payloads without any price
// groups fall back to the product's own scalar price.
func (n *Normalizer) basePrice(raw *RawCatalogPayload, prices *PriceResolver) Price {
	if prices.Len() > 0 {
		if price, ok := prices.Lowest(); ok {
			return price
		}
		return Price{}
	}
	if price, ok := EffectivePrice(raw.Price, raw.SalePrice); ok {
		return price
	}
	return Price{}
}

// aggregateStock sums variant quantities whenever the payload carries variant
// rows, so a product with variants never reports stock of its own.
func aggregateStock(raw *RawCatalogPayload, variants []Variant) int {
	if len(raw.Variants) > 0 {
		total := 0
		for _, v := range variants {
			total += v.Stock
		}
		return total
	}
	qty, _ := raw.Quantity.Int()
	if qty < 0 {
		return 0
	}
	return qty
}

func variantIDs(raw *RawCatalogPayload, variants []Variant) []string {
	if len(variants) > 0 {
		ids := make([]string, len(variants))
		for i, v := range variants {
			ids[i] = v.ID
		}
		return ids
	}
	var ids []string
	for _, id := range raw.VariantIDs {
		if trimmed := strings.TrimSpace(id.String()); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
