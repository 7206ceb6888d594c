package catalog

import "strings"

// VariantProjector builds canonical variants from raw variant rows.
type VariantProjector struct {
	productSKU    string
	attributes    *AttributeCatalog
	prices        *PriceResolver
	media         *MediaResolver
	weights       Ordered[RawWeightGroup]
	fallbackPrice Price
}

// NewVariantProjector wires the resolvers of one payload. The amount of
// fallbackPrice is used for variants whose price group cannot be resolved.
func NewVariantProjector(payload *RawCatalogPayload, attributes *AttributeCatalog, prices *PriceResolver, media *MediaResolver, fallbackPrice Price) *VariantProjector {
	return &VariantProjector{
		productSKU:    strings.TrimSpace(payload.SKU),
		attributes:    attributes,
		prices:        prices,
		media:         media,
		weights:       payload.WeightGroups,
		fallbackPrice: fallbackPrice,
	}
}

// Project resolves one variant. ok is false when the variant has no id or
// references a value id its attribute does not define. Unknown attribute ids
// are dropped from the mapping.
func (p *VariantProjector) Project(raw RawVariant) (Variant, bool) {
	id := strings.TrimSpace(raw.ID.String())
	if id == "" {
		return Variant{}, false
	}

	attrs := make(map[string]string, raw.AttributeValues.Len())
	for _, attrID := range raw.AttributeValues.Keys() {
		name, ok := p.attributes.AttributeName(attrID)
		if !ok {
			continue
		}
		valueID, _ := raw.AttributeValues.Get(attrID)
		value, ok := p.attributes.ValueName(attrID, valueID.String())
		if !ok {
			return Variant{}, false
		}
		attrs[name] = value
	}

	// An unresolvable price group keeps the base amount but advertises no
	// compare-at of its own.
	price, ok := p.prices.Resolve(raw.PriceGroupID)
	if !ok {
		price = Price{Amount: p.fallbackPrice.Amount}
	}

	stock, _ := raw.Quantity.Int()
	if stock < 0 {
		stock = 0
	}

	return Variant{
		ID:             id,
		SKU:            p.sku(raw.SKUSuffix),
		Attributes:     attrs,
		Price:          price.Amount,
		CompareAtPrice: price.CompareAt,
		Stock:          stock,
		Image:          p.media.VariantImage(raw),
		Dimensions:     p.dimensions(raw.WeightGroupID),
	}, true
}

func (p *VariantProjector) sku(suffix string) string {
	suffix = strings.TrimSpace(suffix)
	switch {
	case suffix == "":
		return p.productSKU
	case p.productSKU == "":
		return suffix
	default:
		return p.productSKU + "-" + suffix
	}
}

func (p *VariantProjector) dimensions(groupID ID) *Dimensions {
	if groupID == "" {
		return nil
	}
	group, ok := p.weights.Get(groupID.String())
	if !ok {
		return nil
	}
	return &Dimensions{
		Weight:     group.Weight.String(),
		WeightUnit: strings.TrimSpace(group.WeightUnit),
		Length:     group.Dimensions.Length.String(),
		Width:      group.Dimensions.Width.String(),
		Height:     group.Dimensions.Height.String(),
		Unit:       strings.TrimSpace(group.Dimensions.Unit),
	}
}
