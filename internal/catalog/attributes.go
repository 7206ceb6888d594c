package catalog

import (
	"strings"

	"github.com/angelmondragon/storefront-catalog/pkg/enums"
)

// colorTokens mark an attribute as a color picker in either supported language.
var colorTokens = []string{"color", "colour", "لون", "ألوان", "الوان"}

// AttributeCatalog resolves attribute and value ids into display names.
type AttributeCatalog struct {
	attributes []Attribute
	names      map[string]string
	values     map[string]map[string]string
	images     map[string]map[string]string
	mediaAttr  string
}

// NewAttributeCatalog builds the lookup tables for one payload. Missing input yields an empty catalog.
func NewAttributeCatalog(raw Ordered[RawAttribute], locale enums.Locale) *AttributeCatalog {
	c := &AttributeCatalog{
		attributes: make([]Attribute, 0, raw.Len()),
		names:      make(map[string]string, raw.Len()),
		values:     make(map[string]map[string]string, raw.Len()),
		images:     make(map[string]map[string]string, raw.Len()),
	}

	for _, attrID := range raw.Keys() {
		def, _ := raw.Get(attrID)
		label := LocalizedText{EN: strings.TrimSpace(def.NameEN), AR: strings.TrimSpace(def.NameAR)}
		name := label.Resolve(locale)
		if name == "" {
			name = attrID
		}

		attr := Attribute{
			ID:              attrID,
			Name:            name,
			Values:          make([]AttributeValue, 0, def.Values.Len()),
			IsColor:         isColorLabel(label),
			ControlsPricing: def.ControlsPricing,
			ControlsMedia:   def.ControlsMedia,
			ControlsWeight:  def.ControlsWeight,
		}
		valueNames := make(map[string]string, def.Values.Len())
		valueImages := make(map[string]string)

		for _, valueID := range def.Values.Keys() {
			rawValue, _ := def.Values.Get(valueID)
			valueName := LocalizedText{
				EN: strings.TrimSpace(rawValue.NameEN),
				AR: strings.TrimSpace(rawValue.NameAR),
			}.Resolve(locale)
			if valueName == "" {
				valueName = valueID
			}
			swatch := strings.TrimSpace(rawValue.ColorCode)
			if swatch != "" {
				attr.IsColor = true
			}
			image := strings.TrimSpace(rawValue.Image)
			if image != "" {
				valueImages[valueID] = image
			}
			valueNames[valueID] = valueName
			attr.Values = append(attr.Values, AttributeValue{
				ID:     valueID,
				Value:  valueName,
				Swatch: swatch,
				Image:  image,
			})
		}

		if attr.ControlsMedia && c.mediaAttr == "" {
			c.mediaAttr = attrID
		}
		c.names[attrID] = name
		c.values[attrID] = valueNames
		c.images[attrID] = valueImages
		c.attributes = append(c.attributes, attr)
	}
	return c
}

func isColorLabel(label LocalizedText) bool {
	en := strings.ToLower(label.EN)
	for _, token := range colorTokens {
		if strings.Contains(en, token) || strings.Contains(label.AR, token) {
			return true
		}
	}
	return false
}

// Attributes returns the attributes in payload order.
func (c *AttributeCatalog) Attributes() []Attribute {
	return append([]Attribute(nil), c.attributes...)
}

// AttributeName resolves an attribute id.
func (c *AttributeCatalog) AttributeName(attrID string) (string, bool) {
	name, ok := c.names[attrID]
	return name, ok
}

// ValueName resolves a value id within an attribute.
func (c *AttributeCatalog) ValueName(attrID, valueID string) (string, bool) {
	values, ok := c.values[attrID]
	if !ok {
		return "", false
	}
	name, ok := values[valueID]
	return name, ok
}

// ValueImage returns the per-value image of an attribute value, if any.
func (c *AttributeCatalog) ValueImage(attrID, valueID string) (string, bool) {
	image, ok := c.images[attrID][valueID]
	return image, ok
}

// MediaAttributeID returns the attribute that controls media, if one exists.
func (c *AttributeCatalog) MediaAttributeID() (string, bool) {
	return c.mediaAttr, c.mediaAttr != ""
}
