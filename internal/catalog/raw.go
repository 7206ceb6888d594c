package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RawCatalogPayload is the denormalized product document served by the catalog API.
type RawCatalogPayload struct {
	ID            ID                      `json:"id"`
	SKU           string                  `json:"sku,omitempty"`
	NameEN        string                  `json:"name_en,omitempty"`
	NameAR        string                  `json:"name_ar,omitempty"`
	DescriptionEN string                  `json:"description_en,omitempty"`
	DescriptionAR string                  `json:"description_ar,omitempty"`
	Price         Number                  `json:"price"`
	SalePrice     Number                  `json:"sale_price"`
	Quantity      Number                  `json:"quantity"`
	HasVariants   bool                    `json:"has_variants,omitempty"`
	VariantIDs    []ID                    `json:"variant_ids,omitempty"`
	Category      json.RawMessage         `json:"category,omitempty"`
	Brand         json.RawMessage         `json:"brand,omitempty"`
	Vendor        json.RawMessage         `json:"vendor,omitempty"`
	Attributes    Ordered[RawAttribute]   `json:"attributes"`
	PriceGroups   Ordered[RawPriceGroup]  `json:"price_groups"`
	MediaGroups   Ordered[RawMediaGroup]  `json:"media_groups"`
	WeightGroups  Ordered[RawWeightGroup] `json:"weight_groups"`
	Variants      []RawVariant            `json:"variants,omitempty"`
}

// RawAttribute is one grouped attribute definition keyed by attribute id.
type RawAttribute struct {
	NameEN          string                     `json:"name_en,omitempty"`
	NameAR          string                     `json:"name_ar,omitempty"`
	ControlsPricing bool                       `json:"controls_pricing,omitempty"`
	ControlsMedia   bool                       `json:"controls_media,omitempty"`
	ControlsWeight  bool                       `json:"controls_weight,omitempty"`
	Values          Ordered[RawAttributeValue] `json:"values"`
}

// RawAttributeValue is one selectable value keyed by value id.
type RawAttributeValue struct {
	NameEN    string `json:"name_en,omitempty"`
	NameAR    string `json:"name_ar,omitempty"`
	ColorCode string `json:"color_code,omitempty"`
	Image     string `json:"image,omitempty"`
}

// RawPriceGroup is a price tier shared by variants.
type RawPriceGroup struct {
	Price     Number `json:"price"`
	SalePrice Number `json:"sale_price"`
}

// RawMediaGroup is an ordered image set shared by variants.
type RawMediaGroup struct {
	Media []RawMedia `json:"media"`
}

// RawMedia is a single image entry inside a media group.
type RawMedia struct {
	URL            string `json:"url"`
	IsPrimary      bool   `json:"is_primary,omitempty"`
	IsGroupPrimary bool   `json:"is_group_primary,omitempty"`
}

// RawWeightGroup carries shipping weight and dimensions shared by variants.
type RawWeightGroup struct {
	Weight     Number        `json:"weight"`
	WeightUnit string        `json:"weight_unit,omitempty"`
	Dimensions RawDimensions `json:"dimensions"`
}

// RawDimensions holds package dimensions.
type RawDimensions struct {
	Length Number `json:"length"`
	Width  Number `json:"width"`
	Height Number `json:"height"`
	Unit   string `json:"unit,omitempty"`
}

// RawVariant references the payload's groups by id.
type RawVariant struct {
	ID              ID          `json:"id"`
	SKUSuffix       string      `json:"sku_suffix,omitempty"`
	Quantity        Number      `json:"quantity"`
	PriceGroupID    ID          `json:"price_group_id,omitempty"`
	MediaGroupID    ID          `json:"media_group_id,omitempty"`
	WeightGroupID   ID          `json:"weight_group_id,omitempty"`
	Image           string      `json:"image,omitempty"`
	AttributeValues Ordered[ID] `json:"attribute_values"`
}

// DecodePayload parses a single catalog document.
func DecodePayload(data []byte) (*RawCatalogPayload, error) {
	var payload RawCatalogPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode catalog payload: %w", err)
	}
	return &payload, nil
}

// PriceGroup resolves a price group by id.
func (p *RawCatalogPayload) PriceGroup(id ID) (RawPriceGroup, bool) {
	return p.PriceGroups.Get(string(id))
}

// MediaGroup resolves a media group by id.
func (p *RawCatalogPayload) MediaGroup(id ID) (RawMediaGroup, bool) {
	return p.MediaGroups.Get(string(id))
}

// WeightGroup resolves a weight group by id.
func (p *RawCatalogPayload) WeightGroup(id ID) (RawWeightGroup, bool) {
	return p.WeightGroups.Get(string(id))
}

// ID is an identifier the catalog API may encode as a JSON string or number.
type ID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Number is a numeric field the catalog API may encode as a JSON number or string.
// Values that do not parse are kept so the resolvers can treat them as failures.
type Number struct {
	raw string
	set bool
}

// NumberOf builds a Number from its textual form.
func NumberOf(value string) Number {
	value = strings.TrimSpace(value)
	return Number{raw: value, set: value != ""}
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*n = Number{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	*n = NumberOf(raw)
	return nil
}

// MarshalJSON writes parseable values as numbers and anything else as a string.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	if d, ok := n.Decimal(); ok {
		return []byte(d.String()), nil
	}
	return json.Marshal(n.raw)
}

// IsSet reports whether the field was present and non-empty.
func (n Number) IsSet() bool {
	return n.set
}

// Decimal parses the value; ok is false when it is missing or not numeric.
func (n Number) Decimal() (decimal.Decimal, bool) {
	if !n.set {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(n.raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Int truncates the parsed value to an int.
func (n Number) Int() (int, bool) {
	d, ok := n.Decimal()
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}

// String returns the canonical decimal form, or the raw text when it does not parse.
func (n Number) String() string {
	if d, ok := n.Decimal(); ok {
		return d.String()
	}
	return n.raw
}

// Ordered is a JSON object whose key order is preserved on decode and encode.
type Ordered[T any] struct {
	keys   []string
	values map[string]T
}

// Set adds or replaces key, keeping the position of the first occurrence.
func (o *Ordered[T]) Set(key string, value T) {
	if o.values == nil {
		o.values = make(map[string]T)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o Ordered[T]) Get(key string) (T, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in document order.
func (o Ordered[T]) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of entries.
func (o Ordered[T]) Len() int {
	return len(o.keys)
}

// UnmarshalJSON decodes an object token by token. Empty arrays are accepted as
// empty objects since some catalog exports serialize empty maps that way.
func (o *Ordered[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = Ordered[T]{}
		return nil
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return fmt.Errorf("expected object, got %v", tok)
	}
	if delim == '[' {
		if dec.More() {
			return fmt.Errorf("expected object, got non-empty array")
		}
		*o = Ordered[T]{}
		return nil
	}
	if delim != '{' {
		return fmt.Errorf("expected object, got %v", delim)
	}

	var out Ordered[T]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var value T
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

// MarshalJSON encodes entries in key order.
func (o Ordered[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
