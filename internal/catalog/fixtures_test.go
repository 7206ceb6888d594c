package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// shirtPayload covers every group kind plus excluded and out-of-stock variants.
const shirtPayload = `{
  "id": 101,
  "sku": "TSHIRT",
  "name_en": "Cotton Tee",
  "name_ar": "قميص قطني",
  "description_en": "Soft cotton",
  "description_ar": "",
  "has_variants": true,
  "attributes": {
    "a1": {
      "name_en": "Color",
      "name_ar": "اللون",
      "controls_media": true,
      "values": {
        "red": {"name_en": "Red", "name_ar": "أحمر", "color_code": "#ff0000", "image": "red.jpg"},
        "blue": {"name_en": "Blue", "name_ar": "أزرق", "color_code": "#0000ff"}
      }
    },
    "a2": {
      "name_en": "Size",
      "name_ar": "المقاس",
      "controls_pricing": true,
      "values": {
        "s": {"name_en": "S"},
        "m": {"name_en": "M"},
        "l": {"name_en": "L"}
      }
    }
  },
  "price_groups": {
    "A": {"price": "100", "sale_price": 80},
    "B": {"price": 90}
  },
  "media_groups": {
    "g1": {"media": [{"url": "a.jpg"}, {"url": "b.jpg", "is_group_primary": true}]},
    "g2": {"media": [{"url": "c.jpg", "is_primary": true}, {"url": "a.jpg"}]}
  },
  "weight_groups": {
    "w1": {"weight": 0.25, "weight_unit": "kg", "dimensions": {"length": 30, "width": "20", "height": 2, "unit": "cm"}}
  },
  "variants": [
    {"id": "v1", "sku_suffix": "RS", "quantity": 5, "price_group_id": "A", "media_group_id": "g1", "weight_group_id": "w1", "attribute_values": {"a1": "red", "a2": "s"}},
    {"id": "v2", "sku_suffix": "RM", "quantity": 0, "price_group_id": "B", "attribute_values": {"a1": "red", "a2": "m"}},
    {"id": "v3", "sku_suffix": "BS", "quantity": 3, "price_group_id": "B", "attribute_values": {"a1": "blue", "a2": "s"}},
    {"id": "v4", "sku_suffix": "BM", "quantity": "2", "price_group_id": "missing", "attribute_values": {"a1": "blue", "a2": "m"}},
    {"id": "v5", "sku_suffix": "RX", "quantity": 9, "price_group_id": "A", "attribute_values": {"a1": "red", "a2": "xl"}}
  ]
}`

func decodeFixture(t *testing.T, body string) *RawCatalogPayload {
	t.Helper()
	payload, err := DecodePayload([]byte(body))
	require.NoError(t, err)
	return payload
}

func normalizeFixture(t *testing.T, body string, opts Options) *Product {
	t.Helper()
	product, err := NewNormalizer(opts).Normalize(decodeFixture(t, body))
	require.NoError(t, err)
	return product
}

func shirt(t *testing.T) *Product {
	t.Helper()
	return normalizeFixture(t, shirtPayload, Options{})
}
