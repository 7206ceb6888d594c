package catalog

import (
	"testing"

	"github.com/angelmondragon/storefront-catalog/pkg/enums"
	"github.com/stretchr/testify/assert"
)

func mediaFor(t *testing.T, body string) (*RawCatalogPayload, *MediaResolver) {
	t.Helper()
	payload := decodeFixture(t, body)
	attrs := NewAttributeCatalog(payload.Attributes, enums.LocaleEnglish)
	return payload, NewMediaResolver(payload.MediaGroups, attrs, "")
}

func TestMediaResolverOrdersPrimaryGroupsFirstAndDedupes(t *testing.T) {
	_, media := mediaFor(t, shirtPayload)
	assert.Equal(t, []string{"c.jpg", "b.jpg", "a.jpg"}, media.ProductImages())
}

func TestMediaResolverPlaceholderWhenEmpty(t *testing.T) {
	_, media := mediaFor(t, `{"id": "p", "media_groups": {"g": {"media": [{"url": "  "}]}}}`)
	assert.Equal(t, []string{DefaultPlaceholderImage}, media.ProductImages())

	custom := NewMediaResolver(Ordered[RawMediaGroup]{}, NewAttributeCatalog(Ordered[RawAttribute]{}, enums.LocaleEnglish), "/x.png")
	assert.Equal(t, []string{"/x.png"}, custom.ProductImages())
}

func TestMediaResolverVariantImageFallbacks(t *testing.T) {
	payload, media := mediaFor(t, shirtPayload)

	byID := map[string]RawVariant{}
	for _, v := range payload.Variants {
		byID[v.ID.String()] = v
	}

	assert.Equal(t, "b.jpg", media.VariantImage(byID["v1"]), "group primary of the variant's media group")
	assert.Equal(t, "red.jpg", media.VariantImage(byID["v2"]), "media attribute value image")
	assert.Equal(t, "c.jpg", media.VariantImage(byID["v3"]), "product's first image")

	explicit := byID["v3"]
	explicit.Image = "own.jpg"
	assert.Equal(t, "own.jpg", media.VariantImage(explicit))
}

func TestMediaResolverGroupImage(t *testing.T) {
	_, media := mediaFor(t, shirtPayload)

	image, ok := media.GroupImage("g1")
	assert.True(t, ok)
	assert.Equal(t, "b.jpg", image)

	image, ok = media.GroupImage("g2")
	assert.True(t, ok)
	assert.Equal(t, "c.jpg", image)

	_, ok = media.GroupImage("nope")
	assert.False(t, ok)
}
