package catalog

import "strings"

// MediaResolver resolves the canonical image list and per-variant images.
type MediaResolver struct {
	groups      Ordered[RawMediaGroup]
	attributes  *AttributeCatalog
	placeholder string
	images      []string
}

// NewMediaResolver flattens the media groups once; the result is reused for every variant.
func NewMediaResolver(groups Ordered[RawMediaGroup], attributes *AttributeCatalog, placeholder string) *MediaResolver {
	if placeholder == "" {
		placeholder = DefaultPlaceholderImage
	}
	m := &MediaResolver{
		groups:      groups,
		attributes:  attributes,
		placeholder: placeholder,
	}
	m.images = m.flatten()
	return m
}

// ProductImages returns the deduplicated canonical image list. It is never empty.
func (m *MediaResolver) ProductImages() []string {
	return append([]string(nil), m.images...)
}

// flatten orders groups containing a primary image first, and group-primary
// entries first within each group, keeping payload order otherwise.
func (m *MediaResolver) flatten() []string {
	keys := m.groups.Keys()
	ordered := make([]RawMediaGroup, 0, len(keys))
	var rest []RawMediaGroup
	for _, key := range keys {
		group, _ := m.groups.Get(key)
		if hasPrimary(group) {
			ordered = append(ordered, group)
		} else {
			rest = append(rest, group)
		}
	}
	ordered = append(ordered, rest...)

	seen := make(map[string]struct{})
	images := make([]string, 0)
	add := func(url string) {
		url = strings.TrimSpace(url)
		if url == "" {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		images = append(images, url)
	}

	for _, group := range ordered {
		for _, media := range group.Media {
			if media.IsGroupPrimary {
				add(media.URL)
			}
		}
		for _, media := range group.Media {
			if !media.IsGroupPrimary {
				add(media.URL)
			}
		}
	}

	if len(images) == 0 {
		images = append(images, m.placeholder)
	}
	return images
}

func hasPrimary(group RawMediaGroup) bool {
	for _, media := range group.Media {
		if media.IsPrimary && strings.TrimSpace(media.URL) != "" {
			return true
		}
	}
	return false
}

// GroupImage returns the representative image of a media group: its
// group-primary entry, else its first entry.
func (m *MediaResolver) GroupImage(groupID ID) (string, bool) {
	if groupID == "" {
		return "", false
	}
	group, ok := m.groups.Get(string(groupID))
	if !ok {
		return "", false
	}
	var first string
	for _, media := range group.Media {
		url := strings.TrimSpace(media.URL)
		if url == "" {
			continue
		}
		if media.IsGroupPrimary {
			return url, true
		}
		if first == "" {
			first = url
		}
	}
	return first, first != ""
}

// VariantImage resolves a variant's representative image, first hit wins:
// the variant's own image (explicit or via its media group), then the image
// of its value for the media-controlling attribute, then the product's first image.
func (m *MediaResolver) VariantImage(variant RawVariant) string {
	if own := strings.TrimSpace(variant.Image); own != "" {
		return own
	}
	if own, ok := m.GroupImage(variant.MediaGroupID); ok {
		return own
	}
	if attrID, ok := m.attributes.MediaAttributeID(); ok {
		if valueID, ok := variant.AttributeValues.Get(attrID); ok {
			if image, ok := m.attributes.ValueImage(attrID, string(valueID)); ok {
				return image
			}
		}
	}
	return m.images[0]
}
