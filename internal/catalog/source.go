package catalog

import (
	"context"
	"encoding/json"

	"github.com/angelmondragon/storefront-catalog/pkg/pagination"
)

// Source loads raw catalog documents. List pages are returned undecoded so a
// single malformed entry can be dropped without failing the page.
type Source interface {
	DetailFetcher
	ListProducts(ctx context.Context, page pagination.Params) ([]json.RawMessage, error)
}
