package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-catalog/pkg/logger"
	"github.com/angelmondragon/storefront-catalog/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	defaultExpandConcurrency = 8
	defaultFetchTimeout      = 5 * time.Second
)

// DetailFetcher loads the full catalog payload of one product.
type DetailFetcher interface {
	FetchProduct(ctx context.Context, productID string) (*RawCatalogPayload, error)
}

// DetailFetchFunc adapts a function to DetailFetcher.
type DetailFetchFunc func(ctx context.Context, productID string) (*RawCatalogPayload, error)

func (f DetailFetchFunc) FetchProduct(ctx context.Context, productID string) (*RawCatalogPayload, error) {
	return f(ctx, productID)
}

// ExpanderOptions configures an Expander.
type ExpanderOptions struct {
	Concurrency  int
	FetchTimeout time.Duration
	Logger       *logger.Logger
	Metrics      *metrics.ListingMetrics
}

// Expander turns a page of base products into listing cards, one per in-stock variant.
type Expander struct {
	normalizer   *Normalizer
	concurrency  int
	fetchTimeout time.Duration
	logg         *logger.Logger
	metrics      *metrics.ListingMetrics
}

// NewExpander builds an Expander that normalizes fetched details with normalizer.
func NewExpander(normalizer *Normalizer, opts ExpanderOptions) *Expander {
	if normalizer == nil {
		normalizer = NewNormalizer(Options{})
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultExpandConcurrency
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	return &Expander{
		normalizer:   normalizer,
		concurrency:  opts.Concurrency,
		fetchTimeout: opts.FetchTimeout,
		logg:         opts.Logger,
		metrics:      opts.Metrics,
	}
}

// Expand emits cards in input order with each product's variants kept
// contiguous. A product whose detail cannot be fetched or normalized, or that
// has no in-stock variant, contributes its base form as a single card.
func (e *Expander) Expand(ctx context.Context, products []Product, fetch DetailFetcher) []DisplayCard {
	details := e.fetchDetails(ctx, products, fetch)

	cards := make([]DisplayCard, 0, len(products))
	for _, product := range products {
		source := &product
		if detail, ok := details[product.ID]; ok {
			source = detail
		}
		expanded := expandProduct(product, source.Variants, source.Attributes)
		if len(expanded) == 0 {
			cards = append(cards, DisplayCard{Product: product})
			e.metrics.AddCards(metrics.CardKindBase, 1)
			continue
		}
		cards = append(cards, expanded...)
		e.metrics.AddCards(metrics.CardKindVariant, len(expanded))
	}
	return cards
}

func needsDetail(p Product) bool {
	return len(p.Variants) == 0 && (len(p.VariantIDs) > 0 || p.HasVariants)
}

// fetchDetails resolves each distinct product id at most once. Failures are
// logged and leave the id absent from the result.
func (e *Expander) fetchDetails(ctx context.Context, products []Product, fetch DetailFetcher) map[string]*Product {
	details := make(map[string]*Product)
	if fetch == nil {
		return details
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, p := range products {
		if p.ID == "" || !needsDetail(p) {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		return details
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.concurrency)
	for _, id := range ids {
		group.Go(func() error {
			detail, err := e.fetchOne(groupCtx, fetch, id)
			if err != nil {
				fetchCtx := e.logg.WithProductID(groupCtx, id)
				fetchCtx = e.logg.WithField(fetchCtx, "error", err.Error())
				e.logg.Warn(fetchCtx, "listing.expand.detail_fetch_failed")
				return nil
			}
			mu.Lock()
			details[id] = detail
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return details
}

func (e *Expander) fetchOne(ctx context.Context, fetch DetailFetcher, id string) (*Product, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	started := time.Now()
	raw, err := fetch.FetchProduct(fetchCtx, id)
	if err == nil && fetchCtx.Err() != nil {
		err = fetchCtx.Err()
	}
	e.metrics.ObserveFetch(time.Since(started), err)
	if err != nil {
		return nil, fmt.Errorf("fetch product detail %s: %w", id, err)
	}
	return e.normalizer.Normalize(raw)
}

// expandProduct builds one card per in-stock variant in catalog order. Each
// card owns its variant and attribute lists.
func expandProduct(base Product, variants []Variant, attributes []Attribute) []DisplayCard {
	var cards []DisplayCard
	for _, v := range variants {
		if !v.InStock() {
			continue
		}
		card := DisplayCard{
			Product:          base,
			DefaultVariantID: v.ID,
			Options:          Selection(v.Attributes).Clone(),
		}
		card.Price = v.Price
		card.CompareAtPrice = v.CompareAtPrice
		card.Stock = v.Stock
		card.HasVariants = true
		card.Images = frontLoad(v.Image, base.Images)
		card.VariantIDs = append([]string(nil), base.VariantIDs...)
		card.Variants = cloneVariants(variants)
		card.Attributes = cloneAttributes(attributes)
		cards = append(cards, card)
	}
	return cards
}

// frontLoad puts image first and drops its duplicates from images.
func frontLoad(image string, images []string) []string {
	if image == "" {
		return append([]string(nil), images...)
	}
	out := make([]string, 0, len(images)+1)
	out = append(out, image)
	for _, existing := range images {
		if existing != image {
			out = append(out, existing)
		}
	}
	return out
}
