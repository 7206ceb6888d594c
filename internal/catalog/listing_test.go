package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-catalog/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu       sync.Mutex
	payloads map[string]string
	failures map[string]error
	delay    time.Duration
	calls    map[string]int
	total    atomic.Int32
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		payloads: map[string]string{},
		failures: map[string]error{},
		calls:    map[string]int{},
	}
}

func (s *stubFetcher) FetchProduct(ctx context.Context, productID string) (*RawCatalogPayload, error) {
	s.total.Add(1)
	s.mu.Lock()
	s.calls[productID]++
	body, ok := s.payloads[productID]
	failure := s.failures[productID]
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failure != nil {
		return nil, failure
	}
	if !ok {
		return nil, errors.New("not found")
	}
	return DecodePayload([]byte(body))
}

const mugPayload = `{
  "id": "mug",
  "price_groups": {"A": {"price": 12}},
  "attributes": {"c": {"name_en": "Color", "controls_media": true, "values": {"w": {"name_en": "White"}, "k": {"name_en": "Black", "image": "black.jpg"}}}},
  "variants": [
    {"id": "m1", "quantity": 0, "price_group_id": "A", "attribute_values": {"c": "w"}},
    {"id": "m2", "quantity": 4, "price_group_id": "A", "attribute_values": {"c": "k"}}
  ]
}`

func baseCard(id string, images ...string) Product {
	return Product{ID: id, Title: id, HasVariants: true, VariantIDs: []string{id + "-v"}, Images: images}
}

func TestExpandOrdersCardsAndKeepsVariantsContiguous(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.payloads["101"] = shirtPayload
	fetcher.payloads["mug"] = mugPayload

	simple := Product{ID: "plain", Title: "plain", Images: []string{"p.jpg"}}
	products := []Product{
		baseCard("101", "c.jpg", "b.jpg", "a.jpg"),
		simple,
		baseCard("mug", "mug.jpg"),
	}

	cards := NewExpander(NewNormalizer(Options{}), ExpanderOptions{}).Expand(context.Background(), products, fetcher)

	ids := make([]string, len(cards))
	for i, card := range cards {
		ids[i] = card.ID + "/" + card.DefaultVariantID
	}
	assert.Equal(t, []string{"101/v1", "101/v3", "101/v4", "plain/", "mug/m2"}, ids)

	first := cards[0]
	assert.True(t, first.IsExpanded())
	assert.True(t, first.HasVariants)
	assert.Equal(t, "80", first.Price.String())
	require.NotNil(t, first.CompareAtPrice)
	assert.Equal(t, "100", first.CompareAtPrice.String())
	assert.Equal(t, 5, first.Stock)
	assert.Equal(t, []string{"b.jpg", "c.jpg", "a.jpg"}, first.Images)
	assert.Equal(t, map[string]string{"Color": "Red", "Size": "S"}, first.Options)
	assert.Len(t, first.Variants, 4)

	assert.Equal(t, "90", cards[1].Price.String())
	assert.Nil(t, cards[1].CompareAtPrice)

	assert.False(t, cards[3].IsExpanded())
	assert.Equal(t, simple, cards[3].Product)

	assert.Equal(t, []string{"black.jpg", "mug.jpg"}, cards[4].Images)
}

func TestExpandCardsDoNotShareState(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.payloads["101"] = shirtPayload
	products := []Product{baseCard("101", "c.jpg")}

	cards := NewExpander(NewNormalizer(Options{}), ExpanderOptions{}).Expand(context.Background(), products, fetcher)
	require.Len(t, cards, 3)

	first, second := cards[0], cards[1]
	first.Variants[0].Stock = 99
	first.Variants[0].Attributes["Color"] = "Green"
	*first.Variants[0].CompareAtPrice = first.Variants[0].Price
	first.Attributes[0].Values[0].Value = "Green"
	first.VariantIDs[0] = "changed"

	assert.Equal(t, 5, second.Variants[0].Stock)
	assert.Equal(t, "Red", second.Variants[0].Attributes["Color"])
	assert.Equal(t, "100", second.Variants[0].CompareAtPrice.String())
	assert.Equal(t, "Red", second.Attributes[0].Values[0].Value)
	assert.Equal(t, []string{"101-v"}, products[0].VariantIDs)
}

func TestExpandFallsBackToBaseOnFailure(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.failures["broken"] = errors.New("upstream 500")
	fetcher.payloads["ok"] = `{"id": "ok", "variants": [{"id": "o1", "quantity": 1}]}`

	products := []Product{baseCard("broken", "x.jpg"), baseCard("ok")}

	cards := NewExpander(nil, ExpanderOptions{}).Expand(context.Background(), products, fetcher)
	require.Len(t, cards, 2)
	assert.Equal(t, products[0], cards[0].Product)
	assert.False(t, cards[0].IsExpanded())
	assert.Equal(t, "o1", cards[1].DefaultVariantID)
}

func TestExpandZeroInStockEmitsBaseCard(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.payloads["empty"] = `{"id": "empty", "variants": [{"id": "e1", "quantity": 0}, {"id": "e2", "quantity": -1}]}`

	products := []Product{baseCard("empty")}
	cards := NewExpander(nil, ExpanderOptions{}).Expand(context.Background(), products, fetcher)
	require.Len(t, cards, 1)
	assert.Equal(t, products[0], cards[0].Product)
}

func TestExpandFetchesEachProductOnce(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.payloads["mug"] = mugPayload

	products := []Product{baseCard("mug"), baseCard("mug"), baseCard("mug")}
	cards := NewExpander(nil, ExpanderOptions{Concurrency: 2}).Expand(context.Background(), products, fetcher)

	assert.Len(t, cards, 3)
	assert.Equal(t, int32(1), fetcher.total.Load())
	assert.Equal(t, 1, fetcher.calls["mug"])
}

func TestExpandSkipsFetchWhenVariantsResolved(t *testing.T) {
	fetcher := newStubFetcher()
	product := *shirt(t)

	cards := NewExpander(nil, ExpanderOptions{}).Expand(context.Background(), []Product{product}, fetcher)
	assert.Len(t, cards, 3)
	assert.Equal(t, int32(0), fetcher.total.Load())
}

func TestExpandTimeoutIsTreatedAsFailure(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.payloads["slow"] = `{"id": "slow", "variants": [{"id": "s1", "quantity": 1}]}`
	fetcher.delay = time.Second

	reg := prometheus.NewRegistry()
	expander := NewExpander(nil, ExpanderOptions{
		FetchTimeout: 20 * time.Millisecond,
		Metrics:      metrics.NewListingMetrics(reg),
	})

	products := []Product{baseCard("slow")}
	cards := expander.Expand(context.Background(), products, fetcher)
	require.Len(t, cards, 1)
	assert.False(t, cards[0].IsExpanded())

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var failures float64
	for _, mf := range mfs {
		if mf.GetName() != "listing_detail_fetch_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == metrics.OutcomeFailure {
					failures = m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, float64(1), failures)
}

func TestExpandWithoutFetcher(t *testing.T) {
	products := []Product{baseCard("a"), baseCard("b")}
	cards := NewExpander(nil, ExpanderOptions{}).Expand(context.Background(), products, nil)
	require.Len(t, cards, 2)
	assert.Equal(t, "a", cards[0].ID)
	assert.Equal(t, "b", cards[1].ID)
}

func TestDetailFetchFuncAdapter(t *testing.T) {
	var called bool
	fetch := DetailFetchFunc(func(ctx context.Context, productID string) (*RawCatalogPayload, error) {
		called = true
		return DecodePayload([]byte(`{"id": "` + productID + `", "variants": [{"id": "x", "quantity": 2}]}`))
	})

	cards := NewExpander(nil, ExpanderOptions{}).Expand(context.Background(), []Product{baseCard("fn")}, fetch)
	assert.True(t, called)
	require.Len(t, cards, 1)
	assert.Equal(t, "x", cards[0].DefaultVariantID)
}
