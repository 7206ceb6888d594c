package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/angelmondragon/storefront-catalog/internal/catalog"
	"github.com/angelmondragon/storefront-catalog/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-catalog/pkg/errors"
	"github.com/angelmondragon/storefront-catalog/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hoodiePayload = `{
  "id": "hoodie",
  "name_en": "Hoodie",
  "name_ar": "هودي",
  "attributes": {
    "a1": {
      "name_en": "Color",
      "name_ar": "اللون",
      "controls_media": true,
      "values": {
        "black": {"name_en": "Black", "name_ar": "أسود", "color_code": "#000000", "image": "black.jpg"},
        "grey": {"name_en": "Grey", "name_ar": "رمادي"},
        "white": {"name_en": "White", "name_ar": "أبيض"}
      }
    }
  },
  "price_groups": {
    "P": {"price": 50},
    "Q": {"price": 60, "sale_price": 45}
  },
  "variants": [
    {"id": "h1", "quantity": 2, "price_group_id": "P", "attribute_values": {"a1": "black"}},
    {"id": "h2", "quantity": 0, "price_group_id": "Q", "attribute_values": {"a1": "grey"}},
    {"id": "h3", "quantity": 4, "price_group_id": "Q", "attribute_values": {"a1": "white"}}
  ]
}`

type fakeSource struct {
	mu        sync.Mutex
	details   map[string]string
	detailErr error
	page      []json.RawMessage
	listErr   error
	lastPage  pagination.Params
}

func (f *fakeSource) FetchProduct(_ context.Context, productID string) (*catalog.RawCatalogPayload, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	body, ok := f.details[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return catalog.DecodePayload([]byte(body))
}

func (f *fakeSource) ListProducts(_ context.Context, page pagination.Params) ([]json.RawMessage, error) {
	f.mu.Lock()
	f.lastPage = page
	f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.page, nil
}

type fakeWriter struct {
	stored map[string][]byte
	err    error
}

func (w *fakeWriter) Upsert(_ context.Context, productID string, payload []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.stored == nil {
		w.stored = map[string][]byte{}
	}
	w.stored[productID] = payload
	return nil
}

type fakeInvalidator struct {
	ids []string
	err error
}

func (i *fakeInvalidator) Invalidate(_ context.Context, productID string) error {
	i.ids = append(i.ids, productID)
	return i.err
}

func newTestService(t *testing.T, cfg Config) Service {
	t.Helper()
	if cfg.Source == nil {
		cfg.Source = &fakeSource{details: map[string]string{"hoodie": hoodiePayload}}
	}
	svc, err := NewService(cfg)
	require.NoError(t, err)
	return svc
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestNewServiceRequiresSource(t *testing.T) {
	_, err := NewService(Config{})
	require.Error(t, err)
}

func TestGetProductSeedsFirstInStockVariant(t *testing.T) {
	svc := newTestService(t, Config{})

	view, err := svc.GetProduct(context.Background(), GetProductInput{ProductID: "hoodie"})
	require.NoError(t, err)

	assert.Equal(t, "Hoodie", view.Product.Title)
	assert.Equal(t, catalog.Selection{"Color": "Black"}, view.Selection)
	require.NotNil(t, view.MatchedVariant)
	assert.Equal(t, "h1", view.MatchedVariant.ID)
	assert.Equal(t, "50", view.Offer.Price.String())
	assert.Nil(t, view.Offer.CompareAtPrice)
	assert.Equal(t, 2, view.Offer.Stock)
	assert.True(t, view.Offer.InStock)
	assert.Equal(t, "black.jpg", view.Offer.Image)

	require.Len(t, view.Options, 1)
	disabled := map[string]bool{}
	for _, value := range view.Options[0].Values {
		disabled[value.Value] = value.Disabled
	}
	assert.Equal(t, map[string]bool{"Black": false, "Grey": true, "White": false}, disabled)
}

func TestGetProductHonoursRequestedVariant(t *testing.T) {
	svc := newTestService(t, Config{})

	view, err := svc.GetProduct(context.Background(), GetProductInput{ProductID: "hoodie", VariantID: " h2 "})
	require.NoError(t, err)

	require.NotNil(t, view.MatchedVariant)
	assert.Equal(t, "h2", view.MatchedVariant.ID)
	assert.Equal(t, catalog.Selection{"Color": "Grey"}, view.Selection)
	assert.Equal(t, "45", view.Offer.Price.String())
	require.NotNil(t, view.Offer.CompareAtPrice)
	assert.Equal(t, "60", view.Offer.CompareAtPrice.String())
	assert.False(t, view.Offer.InStock)
}

func TestGetProductUsesRequestLocale(t *testing.T) {
	svc := newTestService(t, Config{DefaultLocale: enums.LocaleEnglish})

	view, err := svc.GetProduct(context.Background(), GetProductInput{ProductID: "hoodie", Locale: enums.LocaleArabic})
	require.NoError(t, err)
	assert.Equal(t, "هودي", view.Product.Title)
	assert.Equal(t, enums.LocaleArabic, view.Product.Locale)
	assert.Equal(t, catalog.Selection{"اللون": "أسود"}, view.Selection)
}

func TestGetProductFallsBackToDefaultLocale(t *testing.T) {
	svc := newTestService(t, Config{DefaultLocale: enums.LocaleArabic})

	view, err := svc.GetProduct(context.Background(), GetProductInput{ProductID: "hoodie", Locale: "fr"})
	require.NoError(t, err)
	assert.Equal(t, enums.LocaleArabic, view.Product.Locale)
}

func TestGetProductErrors(t *testing.T) {
	t.Run("empty id", func(t *testing.T) {
		svc := newTestService(t, Config{})
		_, err := svc.GetProduct(context.Background(), GetProductInput{ProductID: "  "})
		requireCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("not found", func(t *testing.T) {
		svc := newTestService(t, Config{})
		_, err := svc.GetProduct(context.Background(), GetProductInput{ProductID: "missing"})
		requireCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("upstream failure", func(t *testing.T) {
		source := &fakeSource{detailErr: pkgerrors.New(pkgerrors.CodeDependency, "upstream down")}
		svc := newTestService(t, Config{Source: source})
		_, err := svc.GetProduct(context.Background(), GetProductInput{ProductID: "hoodie"})
		requireCode(t, err, pkgerrors.CodeDependency)
	})

	t.Run("payload without id", func(t *testing.T) {
		source := &fakeSource{details: map[string]string{"ghost": `{"name_en": "Ghost"}`}}
		svc := newTestService(t, Config{Source: source})
		_, err := svc.GetProduct(context.Background(), GetProductInput{ProductID: "ghost"})
		requireCode(t, err, pkgerrors.CodeInvalidPayload)
		assert.True(t, errors.Is(err, catalog.ErrMissingProductID))
	})
}

func TestSelectOptionMatchesInStockVariant(t *testing.T) {
	svc := newTestService(t, Config{})

	view, err := svc.SelectOption(context.Background(), SelectOptionInput{
		ProductID: "hoodie",
		Selection: catalog.Selection{"Color": "Black"},
		Attribute: "Color",
		Value:     "White",
	})
	require.NoError(t, err)

	assert.Equal(t, "hoodie", view.ProductID)
	require.NotNil(t, view.MatchedVariant)
	assert.Equal(t, "h3", view.MatchedVariant.ID)
	assert.Equal(t, "45", view.Offer.Price.String())
	require.NotNil(t, view.Offer.CompareAtPrice)
	assert.Equal(t, "60", view.Offer.CompareAtPrice.String())
	assert.Equal(t, 4, view.Offer.Stock)
}

func TestSelectOptionKeepsUnavailableChoice(t *testing.T) {
	svc := newTestService(t, Config{})

	view, err := svc.SelectOption(context.Background(), SelectOptionInput{
		ProductID: "hoodie",
		Attribute: "Color",
		Value:     "Grey",
	})
	require.NoError(t, err)

	assert.Nil(t, view.MatchedVariant)
	assert.Equal(t, catalog.Selection{"Color": "Grey"}, view.Selection)
	assert.Equal(t, "45", view.Offer.Price.String())
	assert.Equal(t, 0, view.Offer.Stock)
	assert.False(t, view.Offer.InStock)
	assert.Equal(t, catalog.DefaultPlaceholderImage, view.Offer.Image)
}

func TestSelectOptionOutOfStockValueIsNotPurchasable(t *testing.T) {
	svc := newTestService(t, Config{})

	view, err := svc.SelectOption(context.Background(), SelectOptionInput{
		ProductID: "hoodie",
		Selection: catalog.Selection{"Color": "Black"},
		Attribute: "Color",
		Value:     "Grey",
	})
	require.NoError(t, err)

	assert.Nil(t, view.MatchedVariant)
	assert.Equal(t, "Grey", view.Selection["Color"])
	assert.Equal(t, 0, view.Offer.Stock)
	assert.False(t, view.Offer.InStock)
}

func TestSelectOptionRequiresAttribute(t *testing.T) {
	svc := newTestService(t, Config{})

	_, err := svc.SelectOption(context.Background(), SelectOptionInput{ProductID: "hoodie", Value: "Grey"})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestListProductsExpandsAndDropsInvalidEntries(t *testing.T) {
	source := &fakeSource{
		details: map[string]string{"hoodie": hoodiePayload},
		page: []json.RawMessage{
			json.RawMessage(`{"id": "hoodie", "name_en": "Hoodie", "has_variants": true}`),
			json.RawMessage(`{"name_en": "No identity"}`),
			json.RawMessage(`"not an object"`),
			json.RawMessage(`{"id": "cap", "name_en": "Cap", "price": 10, "quantity": 3}`),
		},
	}
	svc := newTestService(t, Config{Source: source})

	page, err := svc.ListProducts(context.Background(), ListProductsInput{})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, pagination.DefaultLimit, page.Limit)
	assert.Equal(t, 2, page.Dropped)
	assert.Equal(t, enums.LocaleEnglish, page.Locale)
	assert.Equal(t, pagination.Params{Page: 1, Limit: pagination.DefaultLimit}, source.lastPage)

	require.Len(t, page.Cards, 3)
	assert.Equal(t, "h1", page.Cards[0].DefaultVariantID)
	assert.Equal(t, "50", page.Cards[0].Price.String())
	assert.Equal(t, "h3", page.Cards[1].DefaultVariantID)
	assert.Equal(t, "45", page.Cards[1].Price.String())
	assert.Equal(t, "cap", page.Cards[2].ID)
	assert.False(t, page.Cards[2].IsExpanded())
	assert.Equal(t, 3, page.Cards[2].Stock)
}

func TestListProductsPropagatesSourceFailure(t *testing.T) {
	source := &fakeSource{listErr: pkgerrors.New(pkgerrors.CodeDependency, "upstream down")}
	svc := newTestService(t, Config{Source: source})

	_, err := svc.ListProducts(context.Background(), ListProductsInput{Pagination: pagination.Params{Page: 2, Limit: 500}})
	requireCode(t, err, pkgerrors.CodeDependency)
	assert.Equal(t, pagination.Params{Page: 2, Limit: pagination.MaxLimit}, source.lastPage)
}

func TestImportProductRequiresWriter(t *testing.T) {
	svc := newTestService(t, Config{})

	_, err := svc.ImportProduct(context.Background(), []byte(hoodiePayload))
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestImportProductStoresAndInvalidates(t *testing.T) {
	writer := &fakeWriter{}
	invalidator := &fakeInvalidator{}
	svc := newTestService(t, Config{Writer: writer, Invalidator: invalidator})

	product, err := svc.ImportProduct(context.Background(), []byte(hoodiePayload))
	require.NoError(t, err)

	assert.Equal(t, "hoodie", product.ID)
	assert.JSONEq(t, hoodiePayload, string(writer.stored["hoodie"]))
	assert.Equal(t, []string{"hoodie"}, invalidator.ids)
}

func TestImportProductIgnoresInvalidationFailure(t *testing.T) {
	writer := &fakeWriter{}
	invalidator := &fakeInvalidator{err: errors.New("redis down")}
	svc := newTestService(t, Config{Writer: writer, Invalidator: invalidator})

	_, err := svc.ImportProduct(context.Background(), []byte(hoodiePayload))
	require.NoError(t, err)
	assert.Contains(t, writer.stored, "hoodie")
}

func TestImportProductRejectsInvalidDocuments(t *testing.T) {
	writer := &fakeWriter{}
	svc := newTestService(t, Config{Writer: writer})

	_, err := svc.ImportProduct(context.Background(), []byte(`{"name_en": "no id"}`))
	requireCode(t, err, pkgerrors.CodeInvalidPayload)

	_, err = svc.ImportProduct(context.Background(), []byte(`not json`))
	requireCode(t, err, pkgerrors.CodeInvalidPayload)

	assert.Empty(t, writer.stored)
}

func TestImportProductPropagatesWriterFailure(t *testing.T) {
	writer := &fakeWriter{err: pkgerrors.New(pkgerrors.CodeDependency, "db down")}
	invalidator := &fakeInvalidator{}
	svc := newTestService(t, Config{Writer: writer, Invalidator: invalidator})

	_, err := svc.ImportProduct(context.Background(), []byte(hoodiePayload))
	requireCode(t, err, pkgerrors.CodeDependency)
	assert.Empty(t, invalidator.ids)
}
