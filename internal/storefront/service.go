package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-catalog/internal/catalog"
	"github.com/angelmondragon/storefront-catalog/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-catalog/pkg/errors"
	"github.com/angelmondragon/storefront-catalog/pkg/logger"
	"github.com/angelmondragon/storefront-catalog/pkg/metrics"
	"github.com/angelmondragon/storefront-catalog/pkg/pagination"
)

// Service exposes the storefront read paths and catalog imports.
type Service interface {
	GetProduct(ctx context.Context, input GetProductInput) (*ProductView, error)
	SelectOption(ctx context.Context, input SelectOptionInput) (*SelectionView, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ListingPage, error)
	ImportProduct(ctx context.Context, payload []byte) (*catalog.Product, error)
}

// DocumentWriter persists raw catalog documents.
type DocumentWriter interface {
	Upsert(ctx context.Context, productID string, payload []byte) error
}

// CacheInvalidator drops cached documents after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, productID string) error
}

// Config wires a Service. Writer and Invalidator are optional; without a
// Writer the catalog is read-only.
type Config struct {
	Source             catalog.Source
	Writer             DocumentWriter
	Invalidator        CacheInvalidator
	PlaceholderImage   string
	DefaultLocale      enums.Locale
	ListingConcurrency int
	FetchTimeout       time.Duration
	Metrics            *metrics.ListingMetrics
	Logger             *logger.Logger
}

type service struct {
	source        catalog.Source
	writer        DocumentWriter
	invalidator   CacheInvalidator
	placeholder   string
	defaultLocale enums.Locale
	expanderOpts  catalog.ExpanderOptions
	logg          *logger.Logger
}

// NewService constructs a storefront service instance.
func NewService(cfg Config) (Service, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	locale := cfg.DefaultLocale
	if !locale.IsValid() {
		locale = enums.DefaultLocale
	}
	return &service{
		source:        cfg.Source,
		writer:        cfg.Writer,
		invalidator:   cfg.Invalidator,
		placeholder:   cfg.PlaceholderImage,
		defaultLocale: locale,
		expanderOpts: catalog.ExpanderOptions{
			Concurrency:  cfg.ListingConcurrency,
			FetchTimeout: cfg.FetchTimeout,
			Logger:       cfg.Logger,
			Metrics:      cfg.Metrics,
		},
		logg: cfg.Logger,
	}, nil
}

// GetProduct loads one product and seeds its selection from the requested variant.
func (s *service) GetProduct(ctx context.Context, input GetProductInput) (*ProductView, error) {
	normalizer := s.normalizer(input.Locale)
	product, err := s.loadProduct(ctx, normalizer, input.ProductID)
	if err != nil {
		return nil, err
	}

	result := catalog.InitialSelection(product, strings.TrimSpace(input.VariantID))
	return &ProductView{
		Product:        product,
		Selection:      result.Selection,
		MatchedVariant: result.Variant,
		Offer:          offerFor(product, result),
		Options:        catalog.OptionStates(product),
	}, nil
}

// SelectOption applies an option choice and resolves the resulting offer.
func (s *service) SelectOption(ctx context.Context, input SelectOptionInput) (*SelectionView, error) {
	attribute := strings.TrimSpace(input.Attribute)
	if attribute == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "attribute is required")
	}

	normalizer := s.normalizer(input.Locale)
	product, err := s.loadProduct(ctx, normalizer, input.ProductID)
	if err != nil {
		return nil, err
	}

	current := input.Selection
	if current == nil {
		current = catalog.Selection{}
	}
	result := catalog.SelectOption(product, current, attribute, input.Value)
	return &SelectionView{
		ProductID:      product.ID,
		Selection:      result.Selection,
		MatchedVariant: result.Variant,
		Offer:          offerFor(product, result),
		Options:        catalog.OptionStates(product),
	}, nil
}

// ListProducts normalizes one page and expands it into listing cards.
// Entries that fail to decode or lack an id are dropped and logged.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ListingPage, error) {
	page := pagination.Normalize(input.Pagination)
	normalizer := s.normalizer(input.Locale)

	items, err := s.source.ListProducts(ctx, page)
	if err != nil {
		return nil, err
	}

	products := make([]catalog.Product, 0, len(items))
	dropped := 0
	for i, item := range items {
		raw, err := catalog.DecodePayload(item)
		if err == nil {
			var product *catalog.Product
			product, err = normalizer.Normalize(raw)
			if err == nil {
				products = append(products, *product)
				continue
			}
		}
		dropped++
		dropCtx := s.logg.WithFields(ctx, map[string]any{
			"position": i,
			"page":     page.Page,
			"error":    err.Error(),
		})
		s.logg.Warn(dropCtx, "storefront.list.payload_dropped")
	}

	expander := catalog.NewExpander(normalizer, s.expanderOpts)
	return &ListingPage{
		Cards:   expander.Expand(ctx, products, s.source),
		Page:    page.Page,
		Limit:   page.Limit,
		Dropped: dropped,
		Locale:  normalizer.Locale(),
	}, nil
}

// ImportProduct validates a raw document and stores it.
func (s *service) ImportProduct(ctx context.Context, payload []byte) (*catalog.Product, error) {
	if s.writer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "catalog source is read-only")
	}

	raw, err := catalog.DecodePayload(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "catalog document is unreadable")
	}
	product, err := s.normalizer(s.defaultLocale).Normalize(raw)
	if err != nil {
		return nil, err
	}

	if err := s.writer.Upsert(ctx, product.ID, payload); err != nil {
		return nil, err
	}
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, product.ID); err != nil {
			warnCtx := s.logg.WithProductID(ctx, product.ID)
			s.logg.Warn(s.logg.WithField(warnCtx, "error", err.Error()), "storefront.import.invalidate_failed")
		}
	}

	s.logg.Info(s.logg.WithProductID(ctx, product.ID), "storefront.import.stored")
	return product, nil
}

func (s *service) normalizer(locale enums.Locale) *catalog.Normalizer {
	if !locale.IsValid() {
		locale = s.defaultLocale
	}
	return catalog.NewNormalizer(catalog.Options{Locale: locale, PlaceholderImage: s.placeholder})
}

func (s *service) loadProduct(ctx context.Context, normalizer *catalog.Normalizer, productID string) (*catalog.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	raw, err := s.source.FetchProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	product, err := normalizer.Normalize(raw)
	if err != nil {
		if errors.Is(err, catalog.ErrMissingProductID) {
			s.logg.Warn(s.logg.WithProductID(ctx, productID), "storefront.detail.payload_dropped")
		}
		return nil, err
	}
	return product, nil
}
