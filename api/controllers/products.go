package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-catalog/api/middleware"
	"github.com/angelmondragon/storefront-catalog/api/responses"
	"github.com/angelmondragon/storefront-catalog/api/validators"
	"github.com/angelmondragon/storefront-catalog/internal/catalog"
	"github.com/angelmondragon/storefront-catalog/internal/storefront"
	pkgerrors "github.com/angelmondragon/storefront-catalog/pkg/errors"
	"github.com/angelmondragon/storefront-catalog/pkg/logger"
	"github.com/angelmondragon/storefront-catalog/pkg/pagination"
)

const (
	maxIDLength    = 128
	maxOptionLen   = 256
	maxListingPage = 10000
)

// ListProducts serves one page of listing cards.
func ListProducts(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, maxListingPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), storefront.ListProductsInput{
			Pagination: pagination.Params{Page: page, Limit: limit},
			Locale:     middleware.LocaleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetProduct serves the product detail view. The optional variant query
// parameter seeds the initial selection.
func GetProduct(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		productID := validators.SanitizeString(chi.URLParam(r, "productId"), maxIDLength)
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		ctx := logg.WithProductID(r.Context(), productID)
		view, err := svc.GetProduct(ctx, storefront.GetProductInput{
			ProductID: productID,
			VariantID: validators.SanitizeString(r.URL.Query().Get("variant"), maxIDLength),
			Locale:    middleware.LocaleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type selectOptionRequest struct {
	Attribute string            `json:"attribute" validate:"required,max=256"`
	Value     string            `json:"value" validate:"required,max=256"`
	Selection map[string]string `json:"selection" validate:"omitempty,max=64"`
}

// SelectOption applies one option choice to the shopper's current selection.
func SelectOption(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		productID := validators.SanitizeString(chi.URLParam(r, "productId"), maxIDLength)
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var payload selectOptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithProductID(r.Context(), productID)
		view, err := svc.SelectOption(ctx, storefront.SelectOptionInput{
			ProductID: productID,
			Locale:    middleware.LocaleFromContext(r.Context()),
			Selection: catalog.Selection(validators.SanitizeSelection(payload.Selection, maxOptionLen)),
			Attribute: validators.SanitizeString(payload.Attribute, maxOptionLen),
			Value:     validators.SanitizeString(payload.Value, maxOptionLen),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ImportProduct stores a raw catalog document and returns its normalized form.
func ImportProduct(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		body, err := validators.ReadJSONDocument(r, validators.MaxDocumentBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.ImportProduct(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}
