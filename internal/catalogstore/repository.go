package catalogstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-catalog/internal/catalog"
	"github.com/angelmondragon/storefront-catalog/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-catalog/pkg/errors"
	"github.com/angelmondragon/storefront-catalog/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores raw catalog documents keyed by product id.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ catalog.Source = (*Repository)(nil)

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx, now: r.now}
}

// Upsert inserts or replaces the document of one product.
func (r *Repository) Upsert(ctx context.Context, productID string, payload []byte) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, catalog.ErrMissingProductID, "catalog document rejected")
	}
	if !json.Valid(payload) {
		return pkgerrors.New(pkgerrors.CodeInvalidPayload, "catalog document is not valid JSON")
	}

	doc := models.CatalogDocument{
		ProductID: productID,
		Payload:   string(payload),
		UpdatedAt: r.now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&doc).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store catalog document")
	}
	return nil
}

// Delete removes a product document. Deleting a missing document is not an error.
func (r *Repository) Delete(ctx context.Context, productID string) error {
	err := r.db.WithContext(ctx).
		Where("product_id = ?", strings.TrimSpace(productID)).
		Delete(&models.CatalogDocument{}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete catalog document")
	}
	return nil
}

// FetchProduct loads and decodes the document of one product.
func (r *Repository) FetchProduct(ctx context.Context, productID string) (*catalog.RawCatalogPayload, error) {
	var doc models.CatalogDocument
	err := r.db.WithContext(ctx).First(&doc, "product_id = ?", strings.TrimSpace(productID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog document")
	}

	payload, err := catalog.DecodePayload([]byte(doc.Payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "stored catalog document is unreadable")
	}
	return payload, nil
}

// ListProducts returns one page of documents ordered by product id.
func (r *Repository) ListProducts(ctx context.Context, page pagination.Params) ([]json.RawMessage, error) {
	page = pagination.Normalize(page)

	var docs []models.CatalogDocument
	err := r.db.WithContext(ctx).
		Order("product_id ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&docs).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog documents")
	}

	items := make([]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		items = append(items, json.RawMessage(doc.Payload))
	}
	return items, nil
}

// Count returns the number of stored documents.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CatalogDocument{}).Count(&count).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count catalog documents")
	}
	return count, nil
}
