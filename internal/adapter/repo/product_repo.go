package repo

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/infra"
	"storefront/internal/sqlinline"
)

// ProductRepositoryPG implements domain.ProductRepository.
type ProductRepositoryPG struct {
	db infra.SQLExecutor
}

// NewProductRepository creates a ProductRepositoryPG.
func NewProductRepository(db infra.SQLExecutor) *ProductRepositoryPG {
	return &ProductRepositoryPG{db: db}
}

// PathBySlug returns /<category>/<product>/ for the product with slug.
func (r *ProductRepositoryPG) PathBySlug(ctx context.Context, slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", domain.ErrNotFound
	}
	var categorySlug, productSlug string
	if err := r.db.QueryRow(ctx, sqlinline.QFindProductPathBySlug, slug).Scan(&categorySlug, &productSlug); err != nil {
		if infra.IsNoRows(err) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("find product by slug: %w", err)
	}
	if categorySlug == "" || productSlug == "" {
		return "", domain.ErrNotFound
	}
	return "/" + categorySlug + "/" + productSlug + "/", nil
}

var _ domain.ProductRepository = (*ProductRepositoryPG)(nil)
