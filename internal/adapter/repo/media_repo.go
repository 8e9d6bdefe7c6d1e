package repo

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/infra"
	"storefront/internal/sqlinline"
)

// MediaRepositoryPG implements domain.MediaRepository over the catalogue tables.
type MediaRepositoryPG struct {
	db infra.SQLExecutor
}

// NewMediaRepository creates a MediaRepositoryPG. db is usually an *infra.SQLRunner.
func NewMediaRepository(db infra.SQLExecutor) *MediaRepositoryPG {
	return &MediaRepositoryPG{db: db}
}

// List returns every stored original matching filter, categories first.
// Empty file fields are skipped. Static icons live outside the database and
// are never returned here.
func (r *MediaRepositoryPG) List(ctx context.Context, filter domain.MediaFilter) ([]domain.MediaRef, error) {
	var ids []int64
	if len(filter.IDs) > 0 {
		ids = filter.IDs
	}

	var refs []domain.MediaRef
	if filter.Includes(domain.MediaKindCategoryImage) || filter.Includes(domain.MediaKindCategorySEOImage) {
		out, err := r.listPairs(ctx, sqlinline.QListCategoryMedia, ids, filter, domain.MediaKindCategoryImage, domain.MediaKindCategorySEOImage)
		if err != nil {
			return nil, fmt.Errorf("list category media: %w", err)
		}
		refs = append(refs, out...)
	}
	if filter.Includes(domain.MediaKindProductImage) || filter.Includes(domain.MediaKindProductCardImage) {
		out, err := r.listPairs(ctx, sqlinline.QListProductMedia, ids, filter, domain.MediaKindProductImage, domain.MediaKindProductCardImage)
		if err != nil {
			return nil, fmt.Errorf("list product media: %w", err)
		}
		refs = append(refs, out...)
	}
	if filter.Includes(domain.MediaKindProductGalleryImage) {
		out, err := r.listGallery(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list gallery media: %w", err)
		}
		refs = append(refs, out...)
	}
	return refs, nil
}

// listPairs scans rows of (id, first file, second file).
func (r *MediaRepositoryPG) listPairs(ctx context.Context, query string, ids []int64, filter domain.MediaFilter, first, second domain.MediaKind) ([]domain.MediaRef, error) {
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []domain.MediaRef
	for rows.Next() {
		var (
			id         int64
			nameFirst  string
			nameSecond string
		)
		if err := rows.Scan(&id, &nameFirst, &nameSecond); err != nil {
			return nil, err
		}
		if nameFirst != "" && filter.Includes(first) {
			refs = append(refs, domain.MediaRef{Kind: first, OwnerID: id, Name: nameFirst})
		}
		if nameSecond != "" && filter.Includes(second) {
			refs = append(refs, domain.MediaRef{Kind: second, OwnerID: id, Name: nameSecond})
		}
	}
	return refs, rows.Err()
}

func (r *MediaRepositoryPG) listGallery(ctx context.Context, ids []int64) ([]domain.MediaRef, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListGalleryMedia, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []domain.MediaRef
	for rows.Next() {
		var (
			productID int64
			name      string
		)
		if err := rows.Scan(&productID, &name); err != nil {
			return nil, err
		}
		if name != "" {
			refs = append(refs, domain.MediaRef{Kind: domain.MediaKindProductGalleryImage, OwnerID: productID, Name: name})
		}
	}
	return refs, rows.Err()
}

var _ domain.MediaRepository = (*MediaRepositoryPG)(nil)
