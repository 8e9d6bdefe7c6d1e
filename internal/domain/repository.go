package domain

import "context"

// MediaRepository enumerates stored media names from the catalogue tables.
type MediaRepository interface {
	List(ctx context.Context, filter MediaFilter) ([]MediaRef, error)
}

// VariantJobRepository persists the variant job queue.
type VariantJobRepository interface {
	Enqueue(ctx context.Context, ref MediaRef) (*VariantJob, error)
	// Claim returns ErrNoJobAvailable when the queue is empty.
	Claim(ctx context.Context) (*VariantJob, error)
	Complete(ctx context.Context, jobID string, status JobStatus, errMsg string) error
}

// ProductRepository resolves products for URL redirects.
type ProductRepository interface {
	// PathBySlug returns the current product path, e.g. "/mushrooms/b-plus/".
	PathBySlug(ctx context.Context, slug string) (string, error)
}
