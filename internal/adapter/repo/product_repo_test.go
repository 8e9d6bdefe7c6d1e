package repo

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

func TestProductPathBySlug(t *testing.T) {
	db := &fakeDB{row: map[string]simpleRow{
		"from product p": assignRow("mushrooms", "b-plus"),
	}}
	repo := NewProductRepository(db)

	got, err := repo.PathBySlug(context.Background(), " b-plus ")
	if err != nil {
		t.Fatalf("PathBySlug: %v", err)
	}
	if got != "/mushrooms/b-plus/" {
		t.Fatalf("path = %q", got)
	}
	if len(db.calls) != 1 || db.calls[0].args[0] != "b-plus" {
		t.Fatalf("calls = %#v", db.calls)
	}
}

func TestProductPathBySlugNotFound(t *testing.T) {
	repo := NewProductRepository(&fakeDB{})
	for _, slug := range []string{"", "missing"} {
		if _, err := repo.PathBySlug(context.Background(), slug); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("PathBySlug(%q) err = %v, want ErrNotFound", slug, err)
		}
	}

	orphan := &fakeDB{row: map[string]simpleRow{"from product p": assignRow("", "x")}}
	if _, err := NewProductRepository(orphan).PathBySlug(context.Background(), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("product without category err = %v, want ErrNotFound", err)
	}
}
