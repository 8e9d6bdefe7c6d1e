package domain

import (
	"errors"
	"testing"
)

func TestMediaRefValidate(t *testing.T) {
	tests := []struct {
		name     string
		ref      MediaRef
		wantName string
		wantErr  bool
	}{
		{name: "plain", ref: MediaRef{Kind: "category_image", Name: "categories_images/cat.png"}, wantName: "categories_images/cat.png"},
		{name: "leading slash and case", ref: MediaRef{Kind: " Product_Image ", Name: "/products//x.jpg"}, wantName: "products/x.jpg"},
		{name: "windows separators", ref: MediaRef{Kind: "product_card_image", Name: `products\cards\x.jpg`}, wantName: "products/cards/x.jpg"},
		{name: "unknown kind", ref: MediaRef{Kind: "poster", Name: "x.png"}, wantErr: true},
		{name: "empty name", ref: MediaRef{Kind: "static_icon"}, wantErr: true},
		{name: "traversal", ref: MediaRef{Kind: "static_icon", Name: "../../etc/passwd"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ref := tc.ref
			err := ref.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidMediaRef) {
					t.Fatalf("Validate error = %v, want ErrInvalidMediaRef", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
			if ref.Name != tc.wantName {
				t.Fatalf("Name = %q, want %q", ref.Name, tc.wantName)
			}
		})
	}
}

func TestMediaFilterIncludes(t *testing.T) {
	if !(MediaFilter{}).Includes(MediaKindStaticIcon) {
		t.Fatalf("empty filter should include everything")
	}
	f := MediaFilter{Kinds: []MediaKind{MediaKindCategoryImage}}
	if !f.Includes(MediaKindCategoryImage) || f.Includes(MediaKindProductImage) {
		t.Fatalf("filter mismatch")
	}
	if !MediaKindCategorySEOImage.IsCategory() || MediaKindProductImage.IsCategory() {
		t.Fatalf("IsCategory mismatch")
	}
}
