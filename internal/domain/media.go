package domain

import (
	"fmt"
	"path"
	"strings"
)

// MediaKind identifies which catalogue field (or static location) a media file belongs to.
type MediaKind string

const (
	MediaKindCategoryImage       MediaKind = "category_image"
	MediaKindCategorySEOImage    MediaKind = "category_seo_image"
	MediaKindProductImage        MediaKind = "product_image"
	MediaKindProductCardImage    MediaKind = "product_card_image"
	MediaKindProductGalleryImage MediaKind = "product_gallery_image"
	MediaKindStaticIcon          MediaKind = "static_icon"
)

// MediaKinds lists every kind in a stable order.
func MediaKinds() []MediaKind {
	return []MediaKind{
		MediaKindCategoryImage,
		MediaKindCategorySEOImage,
		MediaKindProductImage,
		MediaKindProductCardImage,
		MediaKindProductGalleryImage,
		MediaKindStaticIcon,
	}
}

// ParseMediaKind validates s.
func ParseMediaKind(s string) (MediaKind, error) {
	k := MediaKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range MediaKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidMediaRef, s)
}

// IsCategory reports whether the kind belongs to a category row.
func (k MediaKind) IsCategory() bool {
	return k == MediaKindCategoryImage || k == MediaKindCategorySEOImage
}

// MediaRef points at one stored original: its kind, the owning row and the
// storage name relative to the media root.
type MediaRef struct {
	Kind    MediaKind `json:"kind"`
	OwnerID int64     `json:"owner_id,omitempty"`
	Name    string    `json:"name"`
}

// Validate normalises Name and checks the kind.
func (r *MediaRef) Validate() error {
	kind, err := ParseMediaKind(string(r.Kind))
	if err != nil {
		return err
	}
	r.Kind = kind
	name := strings.TrimLeft(strings.ReplaceAll(strings.TrimSpace(r.Name), "\\", "/"), "/")
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMediaRef)
	}
	name = path.Clean(name)
	if name == ".." || strings.HasPrefix(name, "../") {
		return fmt.Errorf("%w: name escapes media root", ErrInvalidMediaRef)
	}
	r.Name = name
	return nil
}

func (r MediaRef) String() string {
	if r.OwnerID > 0 {
		return fmt.Sprintf("%s#%d:%s", r.Kind, r.OwnerID, r.Name)
	}
	return fmt.Sprintf("%s:%s", r.Kind, r.Name)
}

// MediaFilter narrows MediaRepository.List. Empty fields match everything.
type MediaFilter struct {
	Kinds []MediaKind
	IDs   []int64
}

// Includes reports whether kind passes the filter.
func (f MediaFilter) Includes(kind MediaKind) bool {
	if len(f.Kinds) == 0 {
		return true
	}
	for _, k := range f.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
