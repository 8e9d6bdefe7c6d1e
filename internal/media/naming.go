package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned when a size token cannot be parsed into positive dimensions.
var ErrInvalidSize = errors.New("media: invalid size")

// SizeSpec is a target canvas in pixels.
type SizeSpec struct {
	Width  int
	Height int
}

// Token returns the canonical "WxH" form used in variant file names.
func (s SizeSpec) Token() string {
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}

func (s SizeSpec) String() string { return s.Token() }

// Valid reports whether both dimensions are positive.
func (s SizeSpec) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// ParseSize parses a "WxH" token. Surrounding spaces and an upper-case X are accepted.
func ParseSize(token string) (SizeSpec, error) {
	raw := strings.ToLower(strings.TrimSpace(token))
	w, h, ok := strings.Cut(raw, "x")
	if !ok {
		return SizeSpec{}, fmt.Errorf("%w: %q", ErrInvalidSize, token)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return SizeSpec{}, fmt.Errorf("%w: %q", ErrInvalidSize, token)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return SizeSpec{}, fmt.Errorf("%w: %q", ErrInvalidSize, token)
	}
	size := SizeSpec{Width: width, Height: height}
	if !size.Valid() {
		return SizeSpec{}, fmt.Errorf("%w: %q", ErrInvalidSize, token)
	}
	return size, nil
}

// ParseSizes parses a comma separated list of size tokens, ignoring empty entries.
func ParseSizes(list string) ([]SizeSpec, error) {
	var sizes []SizeSpec
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		size, err := ParseSize(part)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s SizeSpec) MarshalText() ([]byte, error) {
	return []byte(s.Token()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so sizes can be written as "230x160" in YAML.
func (s *SizeSpec) UnmarshalText(text []byte) error {
	size, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = size
	return nil
}

// splitRoot strips the extension from name. A leading-dot base name such as
// ".hidden" has no extension.
func splitRoot(name string) (root, ext string) {
	ext = filepath.Ext(name)
	if ext == "" || ext == filepath.Base(name) {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// SizedName maps an original name to its sized variant: {root}_{token}.{ext}.
func SizedName(original, token, ext string) string {
	root, _ := splitRoot(original)
	return root + "_" + token + "." + strings.TrimPrefix(ext, ".")
}

// NoResizeName maps an original name to its root-level variant: {root}.{ext}.
func NoResizeName(original, ext string) string {
	root, _ := splitRoot(original)
	return root + "." + strings.TrimPrefix(ext, ".")
}

// VariantName returns SizedName for a non-empty token and NoResizeName otherwise.
func VariantName(original, token, ext string) string {
	if token == "" {
		return NoResizeName(original, ext)
	}
	return SizedName(original, token, ext)
}

// OriginalMIME infers the content type of an original upload from its extension.
func OriginalMIME(name string) string {
	_, ext := splitRoot(name)
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
