package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// SchemaVersion selects which dialog wire shape the upstream API speaks.
//
// v1 dialogs carry a free-text category label and lowercase difficulty.
// v2 dialogs reference a category by id, use capitalized difficulty and
// come with a categories API.
type SchemaVersion string

const (
	SchemaV1 SchemaVersion = "v1"
	SchemaV2 SchemaVersion = "v2"

	DefaultSchemaVersion = SchemaV2
)

func ParseSchemaVersion(raw string) (SchemaVersion, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "v2", "2":
		return SchemaV2, nil
	case "v1", "1":
		return SchemaV1, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSchema, raw)
	}
}

// HasCategoryAPI reports whether the categories endpoints exist.
func (v SchemaVersion) HasCategoryAPI() bool { return v == SchemaV2 }

func (v SchemaVersion) String() string { return string(v) }

// MigrateDialogs upgrades dialogs to the v2 shape: every dialog ends up with
// both a category id and a label. Labels are resolved against categories by
// exact name. A label with no matching category fails the whole migration so
// that no dialog silently loses its category.
func MigrateDialogs(dialogs []Dialog, categories []Category) ([]Dialog, error) {
	byName := make(map[string]Category, len(categories))
	byID := make(map[int64]Category, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
		byID[c.ID] = c
	}

	out := make([]Dialog, 0, len(dialogs))
	for _, d := range dialogs {
		switch {
		case d.CategoryID != nil:
			if c, ok := byID[*d.CategoryID]; ok && d.Category == "" {
				d.Category = c.Name
			}
		case d.Category != "":
			c, ok := byName[d.Category]
			if !ok {
				return nil, fmt.Errorf("%w: dialog %d references %q", ErrUnknownCategory, d.ID, d.Category)
			}
			id := c.ID
			d.CategoryID = &id
		default:
			return nil, fmt.Errorf("%w: dialog %d has no category", ErrUnknownCategory, d.ID)
		}
		out = append(out, d)
	}
	return out, nil
}

// ResolveCategoryID accepts either a numeric id or a category name (exact,
// then display form) and returns the matching category id.
func ResolveCategoryID(ref string, categories []Category) (int64, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, ErrInvalidCategoryRef
	}
	if numeric, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, c := range categories {
			if c.ID == numeric {
				return c.ID, nil
			}
		}
		return 0, fmt.Errorf("%w: id %d", ErrUnknownCategory, numeric)
	}
	for _, c := range categories {
		if c.Name == ref {
			return c.ID, nil
		}
	}
	for _, c := range categories {
		if DisplayName(c.Name) == ref {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, ref)
}
