package entity

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const maxDialogTitleLength = 255

// Dialog is a practice conversation made of ordered phrases.
//
// Depending on the schema version the server identifies the category by a
// label (Category), by reference (CategoryID) or both.
type Dialog struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Category        string     `json:"category,omitempty"`
	CategoryID      *int64     `json:"category_id,omitempty"`
	DifficultyLevel Difficulty `json:"difficulty_level"`
	Description     *string    `json:"description"`
	Phrases         []Phrase   `json:"phrases"`
	CreatedAt       Timestamp  `json:"created_at"`
	UpdatedAt       Timestamp  `json:"updated_at"`
}

// UnmarshalJSON accepts both dialog shapes. Reference-style responses may
// name the category in category_name instead of category.
func (d *Dialog) UnmarshalJSON(data []byte) error {
	type plain Dialog
	var wire struct {
		plain
		CategoryName string `json:"category_name"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*d = Dialog(wire.plain)
	if d.Category == "" {
		d.Category = wire.CategoryName
	}
	if d.Phrases == nil {
		d.Phrases = []Phrase{}
	}
	return nil
}

// CategoryKey groups dialogs by category: the label when known, else the id.
func (d Dialog) CategoryKey() string {
	if d.Category != "" {
		return d.Category
	}
	if d.CategoryID != nil {
		return "#" + formatID(*d.CategoryID)
	}
	return ""
}

func (d Dialog) DescriptionText() string { return optionalString(d.Description) }

// DialogCreate is the payload for POST /dialogs.
type DialogCreate struct {
	Title           string
	Category        string
	CategoryID      *int64
	DifficultyLevel Difficulty
	Description     *string
}

// Validate validates the payload against the schema version it will be sent in.
func (c DialogCreate) Validate(v SchemaVersion) error {
	if err := validateDialogTitle(c.Title); err != nil {
		return err
	}
	if v == SchemaV1 {
		if strings.TrimSpace(c.Category) == "" {
			return ErrInvalidCategoryRef
		}
	} else if c.CategoryID == nil || *c.CategoryID <= 0 {
		return ErrInvalidCategoryRef
	}
	if !c.DifficultyLevel.OrDefault().Valid() {
		return ErrInvalidDifficulty
	}
	return nil
}

// Wire renders the request body for the given schema version.
func (c DialogCreate) Wire(v SchemaVersion) map[string]any {
	body := map[string]any{
		"title":            c.Title,
		"difficulty_level": c.DifficultyLevel.OrDefault().Encode(v),
	}
	if v == SchemaV1 {
		body["category"] = c.Category
	} else if c.CategoryID != nil {
		body["category_id"] = *c.CategoryID
	}
	if c.Description != nil {
		body["description"] = *c.Description
	}
	return body
}

// DialogUpdate is a partial update; only set fields are sent.
type DialogUpdate struct {
	Title           *string
	Category        *string
	CategoryID      *int64
	DifficultyLevel *Difficulty
	Description     *string
}

func (u DialogUpdate) IsEmpty() bool {
	return u.Title == nil && u.Category == nil && u.CategoryID == nil &&
		u.DifficultyLevel == nil && u.Description == nil
}

// Validate validates the update payload
func (u DialogUpdate) Validate() error {
	if u.IsEmpty() {
		return ErrEmptyUpdate
	}
	if u.Title != nil {
		if err := validateDialogTitle(*u.Title); err != nil {
			return err
		}
	}
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		return ErrInvalidCategoryRef
	}
	if u.CategoryID != nil && *u.CategoryID <= 0 {
		return ErrInvalidCategoryRef
	}
	if u.DifficultyLevel != nil && !u.DifficultyLevel.Valid() {
		return ErrInvalidDifficulty
	}
	return nil
}

// Wire renders the partial request body for the given schema version.
func (u DialogUpdate) Wire(v SchemaVersion) map[string]any {
	body := map[string]any{}
	if u.Title != nil {
		body["title"] = *u.Title
	}
	if v == SchemaV1 {
		if u.Category != nil {
			body["category"] = *u.Category
		}
	} else if u.CategoryID != nil {
		body["category_id"] = *u.CategoryID
	}
	if u.DifficultyLevel != nil {
		body["difficulty_level"] = u.DifficultyLevel.Encode(v)
	}
	if u.Description != nil {
		body["description"] = *u.Description
	}
	return body
}

func validateDialogTitle(title string) error {
	if strings.TrimSpace(title) == "" || utf8.RuneCountInString(title) > maxDialogTitleLength {
		return ErrInvalidDialogTitle
	}
	return nil
}
