package entity

import (
	"strings"
	"unicode/utf8"
)

const maxCategoryNameLength = 100

// Category groups dialogs. DialogCount is derived by the server.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	DialogCount int       `json:"dialog_count"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// Label is the name as shown to staff.
func (c Category) Label() string { return DisplayName(c.Name) }

func (c Category) DescriptionText() string { return optionalString(c.Description) }

// CategoryCreate is the payload for POST /categories.
type CategoryCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Validate validates the create payload
func (c CategoryCreate) Validate() error {
	return validateCategoryName(c.Name)
}

// CategoryUpdate is a partial update; nil fields are left untouched.
type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate validates the update payload
func (u CategoryUpdate) Validate() error {
	if u.Name == nil && u.Description == nil {
		return ErrEmptyUpdate
	}
	if u.Name != nil {
		return validateCategoryName(*u.Name)
	}
	return nil
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" || utf8.RuneCountInString(name) > maxCategoryNameLength {
		return ErrInvalidCategoryName
	}
	return nil
}
