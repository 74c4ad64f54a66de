package entity

import "errors"

// Domain errors shared by the API client, the stores and the console forms.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidCategoryName  = errors.New("invalid category name")
	ErrInvalidDialogTitle   = errors.New("invalid dialog title")
	ErrInvalidDialogID      = errors.New("invalid dialog ID")
	ErrInvalidCategoryRef   = errors.New("invalid category reference")
	ErrInvalidReferenceText = errors.New("invalid phrase reference text")
	ErrInvalidPhraseOrder   = errors.New("invalid phrase order")
	ErrInvalidDifficulty    = errors.New("invalid difficulty level")
	ErrInvalidUserID        = errors.New("invalid user ID")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrUnsupportedSchema    = errors.New("unsupported schema version")
	ErrEmptyUpdate          = errors.New("update carries no changes")
)
