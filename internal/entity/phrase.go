package entity

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxReferenceTextLength = 1000

// Phrase is a single utterance a learner practices. It belongs to exactly
// one dialog for its whole life.
type Phrase struct {
	ID                    int64      `json:"id"`
	DialogID              int64      `json:"dialog_id"`
	ReferenceText         string     `json:"reference_text"`
	PhoneticTranscription *string    `json:"phonetic_transcription"`
	Order                 int        `json:"order"`
	Difficulty            Difficulty `json:"difficulty"`
}

func (p Phrase) Phonetic() string { return optionalString(p.PhoneticTranscription) }

// PhraseCreate is the payload for POST /phrases.
type PhraseCreate struct {
	DialogID              int64       `json:"dialog_id"`
	ReferenceText         string      `json:"reference_text"`
	PhoneticTranscription *string     `json:"phonetic_transcription,omitempty"`
	Order                 *int        `json:"order,omitempty"`
	Difficulty            *Difficulty `json:"difficulty,omitempty"`
}

// Validate validates the create payload
func (c PhraseCreate) Validate() error {
	if c.DialogID <= 0 {
		return ErrInvalidDialogID
	}
	if err := validateReferenceText(c.ReferenceText); err != nil {
		return err
	}
	if c.Order != nil && *c.Order < 0 {
		return ErrInvalidPhraseOrder
	}
	if c.Difficulty != nil && !c.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	return nil
}

// PhraseUpdate is a partial update. The owning dialog cannot change.
type PhraseUpdate struct {
	ReferenceText         *string     `json:"reference_text,omitempty"`
	PhoneticTranscription *string     `json:"phonetic_transcription,omitempty"`
	Order                 *int        `json:"order,omitempty"`
	Difficulty            *Difficulty `json:"difficulty,omitempty"`
}

// Validate validates the update payload
func (u PhraseUpdate) Validate() error {
	if u.ReferenceText == nil && u.PhoneticTranscription == nil && u.Order == nil && u.Difficulty == nil {
		return ErrEmptyUpdate
	}
	if u.ReferenceText != nil {
		if err := validateReferenceText(*u.ReferenceText); err != nil {
			return err
		}
	}
	if u.Order != nil && *u.Order < 0 {
		return ErrInvalidPhraseOrder
	}
	if u.Difficulty != nil && !u.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	return nil
}

func validateReferenceText(text string) error {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) > maxReferenceTextLength {
		return ErrInvalidReferenceText
	}
	return nil
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
