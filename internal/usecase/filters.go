package usecase

import (
	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/pkg/filterexpr"
)

// CategoryFields are the names usable in category filter and order clauses.
var CategoryFields = filterexpr.Schema[entity.Category]{
	"id":           {Kind: filterexpr.KindInt, Value: func(c entity.Category) any { return c.ID }},
	"name":         {Kind: filterexpr.KindString, Value: func(c entity.Category) any { return c.Name }},
	"description":  {Kind: filterexpr.KindString, Value: func(c entity.Category) any { return c.DescriptionText() }},
	"dialog_count": {Kind: filterexpr.KindInt, Value: func(c entity.Category) any { return c.DialogCount }},
	"created_at":   {Kind: filterexpr.KindTimestamp, Value: func(c entity.Category) any { return c.CreatedAt.Time }},
}

// DialogFields are the names usable in dialog filter and order clauses.
// category_id is 0 for label-only dialogs.
var DialogFields = filterexpr.Schema[entity.Dialog]{
	"id":       {Kind: filterexpr.KindInt, Value: func(d entity.Dialog) any { return d.ID }},
	"title":    {Kind: filterexpr.KindString, Value: func(d entity.Dialog) any { return d.Title }},
	"category": {Kind: filterexpr.KindString, Value: func(d entity.Dialog) any { return d.Category }},
	"category_id": {Kind: filterexpr.KindInt, Value: func(d entity.Dialog) any {
		if d.CategoryID == nil {
			return int64(0)
		}
		return *d.CategoryID
	}},
	"difficulty":  {Kind: filterexpr.KindString, Value: func(d entity.Dialog) any { return string(d.DifficultyLevel) }},
	"description": {Kind: filterexpr.KindString, Value: func(d entity.Dialog) any { return d.DescriptionText() }},
	"phrases":     {Kind: filterexpr.KindInt, Value: func(d entity.Dialog) any { return len(d.Phrases) }},
	"created_at":  {Kind: filterexpr.KindTimestamp, Value: func(d entity.Dialog) any { return d.CreatedAt.Time }},
	"updated_at":  {Kind: filterexpr.KindTimestamp, Value: func(d entity.Dialog) any { return d.UpdatedAt.Time }},
}

// PhraseFields are the names usable in phrase filter and order clauses.
var PhraseFields = filterexpr.Schema[entity.Phrase]{
	"id":         {Kind: filterexpr.KindInt, Value: func(p entity.Phrase) any { return p.ID }},
	"dialog_id":  {Kind: filterexpr.KindInt, Value: func(p entity.Phrase) any { return p.DialogID }},
	"text":       {Kind: filterexpr.KindString, Value: func(p entity.Phrase) any { return p.ReferenceText }},
	"phonetic":   {Kind: filterexpr.KindString, Value: func(p entity.Phrase) any { return p.Phonetic() }},
	"order":      {Kind: filterexpr.KindInt, Value: func(p entity.Phrase) any { return p.Order }},
	"difficulty": {Kind: filterexpr.KindString, Value: func(p entity.Phrase) any { return string(p.Difficulty) }},
}

// Query narrows and orders a mirrored list. Empty fields are no-ops.
type Query struct {
	Filter  string
	OrderBy string
}

// Select applies q to items using schema.
func Select[T any](items []T, q Query, schema filterexpr.Schema[T]) ([]T, error) {
	filtered, err := filterexpr.Apply(items, q.Filter, schema)
	if err != nil {
		return nil, err
	}
	return filterexpr.Sort(filtered, q.OrderBy, schema)
}
