package filterexpr

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

type orderKey struct {
	Field string
	Desc  bool
}

// parseOrderBy accepts "field [asc|desc][, field [asc|desc]]".
func parseOrderBy[T any](raw string, schema Schema[T]) ([]orderKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	segments := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(segments))
	keys := make([]orderKey, 0, 2)
	for _, seg := range segments {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if _, ok := schema[key]; !ok {
			return nil, fmt.Errorf("field %q cannot be used for ordering", key)
		}

		var desc bool
		switch len(parts) {
		case 1:
		case 2:
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return nil, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
			}
		default:
			return nil, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}

		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate order key %q", key)
		}
		seen[key] = struct{}{}
		if len(keys) == 2 {
			return nil, errors.New("order_by supports at most two keys")
		}
		keys = append(keys, orderKey{Field: key, Desc: desc})
	}
	return keys, nil
}

// Sort returns a copy of items ordered by raw. Ties keep their original
// relative order, so an empty clause leaves the list as the server sent it.
func Sort[T any](items []T, raw string, schema Schema[T]) ([]T, error) {
	keys, err := parseOrderBy(raw, schema)
	if err != nil {
		return nil, fmt.Errorf("order_by: %w", err)
	}
	out := append([]T(nil), items...)
	if len(keys) == 0 {
		return out, nil
	}

	var cmpErr error
	slices.SortStableFunc(out, func(a, b T) int {
		for _, key := range keys {
			field := schema[key.Field]
			c, err := compareValues(field.Kind, field.Value(a), field.Value(b))
			if err != nil && cmpErr == nil {
				cmpErr = fmt.Errorf("field %q: %w", key.Field, err)
			}
			if c == 0 {
				continue
			}
			if key.Desc {
				return -c
			}
			return c
		}
		return 0
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	return out, nil
}

func compareValues(kind ValueKind, a, b any) (int, error) {
	left, err := normalize(kind, a)
	if err != nil {
		return 0, err
	}
	right, err := normalize(kind, b)
	if err != nil {
		return 0, err
	}
	switch kind {
	case KindString:
		return strings.Compare(strings.ToLower(left.(string)), strings.ToLower(right.(string))), nil
	case KindInt:
		return cmp.Compare(left.(int64), right.(int64)), nil
	case KindDouble:
		return cmp.Compare(left.(float64), right.(float64)), nil
	case KindBool:
		l, r := left.(bool), right.(bool)
		switch {
		case l == r:
			return 0, nil
		case !l:
			return -1, nil
		default:
			return 1, nil
		}
	case KindTimestamp:
		return left.(time.Time).Compare(right.(time.Time)), nil
	default:
		return 0, fmt.Errorf("unsupported field kind %s", kind)
	}
}
