// Package filterexpr evaluates CEL filters and order_by clauses over
// in-memory lists, e.g. `difficulty == 'Beginner' && phrases >= 3`.
package filterexpr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
)

// ValueKind describes the kind of value a field exposes.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindInt       ValueKind = "int"
	KindDouble    ValueKind = "double"
	KindBool      ValueKind = "bool"
	KindTimestamp ValueKind = "timestamp"
)

// Field exposes one attribute of T to filter and order expressions.
type Field[T any] struct {
	Kind  ValueKind
	Value func(T) any
}

// Schema whitelists the fields usable in expressions over T.
type Schema[T any] map[string]Field[T]

// Predicate is a compiled filter.
type Predicate[T any] struct {
	expr    string
	schema  Schema[T]
	program cel.Program
}

// Compile parses and type-checks expr against schema. The expression must
// evaluate to a bool.
func Compile[T any](expr string, schema Schema[T]) (*Predicate[T], error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("empty filter expression")
	}
	if len(schema) == 0 {
		return nil, errors.New("filter schema has no fields defined")
	}

	env, err := buildEnv(schema)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter must evaluate to bool, got %s", ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build program: %w", err)
	}
	return &Predicate[T]{expr: expr, schema: schema, program: program}, nil
}

func (p *Predicate[T]) String() string { return p.expr }

// Match evaluates the filter against one item.
func (p *Predicate[T]) Match(item T) (bool, error) {
	vars := make(map[string]any, len(p.schema))
	for name, field := range p.schema {
		value, err := normalize(field.Kind, field.Value(item))
		if err != nil {
			return false, fmt.Errorf("field %q: %w", name, err)
		}
		vars[name] = value
	}
	out, _, err := p.program.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", p.expr, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter %q produced %T, want bool", p.expr, out.Value())
	}
	return matched, nil
}

// Apply returns the items matching expr, keeping their order. An empty
// expression matches everything.
func Apply[T any](items []T, expr string, schema Schema[T]) ([]T, error) {
	if strings.TrimSpace(expr) == "" {
		return append([]T(nil), items...), nil
	}
	pred, err := Compile(expr, schema)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := pred.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func buildEnv[T any](schema Schema[T]) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(schema)+1)
	for name, field := range schema {
		if field.Value == nil {
			return nil, fmt.Errorf("field %q has no value accessor", name)
		}
		celType, err := celTypeForKind(field.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		opts = append(opts, cel.Variable(name, celType))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

func celTypeForKind(kind ValueKind) (*cel.Type, error) {
	switch kind {
	case KindString:
		return cel.StringType, nil
	case KindInt:
		return cel.IntType, nil
	case KindDouble:
		return cel.DoubleType, nil
	case KindBool:
		return cel.BoolType, nil
	case KindTimestamp:
		return cel.TimestampType, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %s", kind)
	}
}

// normalize coerces accessor results to the Go type CEL expects for kind.
func normalize(kind ValueKind, value any) (any, error) {
	switch kind {
	case KindString:
		switch v := value.(type) {
		case string:
			return v, nil
		case fmt.Stringer:
			return v.String(), nil
		case nil:
			return "", nil
		}
	case KindInt:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		}
	case KindDouble:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case KindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case KindTimestamp:
		if v, ok := value.(time.Time); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("expected %s value, got %T", kind, value)
}
