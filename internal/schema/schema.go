// Package schema validates and coerces untyped request documents against
// declarative field rules before they reach business logic.
package schema

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/and161185/bookstore-api/internal/errs"
)

// Kind is the expected JSON type of a field.
type Kind int

const (
	String Kind = iota
	Number
	Integer
	StringList
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "a number"
	case Integer:
		return "an integer"
	case StringList:
		return "a list of strings"
	default:
		return "a string"
	}
}

// Field declares one accepted key. Rules use validator tag syntax.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Rules    string
	Lower    bool // lower-case string values after trimming
	NoTrim   bool // keep surrounding whitespace (passwords)
}

// Schema is an ordered set of field rules.
type Schema struct {
	Name    string
	Fields  []Field
	partial bool
}

// Document is a validated, coerced input document.
type Document map[string]any

// Violation describes why a single field was rejected.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated field of one document.
type ValidationError struct {
	Schema     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+" "+v.Message)
	}
	return fmt.Sprintf("%s: %s", e.Schema, strings.Join(parts, "; "))
}

// Unwrap lets callers match errs.ErrValidation.
func (e *ValidationError) Unwrap() error { return errs.ErrValidation }

var validate = validator.New()

// New builds a schema.
func New(name string, fields ...Field) Schema {
	return Schema{Name: name, Fields: fields}
}

// Partial returns the update variant of s: the same fields and rules, none
// required, and at least one field must be present.
func (s Schema) Partial() Schema {
	fields := make([]Field, len(s.Fields))
	for i, f := range s.Fields {
		f.Required = false
		fields[i] = f
	}
	return Schema{Name: s.Name + ".partial", Fields: fields, partial: true}
}

// Pick returns a schema restricted to the named fields, keeping their rules.
func (s Schema) Pick(name string, names ...string) Schema {
	out := Schema{Name: name, partial: s.partial}
	for _, n := range names {
		for _, f := range s.Fields {
			if f.Name == n {
				out.Fields = append(out.Fields, f)
			}
		}
	}
	return out
}

// Validate checks in against s and returns the coerced document, or a
// *ValidationError naming every violated field.
func (s Schema) Validate(in map[string]any) (Document, error) {
	out := make(Document, len(s.Fields))
	var violations []Violation

	known := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		known[f.Name] = struct{}{}

		raw, present := in[f.Name]
		if !present {
			if f.Required {
				violations = append(violations, Violation{Field: f.Name, Message: "is required"})
			}
			continue
		}

		v, err := coerce(f, raw)
		if err != nil {
			violations = append(violations, Violation{Field: f.Name, Message: err.Error()})
			continue
		}
		if f.Required && isEmpty(v) {
			violations = append(violations, Violation{Field: f.Name, Message: "is required"})
			continue
		}
		if f.Rules != "" {
			if err := validate.Var(v, f.Rules); err != nil {
				violations = append(violations, Violation{Field: f.Name, Message: describe(err)})
				continue
			}
		}
		out[f.Name] = v
	}

	var unknown []string
	for k := range in {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		violations = append(violations, Violation{Field: k, Message: "is not allowed"})
	}

	if s.partial && len(in) == 0 {
		violations = append(violations, Violation{Field: "body", Message: "must contain at least one field"})
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Schema: s.Name, Violations: violations}
	}
	return out, nil
}

func coerce(f Field, raw any) (any, error) {
	mismatch := fmt.Errorf("must be %s", f.Kind)
	switch f.Kind {
	case String:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch
		}
		if !f.NoTrim {
			s = strings.TrimSpace(s)
		}
		if f.Lower {
			s = strings.ToLower(s)
		}
		return s, nil

	case Number, Integer:
		var n float64
		switch v := raw.(type) {
		case float64:
			n = v
		case int:
			n = float64(v)
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				return nil, mismatch
			}
			parsed, err := cast.ToFloat64E(v)
			if err != nil {
				return nil, mismatch
			}
			n = parsed
		default:
			return nil, mismatch
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, mismatch
		}
		if f.Kind == Integer {
			if n != math.Trunc(n) {
				return nil, mismatch
			}
			return int(n), nil
		}
		return n, nil

	case StringList:
		var items []any
		switch v := raw.(type) {
		case []any:
			items = v
		case []string:
			return append([]string(nil), v...), nil
		default:
			return nil, mismatch
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			s, ok := it.(string)
			if !ok {
				return nil, mismatch
			}
			out = append(out, strings.TrimSpace(s))
		}
		return out, nil
	}
	return nil, mismatch
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case string:
		return x == ""
	case []string:
		return len(x) == 0
	}
	return false
}

func describe(err error) string {
	ves, ok := err.(validator.ValidationErrors)
	if !ok || len(ves) == 0 {
		return err.Error()
	}
	fe := ves[0]
	numeric := fe.Kind() != reflect.String && fe.Kind() != reflect.Slice
	switch fe.Tag() {
	case "min", "gte":
		if numeric {
			return "must be greater than or equal to " + fe.Param()
		}
		return "must contain at least " + fe.Param() + " items/characters"
	case "max", "lte":
		if numeric {
			return "must be less than or equal to " + fe.Param()
		}
		return "must contain at most " + fe.Param() + " items/characters"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of [" + strings.ReplaceAll(fe.Param(), " ", ", ") + "]"
	case "isbn":
		return "must be a valid ISBN-10 or ISBN-13"
	default:
		return "failed rule " + fe.Tag()
	}
}
