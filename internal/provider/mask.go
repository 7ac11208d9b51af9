package provider

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/celcore/internal/types"
)

// PromotedField is a root-level field a FieldMasker exposes for promotion
// to a top-level variable declaration (spec §6: "may promote top-level
// masked fields to variable declarations").
type PromotedField struct {
	Name string
	Type *types.Type
}

// FieldMasker decorates a TypeProvider to restrict which fields of one
// designated root struct type are visible, per a set of dotted field-path
// masks ("a.b.c", with "*" meaning "all fields"). Masks are matched with
// doublestar glob semantics against the dotted path rewritten as a
// slash-separated path, so "a.*.c" and "a.**" behave the way a filesystem
// glob would.
//
// Only the root struct's own fields are filtered; FieldNames/FieldType
// calls against any other struct type pass straight through to the
// wrapped provider. This matches the typical use (hide parts of a single
// top-level request/context message) without requiring the provider
// interface to carry full path context through arbitrarily deep recursive
// lookups.
type FieldMasker struct {
	TypeProvider
	rootStruct string
	masks      []string
	allowAll   bool
}

// NewFieldMasker wraps inner, restricting rootStruct's visible fields to
// those matching masks.
func NewFieldMasker(inner TypeProvider, rootStruct string, masks []string) *FieldMasker {
	allowAll := false
	for _, m := range masks {
		if m == "*" {
			allowAll = true
			break
		}
	}
	return &FieldMasker{TypeProvider: inner, rootStruct: rootStruct, masks: masks, allowAll: allowAll}
}

func (m *FieldMasker) FieldNames(structName string) ([]string, bool) {
	names, ok := m.TypeProvider.FieldNames(structName)
	if !ok || structName != m.rootStruct || m.allowAll {
		return names, ok
	}
	filtered := make([]string, 0, len(names))
	for _, n := range names {
		if m.fieldVisible(n) {
			filtered = append(filtered, n)
		}
	}
	return filtered, true
}

func (m *FieldMasker) FieldType(structName, field string) (*FieldDecl, bool) {
	if structName == m.rootStruct && !m.allowAll && !m.fieldVisible(field) {
		return nil, false
	}
	return m.TypeProvider.FieldType(structName, field)
}

// PromotedFields returns the root struct's visible fields as candidates
// for promotion to top-level variable declarations.
func (m *FieldMasker) PromotedFields() []PromotedField {
	names, ok := m.FieldNames(m.rootStruct)
	if !ok {
		return nil
	}
	out := make([]PromotedField, 0, len(names))
	for _, n := range names {
		decl, ok := m.TypeProvider.FieldType(m.rootStruct, n)
		if !ok {
			continue
		}
		out = append(out, PromotedField{Name: n, Type: decl.Type})
	}
	return out
}

func (m *FieldMasker) fieldVisible(field string) bool {
	path := toSlashPath(field)
	for _, mask := range m.masks {
		if mask == "*" || mask == field {
			return true
		}
		if strings.HasPrefix(mask, field+".") {
			// A deeper mask implicitly keeps its ancestor field visible
			// so the checker can still select into it.
			return true
		}
		if ok, _ := doublestar.Match(toSlashPath(mask), path); ok {
			return true
		}
	}
	return false
}

func toSlashPath(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}
