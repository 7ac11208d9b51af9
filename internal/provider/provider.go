// Package provider defines TypeProvider, the minimal-but-complete
// interface the checker uses to ask structural questions about named
// message/enum types (spec §6), plus a masking decorator that restricts
// field visibility by dotted-path glob, and an in-memory reference
// implementation for tests and embedders with no real descriptor pool.
//
// The shape here — a small interface plus a decorator built on top of the
// interface rather than a concrete type — follows the same pattern as a language-provider
// abstraction layer: one seam the core depends on, many implementations
// behind it, none of which the core needs to know about.
package provider

import "github.com/oxhq/celcore/internal/types"

// FieldDecl describes one field of a message type.
type FieldDecl struct {
	// Type is the field's CEL type, already translated from wire/proto
	// representation (e.g. a proto3 "optional" scalar presented as
	// nullable-of(primitive), per spec §4.5.2).
	Type *types.Type
	// IsSet reports whether the field carries explicit-presence semantics
	// (proto3 "optional" scalar, or any message-typed field).
	IsSet bool
}

// ExtensionDecl describes a registered proto extension field.
type ExtensionDecl struct {
	MessageType string
	FieldType   *types.Type
}

// TypeProvider answers structural queries about named types without the
// checker ever needing to know how those types are stored (proto
// descriptors, reflection, a hand-built map — anything implementing this
// interface works).
type TypeProvider interface {
	// FindType resolves a fully-qualified type name to its Type (e.g. a
	// struct reference for a message, or an opaque type for a registered
	// abstract type).
	FindType(name string) (*types.Type, bool)

	// Types returns every type this provider knows about, for
	// introspection/diagnostics.
	Types() []*types.Type

	// FieldNames lists the declared field names of a struct type.
	FieldNames(structName string) ([]string, bool)

	// FieldType resolves one field of a struct type.
	FieldType(structName, field string) (*FieldDecl, bool)

	// ExtensionType resolves a fully-qualified proto extension field name.
	ExtensionType(fqExtensionName string) (*ExtensionDecl, bool)

	// EnumValue resolves a fully-qualified "pkg.Enum.VALUE" reference to
	// its numeric value.
	EnumValue(fqEnumValue string) (int64, bool)
}
