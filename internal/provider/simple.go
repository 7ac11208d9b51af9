package provider

import "github.com/oxhq/celcore/internal/types"

// SimpleProvider is an in-memory TypeProvider for tests and embedders that
// have no real proto descriptor pool to plug in. It is safe for concurrent
// reads once built; Register* methods are not safe to call concurrently
// with lookups (build it up-front, then share it read-only, matching the
// "immutable after build" posture the rest of the core follows, spec §5).
type SimpleProvider struct {
	structs    map[string]map[string]*FieldDecl
	enumValues map[string]int64
	extensions map[string]*ExtensionDecl
}

// NewSimpleProvider returns an empty provider ready for registration.
func NewSimpleProvider() *SimpleProvider {
	return &SimpleProvider{
		structs:    make(map[string]map[string]*FieldDecl),
		enumValues: make(map[string]int64),
		extensions: make(map[string]*ExtensionDecl),
	}
}

// RegisterStruct declares a message type and its fields.
func (p *SimpleProvider) RegisterStruct(name string, fields map[string]*FieldDecl) {
	p.structs[name] = fields
}

// RegisterEnumValue declares one fully-qualified enum value.
func (p *SimpleProvider) RegisterEnumValue(fqName string, value int64) {
	p.enumValues[fqName] = value
}

// RegisterExtension declares a proto extension field.
func (p *SimpleProvider) RegisterExtension(fqExtensionName string, decl *ExtensionDecl) {
	p.extensions[fqExtensionName] = decl
}

func (p *SimpleProvider) FindType(name string) (*types.Type, bool) {
	if _, ok := p.structs[name]; ok {
		return types.NewStruct(name), true
	}
	return nil, false
}

func (p *SimpleProvider) Types() []*types.Type {
	out := make([]*types.Type, 0, len(p.structs))
	for name := range p.structs {
		out = append(out, types.NewStruct(name))
	}
	return out
}

func (p *SimpleProvider) FieldNames(structName string) ([]string, bool) {
	fields, ok := p.structs[structName]
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names, true
}

func (p *SimpleProvider) FieldType(structName, field string) (*FieldDecl, bool) {
	fields, ok := p.structs[structName]
	if !ok {
		return nil, false
	}
	decl, ok := fields[field]
	return decl, ok
}

func (p *SimpleProvider) ExtensionType(fqExtensionName string) (*ExtensionDecl, bool) {
	decl, ok := p.extensions[fqExtensionName]
	return decl, ok
}

func (p *SimpleProvider) EnumValue(fqEnumValue string) (int64, bool) {
	v, ok := p.enumValues[fqEnumValue]
	return v, ok
}
