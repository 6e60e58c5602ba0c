package graphql

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Schema wraps a parsed gqlparser schema with the accessors the mock
// installer and executor need.
type Schema struct {
	ast    *ast.Schema
	source string
}

// ParseSchema parses a GraphQL SDL string and returns a Schema.
func ParseSchema(sdl string) (*Schema, error) {
	return ParseSchemaSources(&ast.Source{Name: "schema", Input: sdl})
}

// ParseSchemaFile parses a GraphQL schema from a single file.
func ParseSchemaFile(path string) (*Schema, error) {
	return ParseSchemaFiles(path)
}

// ParseSchemaFiles parses a GraphQL schema split across multiple SDL files.
// Definitions and extensions may be spread across the files in any order.
func ParseSchemaFiles(paths ...string) (*Schema, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schema files given")
	}

	sources := make([]*ast.Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
		}
		sources = append(sources, &ast.Source{Name: path, Input: string(data)})
	}

	return ParseSchemaSources(sources...)
}

// ParseSchemaSources parses a schema from pre-built gqlparser sources.
func ParseSchemaSources(sources ...*ast.Source) (*Schema, error) {
	schema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}

	var sdl strings.Builder
	for i, src := range sources {
		if i > 0 {
			sdl.WriteString("\n")
		}
		sdl.WriteString(src.Input)
	}

	return &Schema{ast: schema, source: sdl.String()}, nil
}

// AST returns the underlying gqlparser schema.
func (s *Schema) AST() *ast.Schema {
	return s.ast
}

// Source returns the concatenated SDL source the schema was parsed from.
func (s *Schema) Source() string {
	return s.source
}

// GetType returns a type definition by name, or nil if not found.
func (s *Schema) GetType(name string) *ast.Definition {
	return s.ast.Types[name]
}

// GetField returns a field definition by type and field name, or nil.
func (s *Schema) GetField(typeName, fieldName string) *ast.FieldDefinition {
	def := s.GetType(typeName)
	if def == nil {
		return nil
	}
	for _, field := range def.Fields {
		if field.Name == fieldName {
			return field
		}
	}
	return nil
}

// ObjectTypes returns all object type definitions in sorted name order,
// excluding the built-in introspection types.
func (s *Schema) ObjectTypes() []*ast.Definition {
	var defs []*ast.Definition
	for name, def := range s.ast.Types {
		if def.Kind == ast.Object && !isIntrospectionType(name) {
			defs = append(defs, def)
		}
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// ListTypes returns all type names in sorted order, optionally filtered by kind.
func (s *Schema) ListTypes(kinds ...ast.DefinitionKind) []string {
	names := make([]string, 0, len(s.ast.Types))
	for name, def := range s.ast.Types {
		if len(kinds) == 0 {
			names = append(names, name)
			continue
		}
		for _, k := range kinds {
			if def.Kind == k {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// RootType returns the definition of the root type for an operation kind,
// or nil if the schema does not define it.
func (s *Schema) RootType(op ast.Operation) *ast.Definition {
	switch op {
	case ast.Query:
		return s.ast.Query
	case ast.Mutation:
		return s.ast.Mutation
	case ast.Subscription:
		return s.ast.Subscription
	default:
		return nil
	}
}

// HasQuery reports whether the schema has a query type with fields.
func (s *Schema) HasQuery() bool {
	return s.ast.Query != nil && len(s.ast.Query.Fields) > 0
}

// HasMutation reports whether the schema has a mutation type with fields.
func (s *Schema) HasMutation() bool {
	return s.ast.Mutation != nil && len(s.ast.Mutation.Fields) > 0
}

// HasSubscription reports whether the schema has a subscription type with fields.
func (s *Schema) HasSubscription() bool {
	return s.ast.Subscription != nil && len(s.ast.Subscription.Fields) > 0
}

// Validate performs semantic checks beyond what gqlparser enforces during
// parsing. A Query type with at least one field is required.
func (s *Schema) Validate() error {
	if !s.HasQuery() {
		return fmt.Errorf("schema must define a Query type with at least one field")
	}
	return nil
}

// IsScalarType reports whether name is a built-in or custom scalar.
func (s *Schema) IsScalarType(name string) bool {
	switch name {
	case "Int", "Float", "String", "Boolean", "ID":
		return true
	}
	def := s.GetType(name)
	return def != nil && def.Kind == ast.Scalar
}

// IsEnumType reports whether name is an enum type.
func (s *Schema) IsEnumType(name string) bool {
	def := s.GetType(name)
	return def != nil && def.Kind == ast.Enum
}

// IsObjectType reports whether name is an object type.
func (s *Schema) IsObjectType(name string) bool {
	def := s.GetType(name)
	return def != nil && def.Kind == ast.Object
}

// IsLeafType reports whether name resolves to a leaf value (scalar or enum).
func (s *Schema) IsLeafType(name string) bool {
	return s.IsScalarType(name) || s.IsEnumType(name)
}

// IsAbstractType reports whether name is an interface or union type.
func (s *Schema) IsAbstractType(name string) bool {
	def := s.GetType(name)
	return def != nil && (def.Kind == ast.Interface || def.Kind == ast.Union)
}

// EnumValues returns the value names of an enum type, or nil if name is not
// an enum.
func (s *Schema) EnumValues(name string) []string {
	def := s.GetType(name)
	if def == nil || def.Kind != ast.Enum {
		return nil
	}
	values := make([]string, 0, len(def.EnumValues))
	for _, v := range def.EnumValues {
		values = append(values, v.Name)
	}
	return values
}

// PossibleTypes returns the concrete object types an abstract type can
// resolve to: union members for a union, implementors for an interface.
// Returns nil for non-abstract types.
func (s *Schema) PossibleTypes(name string) []string {
	def := s.GetType(name)
	if def == nil {
		return nil
	}

	var names []string
	switch def.Kind {
	case ast.Union:
		names = append(names, def.Types...)
	case ast.Interface:
		for typeName, candidate := range s.ast.Types {
			if candidate.Kind != ast.Object {
				continue
			}
			for _, iface := range candidate.Interfaces {
				if iface == name {
					names = append(names, typeName)
					break
				}
			}
		}
	default:
		return nil
	}
	sort.Strings(names)
	return names
}

// isIntrospectionType reports whether a type name belongs to the built-in
// introspection schema (double-underscore prefix).
func isIntrospectionType(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}

// isIntrospectionField reports whether a field name is a built-in
// introspection field.
func isIntrospectionField(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}
