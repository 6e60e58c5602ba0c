package graphql

import (
	"context"

	"github.com/vektah/gqlparser/v2/ast"
)

// ResolveParams carries the arguments an execution engine supplies to a
// field resolver.
type ResolveParams struct {
	// Source is the parent object the field is being resolved on. For root
	// fields this is nil; for nested fields it is whatever the parent
	// resolver produced, usually a map[string]interface{}.
	Source interface{}
	// Args holds the coerced argument values for the field.
	Args map[string]interface{}
	// Info describes the field being resolved.
	Info FieldInfo
}

// FieldInfo describes the schema position of a field being resolved.
type FieldInfo struct {
	// FieldName is the name of the field.
	FieldName string
	// TypeName is the name of the parent object type.
	TypeName string
	// Field is the schema definition of the field, nil when the field is
	// not declared on the parent type (e.g. values invoked from factory
	// output maps).
	Field *ast.FieldDefinition
	// Schema is the schema being executed against.
	Schema *Schema
}

// Path returns the schema position as a FieldPath.
func (fi FieldInfo) Path() FieldPath {
	return FieldPath{TypeName: fi.TypeName, FieldName: fi.FieldName}
}

// Resolver produces the value of a single field.
type Resolver func(ctx context.Context, p ResolveParams) (interface{}, error)

// ResolverSource supplies bound field resolvers to the executor. The mock
// package's ResolverSet is the canonical implementation.
type ResolverSource interface {
	// FieldResolver returns the resolver bound to typeName.fieldName, or
	// nil when the field has no resolver (the executor then resolves the
	// field to null).
	FieldResolver(typeName, fieldName string) Resolver

	// ConcreteType selects the concrete object type for a value resolved
	// from a field of abstract (interface or union) type. It is consulted
	// only when the value itself does not carry a __typename.
	ConcreteType(abstractType string, value interface{}) string

	// ExpandList expands a list directive value returned by a resolver.
	// elem is the declared element type, which may be nil when the
	// directive was returned for a non-list field. The bool result is
	// false when v is not a list directive.
	ExpandList(ctx context.Context, v interface{}, elem *ast.Type, p ResolveParams) ([]interface{}, bool, error)
}
