package mock

import (
	"context"
	"fmt"
	mathrand "math/rand/v2"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/getmockd/gqlmock/pkg/graphql"
)

// Fn synthesizes the value of a single field. It receives the same
// arguments an execution engine supplies to any resolver: parent source,
// coerced field arguments, and field metadata.
type Fn = graphql.Resolver

// TypeMock configures synthesis for one named type.
type TypeMock struct {
	// Value is the type-level factory, invoked whenever a field declares
	// this type and has no per-field factory. For object types it usually
	// returns a map[string]interface{} whose entries override individual
	// fields; unlisted fields fall back to their own synthesis. Install
	// rejects a Value on a root operation type that no field declares.
	Value Fn
	// Fields maps field names of an object type to per-field factories.
	// These take priority over everything else for that field.
	Fields map[string]Fn
}

// Map is the mock configuration: an explicit typed mapping from type name
// to its synthesis configuration, validated against the schema at install
// time.
type Map map[string]TypeMock

// Value returns a factory that always produces v. Convenient for fixed
// overrides:
//
//	mock.Map{"Person": {Fields: map[string]mock.Fn{"age": mock.Value(42)}}}
func Value(v interface{}) Fn {
	return func(context.Context, graphql.ResolveParams) (interface{}, error) {
		return v, nil
	}
}

// defaultListLen is the length of synthesized lists when no List directive
// or WithListLength option says otherwise.
const defaultListLen = 2

// options holds Install configuration.
type options struct {
	seed     *uint64
	base     map[string]graphql.Resolver
	preserve bool
	listMin  int
	listMax  int
}

// Option configures Install.
type Option func(*options)

// WithSeed makes all synthesis deterministic by driving it from a PCG PRNG
// seeded with the given value.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithResolvers supplies pre-existing field resolvers, keyed by
// "Type.field" path. They are only consulted when WithPreserveResolvers is
// enabled.
func WithResolvers(resolvers map[string]graphql.Resolver) Option {
	return func(o *options) {
		o.base = resolvers
	}
}

// WithPreserveResolvers keeps fields that already have a resolver (from
// WithResolvers) bound to it instead of a mock.
func WithPreserveResolvers(preserve bool) Option {
	return func(o *options) {
		o.preserve = preserve
	}
}

// WithListLength sets the inclusive default length range for synthesized
// lists.
func WithListLength(min, max int) Option {
	return func(o *options) {
		o.listMin = min
		o.listMax = max
	}
}

// Install binds a synthesis resolver to every field of every object type in
// the schema and returns the resulting ResolverSet. The schema itself is
// not modified.
//
// The resolver bound to each field follows the priority order: per-field
// factory from the parent type's Map entry, type-level factory keyed by the
// field's declared type name, built-in default by scalar kind, and a
// short-list default for list-typed fields.
//
// Configuration referencing types or fields absent from the schema is a
// hard error (ErrUnknownType, ErrUnknownField).
func Install(schema *graphql.Schema, mocks Map, opts ...Option) (*ResolverSet, error) {
	o := options{listMin: defaultListLen, listMax: defaultListLen}
	for _, opt := range opts {
		opt(&o)
	}

	if o.listMin < 0 || o.listMax < o.listMin {
		return nil, &InvalidListSpecError{Min: o.listMin, Max: o.listMax}
	}
	if err := validateConfig(schema, mocks, o.base); err != nil {
		return nil, err
	}

	rs := &ResolverSet{
		schema:    schema,
		mocks:     mocks,
		resolvers: make(map[string]graphql.Resolver),
		listMin:   o.listMin,
		listMax:   o.listMax,
	}
	if o.seed != nil {
		rs.rng = mathrand.New(mathrand.NewPCG(*o.seed, 0))
	}

	for _, def := range schema.ObjectTypes() {
		for _, fieldDef := range def.Fields {
			if isIntrospectionField(fieldDef.Name) {
				continue
			}
			key := def.Name + "." + fieldDef.Name

			if o.preserve {
				if existing, ok := o.base[key]; ok && existing != nil {
					rs.resolvers[key] = existing
					continue
				}
			}
			rs.resolvers[key] = rs.bind(def.Name, fieldDef)
		}
	}

	return rs, nil
}

// bind selects the synthesis function for one field at install time.
func (rs *ResolverSet) bind(typeName string, fieldDef *ast.FieldDefinition) graphql.Resolver {
	if tm, ok := rs.mocks[typeName]; ok {
		if fn, ok := tm.Fields[fieldDef.Name]; ok && fn != nil {
			return fn
		}
	}

	fieldType := fieldDef.Type
	return func(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
		return rs.valueForType(ctx, p, fieldType)
	}
}

// validateConfig checks every type and field the configuration references
// against the schema.
func validateConfig(schema *graphql.Schema, mocks Map, base map[string]graphql.Resolver) error {
	for typeName, tm := range mocks {
		def := schema.GetType(typeName)
		if def == nil {
			return fmt.Errorf("%w: %s", ErrUnknownType, typeName)
		}
		// Type-level factories fire when a field declares the type. Root
		// operation types are resolved field by field, so a Value there can
		// never apply unless some field returns the root type.
		if tm.Value != nil && isRootType(schema, typeName) && !declaredByAnyField(schema, typeName) {
			return fmt.Errorf("mock for %s: type-level value on a root operation type never applies, use Fields", typeName)
		}
		if len(tm.Fields) == 0 {
			continue
		}
		if def.Kind != ast.Object {
			return fmt.Errorf("%w: %s is not an object type but has field mocks", ErrUnknownField, typeName)
		}
		for fieldName := range tm.Fields {
			if schema.GetField(typeName, fieldName) == nil {
				return fmt.Errorf("%w: %s.%s", ErrUnknownField, typeName, fieldName)
			}
		}
	}

	for path := range base {
		fp := graphql.ParseFieldPath(path)
		if schema.GetType(fp.TypeName) == nil {
			return fmt.Errorf("%w: %s", ErrUnknownType, fp.TypeName)
		}
		if schema.GetField(fp.TypeName, fp.FieldName) == nil {
			return fmt.Errorf("%w: %s", ErrUnknownField, path)
		}
	}

	return nil
}

// isIntrospectionField reports whether the field is a built-in
// introspection field.
func isIntrospectionField(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}

// isRootType reports whether name is one of the schema's root operation
// types.
func isRootType(schema *graphql.Schema, name string) bool {
	for _, op := range []ast.Operation{ast.Query, ast.Mutation, ast.Subscription} {
		if def := schema.RootType(op); def != nil && def.Name == name {
			return true
		}
	}
	return false
}

// declaredByAnyField reports whether any object field declares name as its
// base type.
func declaredByAnyField(schema *graphql.Schema, name string) bool {
	for _, def := range schema.ObjectTypes() {
		for _, fieldDef := range def.Fields {
			t := fieldDef.Type
			for t.Elem != nil {
				t = t.Elem
			}
			if t.NamedType == name {
				return true
			}
		}
	}
	return false
}
