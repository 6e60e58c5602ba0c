package mock

import (
	"context"
	"fmt"
	mathrand "math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/getmockd/gqlmock/pkg/graphql"
)

// Interface compliance check
var _ graphql.ResolverSource = (*ResolverSet)(nil)

// ResolverSet is an immutable binding of a schema to one synthesis resolver
// per object field. It is safe for concurrent use; a seeded PRNG, when
// present, is serialized internally.
type ResolverSet struct {
	schema    *graphql.Schema
	mocks     Map
	resolvers map[string]graphql.Resolver

	mu  sync.Mutex // guards rng
	rng *mathrand.Rand

	listMin int
	listMax int
}

// Schema returns the schema the set was installed on.
func (rs *ResolverSet) Schema() *graphql.Schema {
	return rs.schema
}

// FieldResolver returns the resolver bound to typeName.fieldName, or nil.
func (rs *ResolverSet) FieldResolver(typeName, fieldName string) graphql.Resolver {
	return rs.resolvers[typeName+"."+fieldName]
}

// ConcreteType picks a concrete object type for a value of an abstract
// type: a uniformly random union member or interface implementor.
func (rs *ResolverSet) ConcreteType(abstractType string, _ interface{}) string {
	names := rs.schema.PossibleTypes(abstractType)
	if len(names) == 0 {
		return ""
	}
	return names[rs.intN(len(names))]
}

// ExpandList expands a *List directive: pick a length (exact, or uniformly
// sampled from the inclusive range), then synthesize that many items with
// the directive's item function or the element type's own defaults.
func (rs *ResolverSet) ExpandList(ctx context.Context, v interface{}, elem *ast.Type, p graphql.ResolveParams) ([]interface{}, bool, error) {
	l, ok := v.(*List)
	if !ok {
		return nil, false, nil
	}

	min, max, err := l.bounds()
	if err != nil {
		return nil, true, err
	}

	n := min
	if max > min {
		n = min + rs.intN(max-min+1)
	}

	items := make([]interface{}, n)
	for i := range items {
		switch {
		case l.item != nil:
			item, err := l.item(ctx, p)
			if err != nil {
				return nil, true, err
			}
			items[i] = item
		case elem != nil:
			item, err := rs.valueForType(ctx, p, elem)
			if err != nil {
				return nil, true, err
			}
			items[i] = item
		default:
			return nil, true, fmt.Errorf("list mock for %s has no item function and the field is not list-typed", p.Info.Path())
		}
	}
	return items, true, nil
}

// valueForType synthesizes a default value for a declared type: type-level
// factories from the Map first, then built-in defaults by kind.
func (rs *ResolverSet) valueForType(ctx context.Context, p graphql.ResolveParams, t *ast.Type) (interface{}, error) {
	if t.Elem != nil {
		// List-typed: a short list of synthesized items, expanded during
		// value completion.
		return NewListRange(rs.listMin, rs.listMax), nil
	}

	named := t.NamedType
	if tm, ok := rs.mocks[named]; ok && tm.Value != nil {
		return tm.Value(ctx, p)
	}

	switch named {
	case "Int":
		return rs.intN(100), nil
	case "Float":
		return rs.float64() * 100, nil
	case "String":
		return "Hello", nil
	case "Boolean":
		return rs.intN(2) == 1, nil
	case "ID":
		return rs.newID(), nil
	}

	def := rs.schema.GetType(named)
	if def == nil {
		return nil, &MissingMockKindError{TypeName: named}
	}

	switch def.Kind {
	case ast.Enum:
		values := rs.schema.EnumValues(named)
		if len(values) == 0 {
			return nil, &MissingMockKindError{TypeName: named}
		}
		return values[rs.intN(len(values))], nil

	case ast.Object:
		// Lazy placeholder: fields resolve one by one through their own
		// bound resolvers.
		return map[string]interface{}{"__typename": named}, nil

	case ast.Interface, ast.Union:
		concrete := rs.ConcreteType(named, nil)
		if concrete == "" {
			return nil, &MissingMockKindError{TypeName: named}
		}
		return map[string]interface{}{"__typename": concrete}, nil

	default:
		// Custom scalars have no built-in default.
		return nil, &MissingMockKindError{TypeName: named}
	}
}

// intN returns a random int in [0, n), from the seeded PRNG when present.
func (rs *ResolverSet) intN(n int) int {
	if n <= 0 {
		return 0
	}
	if rs.rng != nil {
		rs.mu.Lock()
		defer rs.mu.Unlock()
		return rs.rng.IntN(n)
	}
	return mathrand.IntN(n)
}

// float64 returns a random float in [0, 1), from the seeded PRNG when present.
func (rs *ResolverSet) float64() float64 {
	if rs.rng != nil {
		rs.mu.Lock()
		defer rs.mu.Unlock()
		return rs.rng.Float64()
	}
	return mathrand.Float64()
}

// newID generates a unique ID scalar value. Seeded sets derive the UUID
// bytes from the PRNG so output stays deterministic.
func (rs *ResolverSet) newID() string {
	if rs.rng == nil {
		return uuid.NewString()
	}

	var b [16]byte
	rs.mu.Lock()
	for i := range b {
		b[i] = byte(rs.rng.IntN(256))
	}
	rs.mu.Unlock()

	// Version 4 and variant bits per RFC 4122
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	u, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}
