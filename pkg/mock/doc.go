// Package mock synthesizes plausible response values for arbitrary valid
// queries against a GraphQL schema.
//
// Install walks every object type in a schema and binds a resolver to each
// field. Unless a field is preserved, its resolver synthesizes a value
// consistent with the field's declared type: per-field and per-type factories
// from the mock Map take priority, then built-in defaults by scalar kind,
// then a short-list default for list-typed fields. Object values recurse
// lazily, field by field.
//
// Install does not mutate the schema. It returns an immutable ResolverSet
// pairing the schema with its bound resolvers, which plugs into the
// graphql.Executor as its ResolverSource.
//
//	schema, _ := graphql.ParseSchema(sdl)
//	set, err := mock.Install(schema, mock.Map{
//	    "Person": {Fields: map[string]mock.Fn{
//	        "age": mock.Value(42),
//	    }},
//	})
//
// A factory may return a *List directive instead of a concrete value to
// control the length and contents of a list-valued field:
//
//	"friends": func(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
//	    return mock.NewListRange(2, 6), nil
//	},
//
// Synthesis is deterministic when Install is given WithSeed.
package mock
