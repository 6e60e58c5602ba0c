package graphql

import (
	"context"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

// Introspection is implemented as lazily-resolved value trees executed
// through the normal completion machinery against the built-in __Schema and
// __Type definitions that gqlparser adds to every schema. Type references
// are Resolver closures, so the cyclic type graph never materializes eagerly.

// resolveIntrospection resolves a root-level __schema or __type field.
func (e *Executor) resolveIntrospection(ctx context.Context, ec *execContext, group *fieldGroup, path []interface{}) (interface{}, *Error) {
	if !e.introspection {
		return nil, &Error{Message: "introspection is disabled", Path: path}
	}

	field := group.fields[0]
	params := ResolveParams{
		Args: e.extractArguments(ec, field),
		Info: FieldInfo{
			FieldName: field.Name,
			TypeName:  e.schema.AST().Query.Name,
			Schema:    e.schema,
		},
	}

	switch field.Name {
	case "__schema":
		t := ast.NonNullNamedType("__Schema", nil)
		return e.completeValue(ctx, ec, t, group, e.introspectionSchema(), params, path), nil

	case "__type":
		name, _ := params.Args["name"].(string)
		def := e.schema.GetType(name)
		if def == nil {
			return nil, nil
		}
		t := ast.NamedType("__Type", nil)
		return e.completeValue(ctx, ec, t, group, e.introspectionType(def), params, path), nil
	}

	return nil, nil
}

// introspectionSchema builds the lazy __Schema value.
func (e *Executor) introspectionSchema() map[string]interface{} {
	s := e.schema.AST()

	value := map[string]interface{}{
		"__typename":  "__Schema",
		"description": nil,
		"types": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			names := make([]string, 0, len(s.Types))
			for name := range s.Types {
				names = append(names, name)
			}
			sort.Strings(names)

			types := make([]interface{}, 0, len(names))
			for _, name := range names {
				types = append(types, e.introspectionType(s.Types[name]))
			}
			return types, nil
		}),
		"directives": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			directives := make([]interface{}, 0, len(s.Directives))
			names := make([]string, 0, len(s.Directives))
			for name := range s.Directives {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				directives = append(directives, e.introspectionDirective(s.Directives[name]))
			}
			return directives, nil
		}),
		"queryType":        nil,
		"mutationType":     nil,
		"subscriptionType": nil,
	}

	if s.Query != nil {
		value["queryType"] = e.introspectionType(s.Query)
	}
	if s.Mutation != nil {
		value["mutationType"] = e.introspectionType(s.Mutation)
	}
	if s.Subscription != nil {
		value["subscriptionType"] = e.introspectionType(s.Subscription)
	}

	return value
}

// introspectionType builds the lazy __Type value for a named definition.
func (e *Executor) introspectionType(def *ast.Definition) map[string]interface{} {
	return map[string]interface{}{
		"__typename":  "__Type",
		"kind":        introspectionKind(def.Kind),
		"name":        def.Name,
		"description": strOrNil(def.Description),
		"ofType":      nil,

		"fields": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			if def.Kind != ast.Object && def.Kind != ast.Interface {
				return nil, nil
			}
			fields := make([]interface{}, 0, len(def.Fields))
			for _, f := range def.Fields {
				if isIntrospectionField(f.Name) {
					continue
				}
				fields = append(fields, e.introspectionField(f))
			}
			return fields, nil
		}),

		"inputFields": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			if def.Kind != ast.InputObject {
				return nil, nil
			}
			fields := make([]interface{}, 0, len(def.Fields))
			for _, f := range def.Fields {
				fields = append(fields, e.introspectionInputValue(f.Name, f.Description, f.Type, f.DefaultValue))
			}
			return fields, nil
		}),

		"interfaces": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			if def.Kind != ast.Object && def.Kind != ast.Interface {
				return nil, nil
			}
			ifaces := make([]interface{}, 0, len(def.Interfaces))
			for _, name := range def.Interfaces {
				if ifaceDef := e.schema.GetType(name); ifaceDef != nil {
					ifaces = append(ifaces, e.introspectionType(ifaceDef))
				}
			}
			return ifaces, nil
		}),

		"possibleTypes": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			if def.Kind != ast.Interface && def.Kind != ast.Union {
				return nil, nil
			}
			names := e.schema.PossibleTypes(def.Name)
			types := make([]interface{}, 0, len(names))
			for _, name := range names {
				if typeDef := e.schema.GetType(name); typeDef != nil {
					types = append(types, e.introspectionType(typeDef))
				}
			}
			return types, nil
		}),

		"enumValues": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			if def.Kind != ast.Enum {
				return nil, nil
			}
			values := make([]interface{}, 0, len(def.EnumValues))
			for _, v := range def.EnumValues {
				values = append(values, map[string]interface{}{
					"__typename":        "__EnumValue",
					"name":              v.Name,
					"description":       strOrNil(v.Description),
					"isDeprecated":      false,
					"deprecationReason": nil,
				})
			}
			return values, nil
		}),

		"specifiedByURL": nil,
		"isOneOf":        false,
	}
}

// introspectionField builds the lazy __Field value.
func (e *Executor) introspectionField(f *ast.FieldDefinition) map[string]interface{} {
	return map[string]interface{}{
		"__typename":  "__Field",
		"name":        f.Name,
		"description": strOrNil(f.Description),
		"args": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			args := make([]interface{}, 0, len(f.Arguments))
			for _, arg := range f.Arguments {
				args = append(args, e.introspectionInputValue(arg.Name, arg.Description, arg.Type, arg.DefaultValue))
			}
			return args, nil
		}),
		"type": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			return e.introspectionTypeRef(f.Type), nil
		}),
		"isDeprecated":      false,
		"deprecationReason": nil,
	}
}

// introspectionInputValue builds the lazy __InputValue value.
func (e *Executor) introspectionInputValue(name, description string, t *ast.Type, defaultValue *ast.Value) map[string]interface{} {
	value := map[string]interface{}{
		"__typename":  "__InputValue",
		"name":        name,
		"description": strOrNil(description),
		"type": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			return e.introspectionTypeRef(t), nil
		}),
		"defaultValue":      nil,
		"isDeprecated":      false,
		"deprecationReason": nil,
	}
	if defaultValue != nil {
		value["defaultValue"] = defaultValue.String()
	}
	return value
}

// introspectionDirective builds the lazy __Directive value.
func (e *Executor) introspectionDirective(d *ast.DirectiveDefinition) map[string]interface{} {
	locations := make([]interface{}, 0, len(d.Locations))
	for _, loc := range d.Locations {
		locations = append(locations, string(loc))
	}

	return map[string]interface{}{
		"__typename":  "__Directive",
		"name":        d.Name,
		"description": strOrNil(d.Description),
		"locations":   locations,
		"args": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
			args := make([]interface{}, 0, len(d.Arguments))
			for _, arg := range d.Arguments {
				args = append(args, e.introspectionInputValue(arg.Name, arg.Description, arg.Type, arg.DefaultValue))
			}
			return args, nil
		}),
		"isRepeatable": d.IsRepeatable,
	}
}

// introspectionTypeRef builds the NON_NULL/LIST wrapper chain for a type
// reference, terminating in the named type's full __Type value.
func (e *Executor) introspectionTypeRef(t *ast.Type) map[string]interface{} {
	if t == nil {
		return nil
	}

	if t.NonNull {
		inner := *t
		inner.NonNull = false
		return map[string]interface{}{
			"__typename": "__Type",
			"kind":       "NON_NULL",
			"name":       nil,
			"ofType": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
				return e.introspectionTypeRef(&inner), nil
			}),
		}
	}

	if t.Elem != nil {
		elem := t.Elem
		return map[string]interface{}{
			"__typename": "__Type",
			"kind":       "LIST",
			"name":       nil,
			"ofType": Resolver(func(context.Context, ResolveParams) (interface{}, error) {
				return e.introspectionTypeRef(elem), nil
			}),
		}
	}

	def := e.schema.GetType(t.NamedType)
	if def == nil {
		return map[string]interface{}{
			"__typename": "__Type",
			"kind":       "SCALAR",
			"name":       t.NamedType,
			"ofType":     nil,
		}
	}
	return e.introspectionType(def)
}

// introspectionKind maps a definition kind to its __TypeKind name.
func introspectionKind(kind ast.DefinitionKind) string {
	switch kind {
	case ast.Scalar:
		return "SCALAR"
	case ast.Object:
		return "OBJECT"
	case ast.Interface:
		return "INTERFACE"
	case ast.Union:
		return "UNION"
	case ast.Enum:
		return "ENUM"
	case ast.InputObject:
		return "INPUT_OBJECT"
	default:
		return "OBJECT"
	}
}

// strOrNil maps empty descriptions to JSON null.
func strOrNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
