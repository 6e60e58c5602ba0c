package graphql

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/validator"
)

// Executor executes GraphQL operations by resolving fields through a
// ResolverSource.
type Executor struct {
	schema        *Schema
	source        ResolverSource
	introspection bool
}

// NewExecutor creates an executor for the given schema and resolver source.
// Introspection is enabled by default.
func NewExecutor(schema *Schema, source ResolverSource) *Executor {
	return &Executor{
		schema:        schema,
		source:        source,
		introspection: true,
	}
}

// SetIntrospection toggles support for __schema and __type queries.
func (e *Executor) SetIntrospection(enabled bool) {
	e.introspection = enabled
}

// Execute executes a GraphQL request and returns a response.
func (e *Executor) Execute(ctx context.Context, req *Request) *Response {
	if req == nil || req.Query == "" {
		return &Response{Errors: []Error{{Message: "query is required"}}}
	}

	doc, err := e.parseQuery(req.Query)
	if err != nil {
		return &Response{Errors: []Error{{Message: err.Error()}}}
	}

	var op *ast.OperationDefinition
	for _, opDef := range doc.Operations {
		if req.OperationName == "" || opDef.Name == req.OperationName {
			op = opDef
			break
		}
	}
	if op == nil {
		if req.OperationName != "" {
			return &Response{Errors: []Error{{Message: fmt.Sprintf("operation %q not found", req.OperationName)}}}
		}
		return &Response{Errors: []Error{{Message: "no operation found in query"}}}
	}

	rootDef := e.schema.RootType(op.Operation)
	if rootDef == nil {
		return &Response{Errors: []Error{{Message: fmt.Sprintf("schema does not support %s operations", op.Operation)}}}
	}

	ec := &execContext{
		doc:  doc,
		vars: e.coerceVariables(op, req.Variables),
	}

	data := e.executeSelectionSet(ctx, ec, rootDef, nil, op.SelectionSet, nil)

	resp := &Response{Data: data}
	if len(ec.errors) > 0 {
		resp.Errors = make([]Error, len(ec.errors))
		for i, gqlErr := range ec.errors {
			resp.Errors[i] = *gqlErr
		}
	}
	return resp
}

// parseQuery parses and validates a GraphQL query against the schema.
func (e *Executor) parseQuery(query string) (*ast.QueryDocument, error) {
	doc, parseErr := gqlparser.LoadQuery(e.schema.AST(), query)
	if parseErr != nil {
		if len(parseErr) > 0 {
			return nil, fmt.Errorf("parse error: %s", parseErr[0].Message)
		}
		return nil, fmt.Errorf("parse error")
	}

	validationErrs := validator.Validate(e.schema.AST(), doc)
	if len(validationErrs) > 0 {
		return nil, fmt.Errorf("validation error: %s", validationErrs[0].Message)
	}

	return doc, nil
}

// execContext carries per-request execution state.
type execContext struct {
	doc    *ast.QueryDocument
	vars   map[string]interface{}
	errors []*Error
}

func (ec *execContext) addError(message string, path []interface{}) {
	gqlErr := &Error{Message: message}
	if len(path) > 0 {
		gqlErr.Path = append([]interface{}(nil), path...)
	}
	ec.errors = append(ec.errors, gqlErr)
}

// fieldGroup is a set of selected fields sharing one response key, in query
// order. Multiple entries occur when the same field is selected through
// several fragments.
type fieldGroup struct {
	alias  string
	fields []*ast.Field
}

// selections returns the merged sub-selections of every field in the group.
func (g *fieldGroup) selections() ast.SelectionSet {
	if len(g.fields) == 1 {
		return g.fields[0].SelectionSet
	}
	var merged ast.SelectionSet
	for _, f := range g.fields {
		merged = append(merged, f.SelectionSet...)
	}
	return merged
}

// executeSelectionSet resolves a selection set against a parent value and
// returns the response object.
func (e *Executor) executeSelectionSet(ctx context.Context, ec *execContext, parentDef *ast.Definition, parent interface{}, sels ast.SelectionSet, path []interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for _, group := range e.collectFields(ec, parentDef, sels) {
		field := group.fields[0]
		fieldPath := append(append([]interface{}(nil), path...), group.alias)

		if field.Name == "__typename" {
			result[group.alias] = parentDef.Name
			continue
		}

		// Root-level introspection fields.
		if e.schema.AST().Query != nil && parentDef.Name == e.schema.AST().Query.Name {
			switch field.Name {
			case "__schema", "__type":
				value, gqlErr := e.resolveIntrospection(ctx, ec, group, fieldPath)
				if gqlErr != nil {
					ec.errors = append(ec.errors, gqlErr)
					result[group.alias] = nil
				} else {
					result[group.alias] = value
				}
				continue
			}
		}

		result[group.alias] = e.resolveField(ctx, ec, parentDef, parent, group, fieldPath)
	}

	return result
}

// collectFields flattens a selection set into ordered field groups, expanding
// fragment spreads and inline fragments whose type conditions apply to
// parentDef, and honoring @skip and @include.
func (e *Executor) collectFields(ec *execContext, parentDef *ast.Definition, sels ast.SelectionSet) []*fieldGroup {
	var order []string
	groups := make(map[string]*fieldGroup)

	var visit func(sels ast.SelectionSet)
	visit = func(sels ast.SelectionSet) {
		for _, sel := range sels {
			switch s := sel.(type) {
			case *ast.Field:
				if e.skipSelection(ec, s.Directives) {
					continue
				}
				alias := s.Alias
				if alias == "" {
					alias = s.Name
				}
				group, ok := groups[alias]
				if !ok {
					group = &fieldGroup{alias: alias}
					groups[alias] = group
					order = append(order, alias)
				}
				group.fields = append(group.fields, s)

			case *ast.FragmentSpread:
				if e.skipSelection(ec, s.Directives) {
					continue
				}
				for _, frag := range ec.doc.Fragments {
					if frag.Name == s.Name {
						if e.typeConditionApplies(parentDef, frag.TypeCondition) {
							visit(frag.SelectionSet)
						}
						break
					}
				}

			case *ast.InlineFragment:
				if e.skipSelection(ec, s.Directives) {
					continue
				}
				if e.typeConditionApplies(parentDef, s.TypeCondition) {
					visit(s.SelectionSet)
				}
			}
		}
	}
	visit(sels)

	result := make([]*fieldGroup, 0, len(order))
	for _, alias := range order {
		result = append(result, groups[alias])
	}
	return result
}

// skipSelection evaluates @skip and @include directives on a selection.
func (e *Executor) skipSelection(ec *execContext, directives ast.DirectiveList) bool {
	for _, dir := range directives {
		switch dir.Name {
		case "skip", "include":
			cond := false
			if arg := dir.Arguments.ForName("if"); arg != nil {
				cond, _ = e.resolveValue(arg.Value, ec.vars).(bool)
			}
			if dir.Name == "skip" && cond {
				return true
			}
			if dir.Name == "include" && !cond {
				return true
			}
		}
	}
	return false
}

// typeConditionApplies reports whether a fragment's type condition matches
// the concrete parent type.
func (e *Executor) typeConditionApplies(parentDef *ast.Definition, cond string) bool {
	if cond == "" || cond == parentDef.Name {
		return true
	}

	condDef := e.schema.GetType(cond)
	if condDef == nil {
		return false
	}

	switch condDef.Kind {
	case ast.Interface:
		for _, iface := range parentDef.Interfaces {
			if iface == cond {
				return true
			}
		}
	case ast.Union:
		for _, member := range condDef.Types {
			if member == parentDef.Name {
				return true
			}
		}
	}
	return false
}

// resolveField resolves one field group against the parent value and
// completes the result against the field's declared type.
func (e *Executor) resolveField(ctx context.Context, ec *execContext, parentDef *ast.Definition, parent interface{}, group *fieldGroup, path []interface{}) interface{} {
	field := group.fields[0]
	fieldDef := e.schema.GetField(parentDef.Name, field.Name)

	params := ResolveParams{
		Source: parent,
		Args:   e.extractArguments(ec, field),
		Info: FieldInfo{
			FieldName: field.Name,
			TypeName:  parentDef.Name,
			Field:     fieldDef,
			Schema:    e.schema,
		},
	}

	value, err := e.fieldValue(ctx, parentDef, parent, field, params)
	if err != nil {
		ec.addError(err.Error(), path)
		return nil
	}

	var fieldType *ast.Type
	if fieldDef != nil {
		fieldType = fieldDef.Type
	}
	return e.completeValue(ctx, ec, fieldType, group, value, params, path)
}

// fieldValue obtains the raw value for a field: parent-supplied values take
// precedence over bound resolvers, matching lazy object synthesis.
func (e *Executor) fieldValue(ctx context.Context, parentDef *ast.Definition, parent interface{}, field *ast.Field, params ResolveParams) (interface{}, error) {
	if m, ok := parent.(map[string]interface{}); ok {
		if raw, exists := m[field.Name]; exists {
			if fn, ok := raw.(Resolver); ok {
				return fn(ctx, params)
			}
			return raw, nil
		}
	}

	resolver := e.source.FieldResolver(parentDef.Name, field.Name)
	if resolver == nil {
		return nil, nil
	}
	return resolver(ctx, params)
}

// completeValue coerces a resolved value against its declared type: list
// directive expansion, list completion, leaf passthrough, and lazy recursion
// into object selection sets.
//
// A null for a non-null field records an error and nulls the field in
// place; it does not propagate up to the nearest nullable ancestor as the
// full completion rules would. Sibling fields keep their values.
func (e *Executor) completeValue(ctx context.Context, ec *execContext, t *ast.Type, group *fieldGroup, v interface{}, params ResolveParams, path []interface{}) interface{} {
	if v == nil {
		if t != nil && t.NonNull {
			ec.addError(fmt.Sprintf("cannot return null for non-nullable field %s.%s", params.Info.TypeName, params.Info.FieldName), path)
		}
		return nil
	}

	var elem *ast.Type
	if t != nil {
		elem = t.Elem
	}

	// A resolver may return a list directive instead of a concrete value.
	if items, ok, err := e.source.ExpandList(ctx, v, elem, params); ok {
		if err != nil {
			ec.addError(err.Error(), path)
			return nil
		}
		return e.completeList(ctx, ec, elem, group, items, params, path)
	}

	if elem != nil {
		items, ok := toInterfaceSlice(v)
		if !ok {
			// Single values coerce to a one-element list.
			items = []interface{}{v}
		}
		return e.completeList(ctx, ec, elem, group, items, params, path)
	}

	if t == nil {
		// No declared type to guide completion (e.g. extra keys in factory
		// output); return the value as-is.
		return v
	}

	named := t.NamedType
	def := e.schema.GetType(named)
	if def == nil {
		return v
	}

	switch def.Kind {
	case ast.Scalar, ast.Enum:
		return v

	case ast.Object:
		return e.executeSelectionSet(ctx, ec, def, v, group.selections(), path)

	case ast.Interface, ast.Union:
		concrete := e.concreteTypeFor(named, v)
		if concrete == "" {
			ec.addError(fmt.Sprintf("cannot determine concrete type for abstract type %s", named), path)
			return nil
		}
		concreteDef := e.schema.GetType(concrete)
		if concreteDef == nil || concreteDef.Kind != ast.Object {
			ec.addError(fmt.Sprintf("abstract type %s resolved to unknown type %s", named, concrete), path)
			return nil
		}
		return e.executeSelectionSet(ctx, ec, concreteDef, v, group.selections(), path)

	default:
		return v
	}
}

// completeList completes every item of a list value against the element type.
func (e *Executor) completeList(ctx context.Context, ec *execContext, elem *ast.Type, group *fieldGroup, items []interface{}, params ResolveParams, path []interface{}) []interface{} {
	result := make([]interface{}, len(items))
	for i, item := range items {
		itemPath := append(append([]interface{}(nil), path...), i)
		result[i] = e.completeValue(ctx, ec, elem, group, item, params, itemPath)
	}
	return result
}

// concreteTypeFor determines the concrete object type of a value resolved
// for an abstract type. A __typename in the value wins; otherwise the
// resolver source decides.
func (e *Executor) concreteTypeFor(abstractType string, v interface{}) string {
	if m, ok := v.(map[string]interface{}); ok {
		if name, ok := m["__typename"].(string); ok && name != "" {
			return name
		}
	}
	return e.source.ConcreteType(abstractType, v)
}

// toInterfaceSlice converts slice-kinded values to []interface{}.
func toInterfaceSlice(v interface{}) ([]interface{}, bool) {
	if items, ok := v.([]interface{}); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// coerceVariables merges provided variable values with operation defaults.
func (e *Executor) coerceVariables(op *ast.OperationDefinition, provided map[string]interface{}) map[string]interface{} {
	vars := make(map[string]interface{}, len(op.VariableDefinitions))
	for _, def := range op.VariableDefinitions {
		if provided != nil {
			if value, ok := provided[def.Variable]; ok {
				vars[def.Variable] = value
				continue
			}
		}
		if def.DefaultValue != nil {
			vars[def.Variable] = e.resolveValue(def.DefaultValue, nil)
		}
	}
	return vars
}

// extractArguments extracts coerced argument values from a field.
func (e *Executor) extractArguments(ec *execContext, field *ast.Field) map[string]interface{} {
	args := make(map[string]interface{})
	for _, arg := range field.Arguments {
		args[arg.Name] = e.resolveValue(arg.Value, ec.vars)
	}
	return args
}

// resolveValue resolves an AST value to a Go value.
func (e *Executor) resolveValue(value *ast.Value, vars map[string]interface{}) interface{} {
	if value == nil {
		return nil
	}

	switch value.Kind {
	case ast.Variable:
		if vars != nil {
			return vars[value.Raw]
		}
		return nil
	case ast.IntValue:
		n, err := strconv.ParseInt(value.Raw, 10, 64)
		if err != nil {
			return nil
		}
		return n
	case ast.FloatValue:
		f, err := strconv.ParseFloat(value.Raw, 64)
		if err != nil {
			return nil
		}
		return f
	case ast.StringValue, ast.BlockValue, ast.EnumValue:
		return value.Raw
	case ast.BooleanValue:
		return value.Raw == "true"
	case ast.NullValue:
		return nil
	case ast.ListValue:
		list := make([]interface{}, 0, len(value.Children))
		for _, child := range value.Children {
			list = append(list, e.resolveValue(child.Value, vars))
		}
		return list
	case ast.ObjectValue:
		obj := make(map[string]interface{}, len(value.Children))
		for _, child := range value.Children {
			obj[child.Name] = e.resolveValue(child.Value, vars)
		}
		return obj
	default:
		return value.Raw
	}
}
