package config

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/getmockd/gqlmock/pkg/graphql"
	"github.com/getmockd/gqlmock/pkg/mock"
)

// Compile turns the mocks section into a typed mock.Map and the file-level
// synthesis settings into Install options. Expressions are compiled once
// here; evaluation happens per field resolution.
func (f *File) Compile() (mock.Map, []mock.Option, error) {
	mocks := make(mock.Map, len(f.Mocks))

	for typeName, entry := range f.Mocks {
		var tm mock.TypeMock

		switch {
		case entry.Expr != "":
			fn, err := compileExpr(entry.Expr, typeName)
			if err != nil {
				return nil, nil, err
			}
			tm.Value = fn
		case entry.HasValue:
			tm.Value = mock.Value(entry.Value)
		}

		if len(entry.Fields) > 0 {
			tm.Fields = make(map[string]mock.Fn, len(entry.Fields))
			for fieldName, fe := range entry.Fields {
				fn, err := fe.compile(typeName + "." + fieldName)
				if err != nil {
					return nil, nil, err
				}
				tm.Fields[fieldName] = fn
			}
		}

		mocks[typeName] = tm
	}

	var opts []mock.Option
	if f.Seed != nil {
		opts = append(opts, mock.WithSeed(*f.Seed))
	}
	if f.Lists != nil {
		opts = append(opts, mock.WithListLength(f.Lists.Min, f.Lists.Max))
	}

	return mocks, opts, nil
}

// compile builds the synthesis function for one field entry.
func (fe FieldEntry) compile(path string) (mock.Fn, error) {
	switch {
	case fe.Expr != "":
		return compileExpr(fe.Expr, path)

	case fe.List != nil:
		min, max := fe.List.Min, fe.List.Max
		return func(context.Context, graphql.ResolveParams) (interface{}, error) {
			return mock.NewListRange(min, max), nil
		}, nil

	case fe.HasValue:
		return mock.Value(fe.Value), nil

	default:
		return nil, fmt.Errorf("mock for %s has no value, expr, or list", path)
	}
}

// compileExpr compiles an expr-lang expression into a mock factory. The
// expression sees the field arguments as "args", the parent value as
// "source", and the field position as "field" and "type". The type()
// builtin is disabled so "type" resolves to the env variable.
func compileExpr(code, path string) (mock.Fn, error) {
	program, err := expr.Compile(code, expr.AllowUndefinedVariables(), expr.DisableBuiltin("type"))
	if err != nil {
		return nil, fmt.Errorf("invalid expression for %s: %w", path, err)
	}

	return func(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
		args := p.Args
		if args == nil {
			args = map[string]interface{}{}
		}
		env := map[string]interface{}{
			"args":   args,
			"source": p.Source,
			"field":  p.Info.FieldName,
			"type":   p.Info.TypeName,
		}
		out, err := vm.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("expression for %s failed: %w", path, err)
		}
		return out, nil
	}, nil
}
