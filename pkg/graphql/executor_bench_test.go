package graphql

import (
	"context"
	"testing"
)

func BenchmarkExecuteNestedQuery(b *testing.B) {
	schema, err := ParseSchema(testSDL)
	if err != nil {
		b.Fatal(err)
	}
	source := &stubSource{resolvers: map[string]Resolver{
		"Query.user":   staticValue(map[string]interface{}{}),
		"User.id":      staticValue("u-1"),
		"User.name":    staticValue("Ada"),
		"User.age":     staticValue(36),
		"User.friends": staticValue([]interface{}{map[string]interface{}{"name": "Grace"}}),
	}}
	e := NewExecutor(schema, source)

	req := &Request{Query: `{ user(id: "1") { id name age friends { name } } }`}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp := e.Execute(ctx, req)
		if len(resp.Errors) > 0 {
			b.Fatalf("unexpected errors: %v", resp.Errors)
		}
	}
}

func BenchmarkIntrospectionQuery(b *testing.B) {
	schema, err := ParseSchema(testSDL)
	if err != nil {
		b.Fatal(err)
	}
	e := NewExecutor(schema, &stubSource{})

	req := &Request{Query: `{ __schema { types { name kind } } }`}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp := e.Execute(ctx, req)
		if len(resp.Errors) > 0 {
			b.Fatalf("unexpected errors: %v", resp.Errors)
		}
	}
}
