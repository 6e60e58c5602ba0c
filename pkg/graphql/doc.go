// Package graphql provides GraphQL schema parsing and query execution for
// the gqlmock engine.
//
// Schemas are parsed from SDL with gqlparser. Execution walks a validated
// query's selection sets and resolves each field through a FieldResolver
// source, typically a mock.ResolverSet built by the mock package. The
// executor performs no network or storage I/O of its own.
//
// Basic usage:
//
//	schema, err := graphql.ParseSchema(`
//	    type Query {
//	        user(id: ID!): User
//	    }
//	    type User {
//	        id: ID!
//	        name: String!
//	    }
//	`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	set, err := mock.Install(schema, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	exec := graphql.NewExecutor(schema, set)
//	resp := exec.Execute(ctx, &graphql.Request{Query: `{ user(id: "1") { name } }`})
package graphql
