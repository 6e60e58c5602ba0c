// Package config loads gqlmock endpoint configuration from YAML or JSON
// files and compiles the mocks section into a typed mock.Map.
//
// A minimal config file:
//
//	schemaFile: schema.graphql
//	addr: ":8080"
//	seed: 42
//	mocks:
//	  String: "Hello"
//	  Person:
//	    age: 42
//	    name:
//	      expr: '"user-" + string(args.id)'
//	    friends:
//	      list: {min: 2, max: 6}
//
// Type entries are either a literal value (applied whenever a field
// declares that type) or a mapping of field names to field entries. Field
// entries are a literal, an expr expression evaluated against {args,
// source}, or a list length spec.
package config
