// Package cli implements the gqlmock command-line interface.
//
// The CLI wires schemas, mock configuration, and the HTTP server together:
// "serve" runs a mock GraphQL endpoint in the foreground, "query" executes a
// one-shot operation against a mocked schema, and "validate" checks a schema
// or configuration file without starting anything.
package cli
