package graphql

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vektah/gqlparser/v2/ast"
)

const testSDL = `
type Query {
	user(id: ID!): User
	users: [User!]!
	search(term: String!): [SearchResult!]
	status: Status!
}

type Mutation {
	createUser(name: String!): User!
}

type User {
	id: ID!
	name: String!
	age: Int!
	friends: [User!]
}

type Post {
	id: ID!
	title: String!
	author: User!
}

union SearchResult = User | Post

interface Node {
	id: ID!
}

enum Status {
	ACTIVE
	INACTIVE
	BANNED
}
`

func mustParseSchema(t *testing.T, sdl string) *Schema {
	t.Helper()
	schema, err := ParseSchema(sdl)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	return schema
}

func TestParseSchema(t *testing.T) {
	schema := mustParseSchema(t, testSDL)

	if schema.AST() == nil {
		t.Fatal("expected non-nil AST")
	}
	if schema.Source() != testSDL {
		t.Error("Source should return the original SDL")
	}
}

func TestParseSchemaInvalid(t *testing.T) {
	_, err := ParseSchema("type Query { broken ")
	if err == nil {
		t.Fatal("expected error for invalid SDL")
	}
}

func TestParseSchemaFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.graphql")
	if err := os.WriteFile(path, []byte(testSDL), 0o644); err != nil {
		t.Fatal(err)
	}

	schema, err := ParseSchemaFile(path)
	if err != nil {
		t.Fatalf("ParseSchemaFile failed: %v", err)
	}
	if schema.GetType("User") == nil {
		t.Error("expected User type from file")
	}

	if _, err := ParseSchemaFile(filepath.Join(dir, "missing.graphql")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseSchemaFilesMerge(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.graphql")
	extra := filepath.Join(dir, "extra.graphql")
	if err := os.WriteFile(base, []byte("type Query { ping: String }"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(extra, []byte("type Widget { id: ID! }"), 0o644); err != nil {
		t.Fatal(err)
	}

	schema, err := ParseSchemaFiles(base, extra)
	if err != nil {
		t.Fatalf("ParseSchemaFiles failed: %v", err)
	}
	if schema.GetType("Widget") == nil {
		t.Error("expected Widget type from second file")
	}
}

func TestGetTypeAndField(t *testing.T) {
	schema := mustParseSchema(t, testSDL)

	if def := schema.GetType("User"); def == nil || def.Kind != ast.Object {
		t.Errorf("GetType(User) = %v, want object definition", def)
	}
	if schema.GetType("Nope") != nil {
		t.Error("GetType should return nil for unknown type")
	}

	field := schema.GetField("User", "name")
	if field == nil {
		t.Fatal("GetField(User, name) returned nil")
	}
	if field.Type.NamedType != "String" {
		t.Errorf("User.name type = %s, want String", field.Type.NamedType)
	}
	if schema.GetField("User", "nope") != nil {
		t.Error("GetField should return nil for unknown field")
	}
}

func TestObjectTypes(t *testing.T) {
	schema := mustParseSchema(t, testSDL)

	var names []string
	for _, def := range schema.ObjectTypes() {
		names = append(names, def.Name)
	}

	want := []string{"Mutation", "Post", "Query", "User"}
	if len(names) != len(want) {
		t.Fatalf("ObjectTypes = %v, want %v", names, want)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("ObjectTypes[%d] = %s, want %s", i, names[i], name)
		}
	}
}

func TestRootType(t *testing.T) {
	schema := mustParseSchema(t, testSDL)

	if def := schema.RootType(ast.Query); def == nil || def.Name != "Query" {
		t.Errorf("RootType(query) = %v, want Query", def)
	}
	if def := schema.RootType(ast.Mutation); def == nil || def.Name != "Mutation" {
		t.Errorf("RootType(mutation) = %v, want Mutation", def)
	}
	if def := schema.RootType(ast.Subscription); def != nil {
		t.Errorf("RootType(subscription) = %v, want nil", def)
	}
}

func TestValidateRequiresQuery(t *testing.T) {
	schema := mustParseSchema(t, testSDL)
	if err := schema.Validate(); err != nil {
		t.Errorf("Validate failed on schema with Query: %v", err)
	}

	noQuery := mustParseSchema(t, "type Widget { id: ID! }")
	if err := noQuery.Validate(); err == nil {
		t.Error("Validate should fail without a Query type")
	}
}

func TestTypePredicates(t *testing.T) {
	schema := mustParseSchema(t, testSDL)

	if !schema.IsScalarType("String") || !schema.IsScalarType("ID") {
		t.Error("built-in scalars should be scalar types")
	}
	if !schema.IsEnumType("Status") {
		t.Error("Status should be an enum type")
	}
	if !schema.IsObjectType("User") {
		t.Error("User should be an object type")
	}
	if !schema.IsAbstractType("SearchResult") || !schema.IsAbstractType("Node") {
		t.Error("unions and interfaces should be abstract types")
	}
	if schema.IsAbstractType("User") {
		t.Error("User should not be abstract")
	}
	if !schema.IsLeafType("Status") || !schema.IsLeafType("Int") {
		t.Error("enums and scalars should be leaf types")
	}
}

func TestEnumValues(t *testing.T) {
	schema := mustParseSchema(t, testSDL)

	values := schema.EnumValues("Status")
	if len(values) != 3 {
		t.Fatalf("EnumValues(Status) = %v, want 3 values", values)
	}
	if values[0] != "ACTIVE" {
		t.Errorf("EnumValues[0] = %s, want ACTIVE", values[0])
	}
	if schema.EnumValues("User") != nil {
		t.Error("EnumValues should return nil for non-enum types")
	}
}

func TestPossibleTypes(t *testing.T) {
	schema := mustParseSchema(t, testSDL)

	union := schema.PossibleTypes("SearchResult")
	if len(union) != 2 || union[0] != "Post" || union[1] != "User" {
		t.Errorf("PossibleTypes(SearchResult) = %v, want [Post User]", union)
	}

	if got := schema.PossibleTypes("User"); got != nil {
		t.Errorf("PossibleTypes(User) = %v, want nil", got)
	}
}

func TestPossibleTypesInterface(t *testing.T) {
	schema := mustParseSchema(t, `
type Query { node: Node }
interface Node { id: ID! }
type Book implements Node { id: ID! title: String }
type Film implements Node { id: ID! runtime: Int }
`)

	got := schema.PossibleTypes("Node")
	if len(got) != 2 || got[0] != "Book" || got[1] != "Film" {
		t.Errorf("PossibleTypes(Node) = %v, want [Book Film]", got)
	}
}
