package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/gqlmock/pkg/graphql"
	"github.com/getmockd/gqlmock/pkg/mock"
)

const compileSDL = `
type Query {
	person: Person!
	echo(msg: String!): String!
	now: DateTime!
}

type Person {
	name: String!
	age: Int!
	friends: [Person!]!
}

scalar DateTime
`

// compileAndRun loads YAML config, compiles it, installs it, and executes
// one query through the full pipeline.
func compileAndRun(t *testing.T, yamlCfg, q string) map[string]interface{} {
	t.Helper()

	var f File
	require.NoError(t, yaml.Unmarshal([]byte(yamlCfg), &f))

	mocks, opts, err := f.Compile()
	require.NoError(t, err)

	schema, err := graphql.ParseSchema(compileSDL)
	require.NoError(t, err)

	set, err := mock.Install(schema, mocks, opts...)
	require.NoError(t, err)

	exec := graphql.NewExecutor(schema, set)
	resp := exec.Execute(context.Background(), &graphql.Request{Query: q})
	require.Empty(t, resp.Errors, "unexpected errors")

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func TestCompileLiteralValues(t *testing.T) {
	data := compileAndRun(t, `
mocks:
  DateTime: "2026-01-01T00:00:00Z"
  Person:
    age: 42
`, `{ now person { age name } }`)

	assert.Equal(t, "2026-01-01T00:00:00Z", data["now"])
	person := data["person"].(map[string]interface{})
	assert.Equal(t, 42, person["age"])
	assert.Equal(t, "Hello", person["name"])
}

func TestCompileExpr(t *testing.T) {
	data := compileAndRun(t, `
mocks:
  Query:
    echo:
      expr: 'args.msg + "!"'
`, `{ echo(msg: "hi") }`)

	assert.Equal(t, "hi!", data["echo"])
}

func TestCompileExprFieldContext(t *testing.T) {
	data := compileAndRun(t, `
mocks:
  Person:
    name:
      expr: 'type + "." + field'
`, `{ person { name } }`)

	person := data["person"].(map[string]interface{})
	assert.Equal(t, "Person.name", person["name"])
}

func TestCompileExprBareTypeIdentifier(t *testing.T) {
	// "type" must resolve to the env variable, not expr-lang's type() builtin.
	data := compileAndRun(t, `
mocks:
  Query:
    echo:
      expr: 'type'
`, `{ echo(msg: "x") }`)

	assert.Equal(t, "Query", data["echo"])
}

func TestCompileListSpec(t *testing.T) {
	data := compileAndRun(t, `
mocks:
  Person:
    friends:
      list: {min: 3, max: 3}
`, `{ person { friends { age } } }`)

	person := data["person"].(map[string]interface{})
	assert.Len(t, person["friends"].([]interface{}), 3)
}

func TestCompileSeedAndLists(t *testing.T) {
	var f File
	require.NoError(t, yaml.Unmarshal([]byte(`
seed: 42
lists: {min: 4, max: 4}
schema: "unused"
`), &f))

	_, opts, err := f.Compile()
	require.NoError(t, err)
	assert.Len(t, opts, 2, "seed and lists each contribute one option")
}

func TestCompileInvalidExpr(t *testing.T) {
	var f File
	require.NoError(t, yaml.Unmarshal([]byte(`
mocks:
  Query:
    echo:
      expr: '1 +'
`), &f))

	_, _, err := f.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid expression for Query.echo")
}

func TestCompileTypeLevelExpr(t *testing.T) {
	data := compileAndRun(t, `
mocks:
  DateTime:
    expr: '"now-" + type'
`, `{ now }`)

	assert.Equal(t, "now-Query", data["now"])
}
