package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gqlmock.yaml", `
schema: "type Query { ping: String }"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "/graphql", cfg.Path)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gqlmock.json", `{
  "addr": ":3000",
  "schema": "type Query { ping: String }",
  "mocks": {"String": "hi"}
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "hi", cfg.Mocks["String"].Value)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")

	empty := writeFile(t, dir, "empty.yaml", "")
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrEmptyFile)

	broken := writeFile(t, dir, "broken.yaml", "addr: [unclosed")
	_, err = Load(broken)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadSchemaInline(t *testing.T) {
	cfg := &File{Schema: "type Query { ping: String }"}

	schema, err := cfg.LoadSchema("")
	require.NoError(t, err)
	assert.NotNil(t, schema.GetField("Query", "ping"))
}

func TestLoadSchemaFromFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "api.graphql", "type Query { ping: String }")

	cfg := &File{SchemaFile: "api.graphql"}
	schema, err := cfg.LoadSchema(dir)
	require.NoError(t, err)
	assert.NotNil(t, schema.GetType("Query"))
}

func TestLoadSchemaGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "types"), 0o755))
	writeFile(t, dir, "root.graphql", "type Query { user: User }")
	writeFile(t, filepath.Join(dir, "types"), "user.graphql", "type User { id: ID! }")

	cfg := &File{SchemaGlob: "**/*.graphql"}
	schema, err := cfg.LoadSchema(dir)
	require.NoError(t, err)
	assert.NotNil(t, schema.GetType("User"))
	assert.NotNil(t, schema.GetField("Query", "user"))
}

func TestLoadSchemaGlobNoMatch(t *testing.T) {
	cfg := &File{SchemaGlob: "*.nope"}
	_, err := cfg.LoadSchema(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched no files")
}

func TestLoadSchemaSourceExclusivity(t *testing.T) {
	none := &File{}
	_, err := none.LoadSchema("")
	assert.ErrorIs(t, err, ErrNoSchema)

	both := &File{Schema: "type Query { a: Int }", SchemaFile: "x.graphql"}
	_, err = both.LoadSchema("")
	assert.ErrorIs(t, err, ErrNoSchema)
}
