package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/gqlmock/pkg/graphql"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidConfig    = errors.New("invalid configuration syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
	ErrNoSchema         = errors.New("exactly one of schema, schemaFile, or schemaGlob must be set")
)

// Load reads a configuration file. Both YAML and JSON are accepted; JSON is
// parsed through the YAML decoder.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in the defaults for optional settings.
func (f *File) applyDefaults() {
	if f.Addr == "" {
		f.Addr = ":8080"
	}
	if f.Path == "" {
		f.Path = "/graphql"
	}
}

// LoadSchema resolves and parses the schema the config points at. Relative
// schema paths are resolved against baseDir, typically the directory of the
// config file.
func (f *File) LoadSchema(baseDir string) (*graphql.Schema, error) {
	set := 0
	for _, s := range []string{f.Schema, f.SchemaFile, f.SchemaGlob} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, ErrNoSchema
	}

	switch {
	case f.Schema != "":
		return graphql.ParseSchema(f.Schema)

	case f.SchemaFile != "":
		return graphql.ParseSchemaFile(resolvePath(baseDir, f.SchemaFile))

	default:
		pattern := resolvePath(baseDir, f.SchemaGlob)
		paths, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid schema glob %q: %w", f.SchemaGlob, err)
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("schema glob %q matched no files", f.SchemaGlob)
		}
		sort.Strings(paths)
		return graphql.ParseSchemaFiles(paths...)
	}
}

// resolvePath joins relative paths onto baseDir, leaving absolute paths
// untouched.
func resolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
