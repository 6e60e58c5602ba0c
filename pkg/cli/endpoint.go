package cli

import (
	"errors"
	"path/filepath"

	"github.com/getmockd/gqlmock/pkg/config"
	"github.com/getmockd/gqlmock/pkg/graphql"
	"github.com/getmockd/gqlmock/pkg/mock"
)

// endpoint is a fully wired mock endpoint: the loaded configuration, the
// parsed schema, and an executor with mock resolvers installed.
type endpoint struct {
	cfg    *config.File
	schema *graphql.Schema
	exec   *graphql.Executor
}

// endpointFlags are the flags shared by commands that build an endpoint.
type endpointFlags struct {
	configFile string
	schemaFile string
	seed       uint64
	seedSet    bool
}

// buildEndpoint loads configuration and schema, installs mock resolvers, and
// returns an executor ready to serve requests. A --schema flag overrides any
// schema source named in the config file.
func buildEndpoint(f *endpointFlags) (*endpoint, error) {
	var cfg *config.File
	var baseDir string

	switch {
	case f.configFile != "":
		var err error
		cfg, err = config.Load(f.configFile)
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Dir(f.configFile)
		if f.schemaFile != "" {
			cfg.Schema = ""
			cfg.SchemaGlob = ""
			cfg.SchemaFile = f.schemaFile
			baseDir = ""
		}

	case f.schemaFile != "":
		cfg = &config.File{
			Addr:       ":8080",
			Path:       "/graphql",
			SchemaFile: f.schemaFile,
		}

	default:
		return nil, errors.New("either --config or --schema is required")
	}

	if f.seedSet {
		seed := f.seed
		cfg.Seed = &seed
	}

	schema, err := cfg.LoadSchema(baseDir)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	mocks, opts, err := cfg.Compile()
	if err != nil {
		return nil, err
	}

	set, err := mock.Install(schema, mocks, opts...)
	if err != nil {
		return nil, err
	}

	exec := graphql.NewExecutor(schema, set)
	exec.SetIntrospection(cfg.IntrospectionEnabled())

	return &endpoint{cfg: cfg, schema: schema, exec: exec}, nil
}
