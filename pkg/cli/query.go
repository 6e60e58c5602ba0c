package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/getmockd/gqlmock/pkg/graphql"
)

// queryFlagVals is the package-level instance bound to cobra flags.
var queryFlagVals queryFlags

type queryFlags struct {
	endpointFlags

	operation string
	variables string
	extract   string
}

var queryCmd = &cobra.Command{
	Use:   "query [query]",
	Short: "Execute one query against a mocked schema and print the result",
	Long: `Execute a single GraphQL operation against a mocked schema without
starting a server. The query is given as an argument, or read from stdin
when the argument is "-".

Exits non-zero when the response contains errors.`,
	Example: `  # Run a query against a schema
  gqlmock query --schema api.graphql '{ user { id name } }'

  # Deterministic output with variables
  gqlmock query -c gqlmock.yaml --seed 7 --variables '{"id":"1"}' \
    'query($id: ID!) { user(id: $id) { name } }'

  # Extract one value with a JSONPath expression
  gqlmock query --schema api.graphql --extract '$.data.user.name' \
    '{ user { name } }'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		queryFlagVals.seedSet = cmd.Flags().Changed("seed")
		return runQuery(cmd, args[0], &queryFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	f := &queryFlagVals

	queryCmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to configuration file")
	queryCmd.Flags().StringVarP(&f.schemaFile, "schema", "s", "", "Path to GraphQL SDL schema file")
	queryCmd.Flags().Uint64Var(&f.seed, "seed", 0, "Seed for deterministic synthesis")
	queryCmd.Flags().StringVarP(&f.operation, "operation", "o", "", "Operation name when the document defines several")
	queryCmd.Flags().StringVar(&f.variables, "variables", "", "Operation variables as a JSON object")
	queryCmd.Flags().StringVar(&f.extract, "extract", "", "JSONPath expression to extract from the response")
}

func runQuery(cmd *cobra.Command, query string, f *queryFlags) error {
	if query == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read query from stdin: %w", err)
		}
		query = string(data)
	}

	ep, err := buildEndpoint(&f.endpointFlags)
	if err != nil {
		return err
	}

	req := &graphql.Request{
		Query:         query,
		OperationName: f.operation,
	}
	if f.variables != "" {
		if err := json.Unmarshal([]byte(f.variables), &req.Variables); err != nil {
			return fmt.Errorf("invalid --variables JSON: %w", err)
		}
	}

	resp := ep.exec.Execute(cmd.Context(), req)

	out, err := printResponse(cmd.OutOrStdout(), resp, f.extract)
	if err != nil {
		return err
	}
	if !out {
		return fmt.Errorf("query returned %d error(s)", len(resp.Errors))
	}
	return nil
}

// printResponse pretty-prints the response, optionally narrowed to a
// JSONPath expression. Returns false when the response carries errors.
func printResponse(w io.Writer, resp *graphql.Response, extract string) (bool, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return false, err
	}

	// Round-trip through ojg's parser so jp expressions and indentation
	// work on a plain data tree.
	data, err := oj.Parse(raw)
	if err != nil {
		return false, err
	}

	if extract != "" {
		expr, err := jp.ParseString(extract)
		if err != nil {
			return false, fmt.Errorf("invalid JSONPath expression %q: %w", extract, err)
		}
		results := expr.Get(data)
		switch len(results) {
		case 0:
			data = nil
		case 1:
			data = results[0]
		default:
			data = results
		}
	}

	fmt.Fprintln(w, oj.JSON(data, 2))
	return len(resp.Errors) == 0, nil
}
