// gqlmock CLI - serve mock GraphQL APIs from SDL schemas
package main

import (
	"github.com/getmockd/gqlmock/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate

	cli.Execute()
}
