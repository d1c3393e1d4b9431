// Command self-mcp serves the Self integration assistant over MCP stdio.
package main

import (
	"os"

	"github.com/selfxyz/self-mcp/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
