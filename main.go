// Command gitdocs serves GitHub repository documentation over MCP.
package main

import (
	"github.com/joho/godotenv"

	"github.com/gitdocs-ai/gitdocs/internal/adapters/driving/cli"
)

func main() {
	// A local .env is optional; environment variables win over config
	// file values either way.
	_ = godotenv.Load()

	cli.Execute()
}
