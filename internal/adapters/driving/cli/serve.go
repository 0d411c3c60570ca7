package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitdocs-ai/gitdocs/internal/adapters/driving/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server.

By default the server communicates over stdio using JSON-RPC, suitable
for Claude Desktop and other MCP clients. Use --port to serve over
streamable HTTP instead.

Examples:
  # Stdio mode (default)
  gitdocs serve

  # HTTP mode
  gitdocs serve --port 8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if port == 0 {
		port = appCfg.Server.Port
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Docs:     docsService,
		Handlers: registry,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
