package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
)

var resolveJSON bool

var resolveCmd = &cobra.Command{
	Use:   "resolve [owner/repo]",
	Short: "Resolve a repository's documentation",
	Long: `Resolves which document represents the documentation for a repository
and prints it. Useful for checking what an MCP client would receive.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	id := domain.ParseRepoSlug(args[0])
	if id.Owner == "" || id.Repo == "" {
		return fmt.Errorf("invalid repository %q: %w", args[0], domain.ErrInvalidInput)
	}

	doc, err := registry.For(id).FetchDocumentation(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", id, err)
	}

	if resolveJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Repository: %s\n", id)
	cmd.Printf("Source:     %s", doc.FileLabel)
	if doc.SourcePath != "" {
		cmd.Printf(" (%s", doc.SourcePath)
		if doc.SourceBranch != "" {
			cmd.Printf("@%s", doc.SourceBranch)
		}
		cmd.Printf(")")
	}
	cmd.Println()
	cmd.Printf("Status:     %s\n\n", doc.Status)
	cmd.Println(doc.Content)
	return nil
}
