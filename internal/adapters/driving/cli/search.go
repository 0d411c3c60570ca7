package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [owner/repo] [query]",
	Short: "Search a repository's documentation",
	Long: `Searches the repository's indexed documentation and prints the most
relevant passages. The first search for a repository indexes it in the
background and returns the full document as a fallback.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of passages")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	id := domain.ParseRepoSlug(args[0])
	if id.Owner == "" || id.Repo == "" {
		return fmt.Errorf("invalid repository %q: %w", args[0], domain.ErrInvalidInput)
	}
	query := args[1]

	results, err := registry.For(id).SearchRepositoryDocumentation(cmd.Context(), id, query, searchLimit)
	if err != nil {
		return fmt.Errorf("searching %s: %w", id, err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, r := range results {
		cmd.Printf("[%d] score %.3f (vector %.3f, keyword %.3f)\n", i+1, r.CombinedScore, r.VectorScore, r.KeywordScore)
		cmd.Println(r.Chunk)
		cmd.Println()
	}
	return nil
}
