package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var reviewsTimeout time.Duration

// reviewsCmd represents the reviews command
var reviewsCmd = &cobra.Command{
	Use:   "reviews <university name>",
	Short: "Research a university's rankings and reviews",
	Long: `Reviews searches the web for a university's NIRF ranking, review
platform pages, social media discussions and news coverage, then prints
the aggregated result as JSON.

Searches are spaced by search.min_delay, so a lookup takes a while.

Example:
  claimaudit reviews "Delhi Technological University"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReviews,
}

func init() {
	rootCmd.AddCommand(reviewsCmd)
	reviewsCmd.Flags().DurationVar(&reviewsTimeout, "timeout", 10*time.Minute, "lookup timeout")
}

func runReviews(cmd *cobra.Command, args []string) error {
	university := strings.TrimSpace(strings.Join(args, " "))
	if university == "" {
		return fmt.Errorf("university name is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), reviewsTimeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Logger.Sync() }()

	result, err := a.Reviews.Search(ctx, university)
	if err != nil {
		return fmt.Errorf("university search failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %s: %d negative, %d positive reviews (%s)\n",
			result.UniversityName, len(result.NegativeReviews), len(result.PositiveReviews), result.SearchStatus)
	}
	return nil
}
