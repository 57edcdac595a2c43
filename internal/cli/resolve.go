package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veriverse/veriverse/internal/resolve"
	"github.com/veriverse/veriverse/internal/search"
	"github.com/veriverse/veriverse/internal/store"
)

var (
	resolveDataDir string
	resolveMinAge  time.Duration
	resolveTimeout time.Duration
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run a single credible-source resolution sweep",
	Long: `Resolve examines every unresolved run old enough to settle, searches
credible domains for its claim, and records a verified or unverifiable
outcome. The serve command runs this sweep on a schedule; this command
triggers one cycle by hand.`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveDataDir, "data-dir", "", "state directory (default from config)")
	resolveCmd.Flags().DurationVar(&resolveMinAge, "min-age", 0, "staleness threshold override (e.g. 30m)")
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", 5*time.Minute, "overall sweep timeout")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if resolveDataDir != "" {
		cfg.Store.DataDir = resolveDataDir
	}
	if resolveMinAge > 0 {
		cfg.Resolution.MinAge = resolveMinAge
	}
	if cfg.Search.APIKey == "" {
		return fmt.Errorf("resolution requires a search API key (set TAVILY_API_KEY or search.api_key)")
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.NewStore(cfg.Store.DataDir)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	searchClient, err := search.NewHTTPClient(cfg.Search)
	if err != nil {
		return fmt.Errorf("create search client: %w", err)
	}
	sources, err := resolve.LoadSourceRegistry(cfg.Resolution.SourcesPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	resolver := resolve.New(st, searchClient, sources, cfg.Resolution, logger)
	resolved, err := resolver.Sweep(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Resolution sweep complete: %d run(s) verified\n", resolved)
	return nil
}
