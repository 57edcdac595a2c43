package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veriverse/veriverse/internal/agent"
	"github.com/veriverse/veriverse/internal/extract"
	"github.com/veriverse/veriverse/internal/oracle"
	"github.com/veriverse/veriverse/internal/search"
	"github.com/veriverse/veriverse/internal/tools"
)

var (
	askProvider string
	askModel    string
	askMaxSteps int
	askRefine   bool
	askTimeout  time.Duration
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <claim>",
	Short: "Check a single claim without starting the service",
	Long: `Ask runs one claim through the evidence-gathering loop and prints the
provisional answer with its cited sources. No run record is persisted and
no votes are collected.

Example:
  veriverse ask "ISRO launched a lunar mission this month"
  veriverse ask --provider ollama --model llama3 "the rupee hit a record low"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askProvider, "provider", "", "oracle provider (openai, anthropic, ollama)")
	askCmd.Flags().StringVar(&askModel, "model", "", "oracle model name")
	askCmd.Flags().IntVar(&askMaxSteps, "max-steps", 0, "step budget (default from config)")
	askCmd.Flags().BoolVar(&askRefine, "refine", false, "rewrite the claim through the oracle before checking")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 3*time.Minute, "overall check timeout")
}

func runAsk(cmd *cobra.Command, args []string) error {
	claim := strings.TrimSpace(strings.Join(args, " "))
	if claim == "" {
		return fmt.Errorf("claim is empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if askProvider != "" {
		cfg.Oracle.Provider = askProvider
		cfg.Oracle.APIKey = ""
	}
	if askModel != "" {
		cfg.Oracle.Model = askModel
	}
	if askMaxSteps > 0 {
		cfg.Agent.MaxSteps = askMaxSteps
	}
	if askRefine {
		cfg.Agent.RefinePrompt = true
	}
	if cfg.Oracle.APIKey == "" {
		switch cfg.Oracle.Provider {
		case "openai":
			cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.Oracle.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	provider, err := oracle.NewProvider(cfg.Oracle)
	if err != nil {
		return err
	}
	if provider == nil {
		return fmt.Errorf("no oracle provider configured (set oracle.provider or --provider)")
	}

	var searchClient search.Client
	if cfg.Search.APIKey != "" {
		httpSearch, err := search.NewHTTPClient(cfg.Search)
		if err != nil {
			return fmt.Errorf("create search client: %w", err)
		}
		searchClient = httpSearch
	} else if verbose {
		fmt.Fprintln(os.Stderr, "No search API key configured; search tools disabled")
	}

	registry := tools.DefaultRegistry(searchClient)

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	loop := agent.New(provider, registry, agent.Config{
		MaxSteps:     cfg.Agent.MaxSteps,
		MaxRetries:   cfg.Agent.MaxRetries,
		Persona:      cfg.Agent.Persona,
		RefinePrompt: cfg.Agent.RefinePrompt,
	}, logger)

	res, err := loop.Run(ctx, claim)
	if err != nil {
		return err
	}

	ext := extract.NewExtractor().Extract(res.Outputs)
	answer := extract.StripTrailingSources(res.Answer)

	fmt.Println(answer)
	if len(ext.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, url := range ext.Sources {
			fmt.Printf("  - %s\n", url)
		}
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "\nSteps used: %d", res.Steps)
		if res.Exhausted {
			fmt.Fprint(os.Stderr, " (step budget exhausted)")
		}
		if res.Refused {
			fmt.Fprint(os.Stderr, " (claim refused)")
		}
		fmt.Fprintln(os.Stderr)
		for _, step := range ext.Steps {
			fmt.Fprintf(os.Stderr, "  %d. %s(%s)\n", step.Step, step.Tool, step.Args)
		}
	}
	return nil
}
