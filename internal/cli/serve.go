package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veriverse/veriverse/internal/api"
	"github.com/veriverse/veriverse/internal/oracle"
	"github.com/veriverse/veriverse/internal/resolve"
	"github.com/veriverse/veriverse/internal/search"
	"github.com/veriverse/veriverse/internal/store"
	"github.com/veriverse/veriverse/internal/tools"
	"github.com/veriverse/veriverse/internal/validate"
	"github.com/veriverse/veriverse/internal/voting"
	"github.com/veriverse/veriverse/internal/worker"
)

var (
	serveAddr     string
	serveWorkers  int
	serveDataDir  string
	serveProvider string
	serveModel    string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the claim verification service",
	Long: `Serve starts the full pipeline: the HTTP intake API, the orchestrator
worker pool, the community voting engine, and the periodic credible-source
resolution sweep.

Example:
  veriverse serve
  veriverse serve --addr :9090 --workers 4 --provider openai`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "orchestrator workers (default from config)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "state directory (default from config)")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "oracle provider (openai, anthropic, ollama)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "oracle model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveWorkers > 0 {
		cfg.Server.Workers = serveWorkers
	}
	if serveDataDir != "" {
		cfg.Store.DataDir = serveDataDir
	}
	if serveProvider != "" {
		cfg.Oracle.Provider = serveProvider
		cfg.Oracle.APIKey = "" // Re-resolve the key for the overridden provider
	}
	if serveModel != "" {
		cfg.Oracle.Model = serveModel
	}
	if cfg.Oracle.APIKey == "" {
		switch cfg.Oracle.Provider {
		case "openai":
			cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.Oracle.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.NewStore(cfg.Store.DataDir)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	q, err := store.NewQueue(cfg.Store.DataDir)
	if err != nil {
		return fmt.Errorf("open job queue: %w", err)
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
	} else {
		logger.Warn("no search API key configured; search tools and resolution disabled")
	}

	registry := tools.DefaultRegistry(searchClient)

	reviewers, err := voting.LoadReviewers(cfg.Voting.PersonasPath)
	if err != nil {
		return err
	}
	sources, err := resolve.LoadSourceRegistry(cfg.Resolution.SourcesPath)
	if err != nil {
		return err
	}

	var validator *validate.Validator
	if cfg.Validation.Enabled {
		validator = validate.NewValidator(cfg.Validation)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator := worker.New(st, q, provider, registry, cfg.Agent, logger)
	go orchestrator.RunPool(ctx, cfg.Server.Workers)

	engine := voting.New(st, reviewers, cfg.Voting, logger)
	go engine.Run(ctx)

	if searchClient != nil {
		resolver := resolve.New(st, searchClient, sources, cfg.Resolution, logger)
		go resolver.Run(ctx)
	}

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(st, q, reviewers, validator, logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("veriverse listening",
		zap.String("addr", cfg.Server.Addr),
		zap.Int("workers", cfg.Server.Workers),
		zap.String("oracle", provider.Name()),
		zap.Int("tools", registry.Count()))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
