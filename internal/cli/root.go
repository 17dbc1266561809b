// Package cli implements the irq command line: build the index, run single
// queries, or answer queries interactively.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stopwords"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/store"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
)

type options struct {
	cfgFile   string
	corpusDir string
	storeDir  string
	backend   string
	logLevel  string
	cfg       *config.Config
}

// NewRootCommand assembles irq and its subcommands.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "irq",
		Short: "Boolean and proximity retrieval over a text corpus",
		Long: `irq indexes a directory of <docID>.txt files into an inverted and a
positional index, then answers boolean and proximity queries.

Example usage:
  irq index                          # Build the index unless it already exists
  irq query "network AND security"   # Boolean query
  irq query "network security /3"    # Proximity query
  irq repl                           # Interactive prompt`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if opts.corpusDir != "" {
				cfg.Corpus.Dir = opts.corpusDir
			}
			if opts.storeDir != "" {
				cfg.Store.Dir = opts.storeDir
			}
			if opts.backend != "" {
				cfg.Store.Backend = opts.backend
			}
			switch {
			case opts.logLevel != "":
				cfg.Logging.Level = opts.logLevel
			case opts.cfgFile == "":
				cfg.Logging.Level = "warn"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
			opts.cfg = cfg
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (YAML)")
	flags.StringVar(&opts.corpusDir, "corpus", "", "corpus directory (overrides config)")
	flags.StringVar(&opts.storeDir, "store-dir", "", "index directory (overrides config)")
	flags.StringVar(&opts.backend, "backend", "", "index store backend: file, bolt or sql")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (default warn without a config file)")

	root.AddCommand(
		newIndexCommand(opts),
		newQueryCommand(opts),
		newReplCommand(opts),
		newStatsCommand(opts),
	)
	return root
}

// Execute runs irq with os.Args until it finishes or is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openEngine wires the corpus, stopwords and store from configuration.
func openEngine(ctx context.Context, cfg *config.Config) (*indexer.Engine, error) {
	stop, err := stopwords.Load(cfg.Corpus.StopwordsFile)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open index store: %w", err)
	}
	return indexer.NewEngine(corpus.NewSource(cfg.Corpus.Dir, cfg.Corpus.Pattern), stop, st, nil), nil
}

// loadEngine opens the engine and makes an index available, building it
// when none has been persisted yet.
func loadEngine(ctx context.Context, cfg *config.Config) (*indexer.Engine, error) {
	eng, err := openEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if _, _, err := eng.Open(ctx, false, nil); err != nil {
		eng.Close()
		return nil, err
	}
	return eng, nil
}
