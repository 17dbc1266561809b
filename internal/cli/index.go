package cli

import (
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newIndexCommand(opts *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the inverted and positional indexes",
		Long: `Build both indexes from the corpus and save them. If a saved index
already exists it is left alone unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			eng, err := openEngine(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			var (
				bar *progressbar.ProgressBar
				mu  sync.Mutex
			)
			progress := func(done, total int) {
				mu.Lock()
				defer mu.Unlock()
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetWriter(cmd.ErrOrStderr()),
						progressbar.OptionSetWidth(40),
						progressbar.OptionShowCount(),
						progressbar.OptionSetDescription("Indexing"),
						progressbar.OptionClearOnFinish(),
					)
				}
				bar.Set(done)
			}

			snap, built, err := eng.Open(ctx, force, progress)
			if err != nil {
				return fmt.Errorf("indexing failed: %w", err)
			}
			stats := snap.Stats()
			if built {
				fmt.Fprintf(out, "Indexing complete:\n")
			} else {
				fmt.Fprintf(out, "Index already exists, loaded it (use --force to rebuild):\n")
			}
			fmt.Fprintf(out, "  Documents:          %d\n", stats.Documents)
			fmt.Fprintf(out, "  Terms:              %d\n", stats.Terms)
			fmt.Fprintf(out, "  Positional entries: %d\n", stats.PositionalEntries)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "rebuild even if an index exists")
	return cmd
}
