package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/executor"
)

func newQueryCommand(opts *options) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "query <query>",
		Short: "Answer a single boolean or proximity query",
		Long: `Answer one query. Queries containing '/' are proximity queries
("term1 term2 /k"); everything else is boolean (AND, OR, NOT in capitals).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := loadEngine(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			res, err := executor.New(eng, nil).Execute(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if explain {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Kind, res.Parsed)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Formatted())
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print the parsed query before the result")
	return cmd
}
