package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/executor"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

func newReplCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read queries from stdin and print results",
		Long: `Read one query per line and print the matching document IDs, or
"No documents found". An empty line or "quit" ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := loadEngine(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			exec := executor.New(eng, nil)
			in := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			for {
				fmt.Fprint(out, "query> ")
				if !in.Scan() {
					fmt.Fprintln(out)
					return in.Err()
				}
				line := strings.TrimSpace(in.Text())
				if line == "" || line == "quit" || line == "exit" {
					return nil
				}
				res, err := exec.Execute(ctx, line)
				if err != nil {
					fmt.Fprintln(out, describeError(err))
					continue
				}
				fmt.Fprintln(out, res.Formatted())
			}
		},
	}
}

// describeError renders query errors for interactive use.
func describeError(err error) string {
	if errors.Is(err, apperrors.ErrMalformedQuery) {
		return "invalid query: " + err.Error()
	}
	return "error: " + err.Error()
}
