package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/scopewise/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// maxReplyBytes bounds how much of a saved reply is read.
const maxReplyBytes = 8 << 20

func newReconcileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [file|-]",
		Short: "Parse and check a saved model reply",
		Long: `Reconcile reads a model reply from a file, or from stdin when the argument
is "-" or omitted, and renders it exactly as estimate would.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}

			raw, err := readReply(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			est, err := app.estimates(false).Reconcile(raw)
			if err != nil {
				return presentError(out, err)
			}
			fmt.Fprint(out, formatter.FormatEstimate(est))
			return nil
		},
	}
	return cmd
}

func readReply(stdin io.Reader, path string) (string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("opening reply: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("reading reply: %w", err)
	}
	return string(data), nil
}
