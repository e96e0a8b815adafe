package cli

import (
	"fmt"

	"github.com/alexanderramin/scopewise/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPromptCmd(app *App) *cobra.Command {
	var flags briefFlags
	var summary, inputOnly, withSystem bool

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt for a brief without calling the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			brief, err := collectBrief(app, &flags)
			if err != nil {
				return presentError(out, err)
			}

			p, err := app.estimates(summary).Prompt(brief)
			if err != nil {
				return presentError(out, err)
			}

			if inputOnly {
				fmt.Fprintln(out, p.Input)
				return nil
			}
			if withSystem {
				fmt.Fprintln(out, formatter.Header("System"))
				fmt.Fprintln(out, p.System)
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.Header("User"))
			}
			fmt.Fprint(out, p.Text)
			return nil
		},
	}

	addBriefFlags(cmd.Flags(), &flags)
	cmd.Flags().BoolVar(&summary, "summary", false, "Use the summary-first template variant")
	cmd.Flags().BoolVar(&inputOnly, "input-only", false, "Print only the serialized brief")
	cmd.Flags().BoolVar(&withSystem, "system", false, "Also print the system instruction")

	return cmd
}
