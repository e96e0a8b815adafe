package cli

import (
	"fmt"

	"github.com/alexanderramin/scopewise/internal/cli/formatter"
	"github.com/alexanderramin/scopewise/internal/llm"
	"github.com/spf13/cobra"
)

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the configured model provider is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireClient(); err != nil {
				if hint := errorHint(err); hint != "" {
					return fmt.Errorf("%w\n  hint: %s", err, hint)
				}
				return err
			}

			ok := app.Client.Available(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCheck(string(app.LLM.Provider), app.LLM.Model, app.LLM.Endpoint, ok))
			if !ok {
				return fmt.Errorf("%w: %s", llm.ErrUnavailable, app.LLM.Provider)
			}
			return nil
		},
	}
}
