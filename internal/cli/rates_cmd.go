package cli

import (
	"fmt"

	"github.com/alexanderramin/scopewise/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Show the hourly rate table used for cost recomputation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatRates(app.Rates))
			fmt.Fprintf(out, "\n%s %s\n", formatter.Dim("Total mismatch tolerance:"), formatter.FormatMoney(app.Tolerance))
			return nil
		},
	}
}
