package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scopewise/internal/cli/formatter"
	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/spf13/cobra"
)

func newEstimateCmd(app *App) *cobra.Command {
	var flags briefFlags
	var summary, showPrompt bool

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate features, staffing and cost for a project brief",
		Long: `Estimate sends the brief to the configured model once and renders the
reply as tables. Costs are recomputed locally from the rate table and any
disagreement with the model's totals is reported as a warning.

Without --description and with a terminal on stdin, a form collects the brief.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireClient(); err != nil {
				if hint := errorHint(err); hint != "" {
					return fmt.Errorf("%w\n  hint: %s", err, hint)
				}
				return err
			}

			brief, err := collectBrief(app, &flags)
			if err != nil {
				return presentError(cmd.OutOrStdout(), err)
			}

			out := cmd.OutOrStdout()
			svc := app.estimates(summary)

			if showPrompt {
				p, err := svc.Prompt(brief)
				if err != nil {
					return presentError(out, err)
				}
				fmt.Fprintln(out, formatter.Header("Input"))
				fmt.Fprintln(out, p.Input)
				fmt.Fprintln(out)
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Estimating with %s...", app.LLM.Model))
			}
			est, err := svc.Estimate(cmd.Context(), brief)
			stop()
			if err != nil {
				return presentError(out, err)
			}

			fmt.Fprint(out, formatter.FormatEstimate(est))
			return nil
		},
	}

	addBriefFlags(cmd.Flags(), &flags)
	cmd.Flags().BoolVar(&summary, "summary", false, "Ask for a short markdown summary before the JSON")
	cmd.Flags().BoolVar(&showPrompt, "show-prompt", false, "Print the serialized brief before calling the model")

	return cmd
}

// collectBrief returns the brief from flags, or from the interactive form
// when no description was given and stdin is a terminal.
func collectBrief(app *App, flags *briefFlags) (domain.ProjectBrief, error) {
	if strings.TrimSpace(flags.description) != "" || !app.interactive() {
		return flags.brief(), nil
	}
	values := newBriefFormValues(flags)
	if err := briefForm(values).Run(); err != nil {
		return domain.ProjectBrief{}, err
	}
	return values.brief(), nil
}
