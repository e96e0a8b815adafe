package cli

import (
	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/alexanderramin/scopewise/internal/estimation"
	"github.com/alexanderramin/scopewise/internal/llm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds what the commands need: the generation client and the settings
// that shape prompts and reconciliation.
type App struct {
	// Client is nil when it could not be constructed; ClientErr says why.
	// Offline commands (prompt, reconcile, rates) work without it.
	Client    llm.LLMClient
	ClientErr error
	LLM       llm.LLMConfig

	Rates     domain.RateTable
	Tolerance float64
	Marker    string
	Logger    *zap.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means false.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// estimates returns an EstimateService for the requested prompt variant.
func (a *App) estimates(summary bool) estimation.EstimateService {
	builder := estimation.NewRequestBuilder(a.Rates, estimation.PromptOptions{
		WithSummary: summary,
		Marker:      a.Marker,
	})
	reconciler := estimation.NewReconciler(a.Rates, a.Tolerance, a.Marker)
	return estimation.NewEstimateService(a.Client, builder, reconciler, a.Logger)
}

// requireClient reports the precondition failure recorded at startup.
func (a *App) requireClient() error {
	if a.ClientErr != nil {
		return a.ClientErr
	}
	if a.Client == nil {
		return llm.ErrUnavailable
	}
	return nil
}

// NewRootCmd creates the top-level "scopewise" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "scopewise",
		Short:         "Plan and cost a software project with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newEstimateCmd(app),
		newPromptCmd(app),
		newReconcileCmd(app),
		newRatesCmd(app),
		newCheckCmd(app),
	)

	return root
}
