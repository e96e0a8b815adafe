package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/scopewise/internal/cli/formatter"
	"github.com/alexanderramin/scopewise/internal/estimation"
	"github.com/alexanderramin/scopewise/internal/llm"
	"github.com/charmbracelet/huh"
)

// errCancelled is returned when the user aborts the brief form.
var errCancelled = errors.New("cancelled")

// presentError renders what can be shown for err on w and returns the error
// the command should exit with. A malformed reply is still printed verbatim.
func presentError(w io.Writer, err error) error {
	var mre *estimation.MalformedResponseError
	switch {
	case errors.As(err, &mre):
		fmt.Fprint(w, formatter.FormatMalformed(mre.Raw, mre.Diagnostic))
		return err
	case errors.Is(err, estimation.ErrInvalidBrief):
		return fmt.Errorf("%w (pass --description, or run in a terminal to use the form)", err)
	case errors.Is(err, estimation.ErrService):
		if hint := errorHint(err); hint != "" {
			return fmt.Errorf("generation failed: %w\n  hint: %s", err, hint)
		}
		return fmt.Errorf("generation failed: %w", err)
	case errors.Is(err, huh.ErrUserAborted):
		return errCancelled
	}
	return err
}

// errorHint suggests a fix for common provider failures.
func errorHint(err error) string {
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return "set SCOPEWISE_LLM_API_KEY (or OPENAI_API_KEY / GEMINI_API_KEY)"
	case errors.Is(err, llm.ErrUnauthorized):
		return "the provider rejected the API key"
	case errors.Is(err, llm.ErrTimeout):
		return "raise SCOPEWISE_LLM_TIMEOUT_MS or try a smaller model"
	case errors.Is(err, llm.ErrUnavailable):
		return "check SCOPEWISE_LLM_ENDPOINT and that the provider is running (scopewise check)"
	}
	return ""
}
