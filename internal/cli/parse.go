package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"sigdump/internal/adapter/kotlinsrc"
	"sigdump/internal/adapter/signature"
	"sigdump/internal/domain"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse <signature>...",
	Short: "Extract a single Kotlin signature",
	Long: `Lex each argument as a Kotlin declaration header and print its canonical
form together with the acceptance verdict. Useful for checking how a signature
from a reference page will be treated.

Examples:
  sigdump parse "fun add(a: Int, b: Int): Int"
  sigdump parse "suspend fun fetch(): String" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "output as JSON")
}

// ParseOutput is the JSON form of one parsed signature.
type ParseOutput struct {
	Input    string              `json:"input"`
	Function bool                `json:"function"`
	Rendered string              `json:"rendered,omitempty"`
	Accepted bool                `json:"accepted"`
	Reason   domain.RejectReason `json:"reason,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	extractor := signature.NewExtractor(
		signature.NewFilter(cfg.Filter.Denylist),
		signature.RenderOptions{UnitForEmptyParams: cfg.Filter.UnitForEmptyParams},
	)

	outputs := make([]ParseOutput, 0, len(args))
	for _, snippet := range args {
		block, err := kotlinsrc.Lex(cmd.Context(), snippet)
		if err != nil {
			return err
		}

		outcome := extractor.Extract(block)
		out := ParseOutput{
			Input:    snippet,
			Function: outcome.IsFunction,
			Rendered: outcome.Rendered,
			Accepted: outcome.Emitted(),
			Reason:   outcome.Verdict.Reason,
		}
		if outcome.Err != nil {
			out.Error = outcome.Err.Error()
		}
		outputs = append(outputs, out)
	}

	w := cmd.OutOrStdout()
	if parseJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outputs)
	}

	for _, out := range outputs {
		switch {
		case !out.Function:
			fmt.Fprintf(w, "%s\n  not a function\n", out.Input)
		case out.Error != "":
			fmt.Fprintf(w, "%s\n  parse error: %s\n", out.Input, out.Error)
		case out.Accepted:
			fmt.Fprintf(w, "%s\n  %s\n", out.Input, out.Rendered)
		default:
			fmt.Fprintf(w, "%s\n  %s (rejected: %s)\n", out.Input, out.Rendered, out.Reason)
		}
	}
	return nil
}
