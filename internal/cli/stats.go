package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"sigdump/config"
	"sigdump/internal/adapter/store"
	"sigdump/internal/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize cached extraction results",
	Long: `Print per-document and total extraction counters from the result cache written
by the last dump.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

// StatsOutput is the JSON form of the cache summary.
type StatsOutput struct {
	Documents []DocumentStats     `json:"documents"`
	Total     domain.ExtractStats `json:"total"`
}

type DocumentStats struct {
	Path  string              `json:"path"`
	Stats domain.ExtractStats `json:"stats"`
}

func runStats(cmd *cobra.Command, args []string) error {
	dbPath := config.CacheDBPath(GetRootDir())
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no result cache found. Run 'sigdump dump' first")
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open result cache: %w", err)
	}
	defer st.Close()

	results, err := st.ListResults()
	if err != nil {
		return fmt.Errorf("failed to read result cache: %w", err)
	}

	var out StatsOutput
	for _, r := range results {
		out.Documents = append(out.Documents, DocumentStats{Path: r.Document.Path, Stats: r.Stats})
		out.Total.Add(r.Stats)
	}

	w := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, d := range out.Documents {
		fmt.Fprintf(w, "%s\n", d.Path)
		fmt.Fprintf(w, "  functions: %d  accepted: %d  rejected: %d  parse failures: %d\n",
			d.Stats.Functions, d.Stats.Accepted, d.Stats.RejectedTotal(), d.Stats.ParseFailures)
	}

	total := out.Total
	fmt.Fprintf(w, "\nTotal over %d documents:\n", len(out.Documents))
	fmt.Fprintf(w, "  Declarations:   %d\n", total.Declarations)
	fmt.Fprintf(w, "  Signatures:     %d\n", total.SignatureBlocks)
	fmt.Fprintf(w, "  Functions:      %d\n", total.Functions)
	fmt.Fprintf(w, "  Accepted:       %d\n", total.Accepted)
	fmt.Fprintf(w, "  Parse failures: %d\n", total.ParseFailures)

	if len(total.Rejected) > 0 {
		reasons := make([]string, 0, len(total.Rejected))
		for reason := range total.Rejected {
			reasons = append(reasons, string(reason))
		}
		sort.Strings(reasons)
		fmt.Fprintf(w, "  Rejected:       %d\n", total.RejectedTotal())
		for _, reason := range reasons {
			fmt.Fprintf(w, "    %-20s %d\n", reason, total.Rejected[domain.RejectReason(reason)])
		}
	}
	return nil
}
