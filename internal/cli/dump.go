package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"sigdump/config"
	"sigdump/internal/adapter/fs"
	"sigdump/internal/adapter/kotlinsrc"
	"sigdump/internal/adapter/markup"
	"sigdump/internal/adapter/memstore"
	"sigdump/internal/adapter/metrics"
	"sigdump/internal/adapter/signature"
	"sigdump/internal/adapter/store"
	"sigdump/internal/port"
	"sigdump/internal/usecase"
)

var (
	dumpOutput  string
	dumpWorkers int
	dumpNoCache bool
	dumpQuiet   bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump [path]",
	Short: "Extract canonical signatures into a declarations file",
	Long: `Extract every function signature from the reference pages and Kotlin sources
under path (a directory or a single file) and write the accepted ones to the
output artifact. Results are cached per document in .sigdump/cache.db and
reused while the document content is unchanged.

Examples:
  sigdump dump                         # Current directory into declarations.txt
  sigdump dump ./docs -o -             # Print to stdout
  sigdump dump stdlib.html --no-cache`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "output file, - for stdout (default from config)")
	dumpCmd.Flags().IntVarP(&dumpWorkers, "workers", "w", 0, "documents processed in parallel (default from config)")
	dumpCmd.Flags().BoolVar(&dumpNoCache, "no-cache", false, "ignore and do not update the result cache")
	dumpCmd.Flags().BoolVarP(&dumpQuiet, "quiet", "q", false, "no progress bar or summary")
}

func runDump(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		path = args[0]
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	cfg := GetConfig()
	log := GetLogger()

	outputPath := cfg.Output.Path
	if dumpOutput != "" {
		outputPath = dumpOutput
	}

	// Keep stdout clean for the artifact when it is written there.
	var console io.Writer = cmd.OutOrStdout()
	if outputPath == fs.StdoutPath {
		console = cmd.ErrOrStderr()
	}
	if dumpQuiet {
		console = io.Discard
	}

	var results port.ResultStore
	dbPath := config.CacheDBPath(GetRootDir())
	if cfg.Cache.Enabled && !dumpNoCache {
		if err := config.EnsureDir(GetRootDir()); err != nil {
			return fmt.Errorf("failed to create .sigdump directory: %w", err)
		}
		st, err := store.NewBoltStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open result cache: %w", err)
		}
		defer st.Close()

		migration, err := st.Migrate(cfg)
		if err != nil {
			return fmt.Errorf("failed to migrate result cache: %w", err)
		}
		if migration.NeedsRebuild {
			fmt.Fprintf(console, "Result cache cleared: %s\n", migration.Reason)
		}
		results = st
	} else {
		results = memstore.NewMemoryStore()
	}

	htmlParser, err := markup.NewHTMLParser(
		cfg.Extract.DeclarationSelector,
		cfg.Extract.SignatureSelector,
		cfg.Extract.KeywordClass,
	)
	if err != nil {
		return fmt.Errorf("invalid selector config: %w", err)
	}

	extractor := signature.NewExtractor(
		signature.NewFilter(cfg.Filter.Denylist),
		signature.RenderOptions{UnitForEmptyParams: cfg.Filter.UnitForEmptyParams},
	)

	dumpUC := usecase.NewDumpUseCase(
		results,
		fs.NewWalker(cfg.Extract.Includes, cfg.Extract.Excludes),
		fs.Reader{},
		fs.NewArtifactFile(outputPath),
		extractor,
		log,
	)
	dumpUC.RegisterParser(htmlParser, ".html", ".htm")
	dumpUC.RegisterParser(kotlinsrc.NewParser(), ".kt", ".kts")

	workers := cfg.Extract.Workers
	if dumpWorkers > 0 {
		workers = dumpWorkers
	}
	dumpUC.SetWorkers(workers)

	recorder := metrics.NewRecorder()
	dumpUC.SetMetrics(recorder)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(console, "Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progressCallback := func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(console),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Extracting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(console)
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Extracting[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	result, err := dumpUC.Dump(ctx, path, progressCallback)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	stats := result.Stats
	fmt.Fprintf(console, "\nExtraction complete:\n")
	fmt.Fprintf(console, "  Documents parsed:  %d\n", result.DocumentsParsed)
	fmt.Fprintf(console, "  Documents cached:  %d (unchanged)\n", result.DocumentsCached)
	fmt.Fprintf(console, "  Documents removed: %d\n", result.DocumentsDeleted)
	fmt.Fprintf(console, "  Declarations:      %d\n", stats.Declarations)
	fmt.Fprintf(console, "  Functions:         %d\n", stats.Functions)
	fmt.Fprintf(console, "  Accepted:          %d\n", stats.Accepted)
	fmt.Fprintf(console, "  Rejected:          %d\n", stats.RejectedTotal())
	fmt.Fprintf(console, "  Parse failures:    %d\n", stats.ParseFailures)

	if len(result.Errors) > 0 {
		fmt.Fprintf(console, "\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(console, "  - %s\n", e)
		}
	}

	if outputPath != fs.StdoutPath {
		fmt.Fprintf(console, "\nDeclarations written to: %s\n", outputPath)
	}
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
