package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sigdump/internal/adapter/signature"
	"sigdump/internal/domain"
	"sigdump/internal/port"
)

// ProgressFunc is called after each document with the number processed so far.
type ProgressFunc func(processed, total int, currentFile string)

// DumpUseCase extracts canonical signatures from every document under a root and
// writes them as one artifact.
type DumpUseCase struct {
	store     port.ResultStore
	walker    port.FileWalker
	reader    port.FileReader
	writer    port.ArtifactWriter
	extractor *signature.Extractor
	logger    *slog.Logger

	parsers map[string]port.DocumentParser
	metrics port.MetricsRecorder
	workers int
}

// NewDumpUseCase creates a new dump use case.
func NewDumpUseCase(
	store port.ResultStore,
	walker port.FileWalker,
	reader port.FileReader,
	writer port.ArtifactWriter,
	extractor *signature.Extractor,
	logger *slog.Logger,
) *DumpUseCase {
	return &DumpUseCase{
		store:     store,
		walker:    walker,
		reader:    reader,
		writer:    writer,
		extractor: extractor,
		logger:    logger,
		parsers:   make(map[string]port.DocumentParser),
		metrics:   noopMetrics{},
		workers:   1,
	}
}

// RegisterParser routes documents with the given extensions to parser.
func (u *DumpUseCase) RegisterParser(parser port.DocumentParser, exts ...string) {
	for _, ext := range exts {
		u.parsers[strings.ToLower(ext)] = parser
	}
}

func (u *DumpUseCase) SetMetrics(m port.MetricsRecorder) {
	if m == nil {
		m = noopMetrics{}
	}
	u.metrics = m
}

// SetWorkers bounds how many documents are processed at once. Each document is
// still processed by a single goroutine.
func (u *DumpUseCase) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	u.workers = n
}

// DumpResult contains the results of a dump operation.
type DumpResult struct {
	DocumentsParsed  int
	DocumentsCached  int
	DocumentsDeleted int
	Stats            domain.ExtractStats
	Output           string
	Errors           []string
}

// Dump walks root, extracts every document and hands the joined output to the
// artifact writer. Failures in a single document or signature are recorded and
// skipped; only cancellation or a failed artifact write abort the run.
func (u *DumpUseCase) Dump(ctx context.Context, root string, progress ProgressFunc) (*DumpResult, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root: %w", err)
	}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk documents: %w", err)
	}

	result := &DumpResult{}
	docs := make([]*domain.DocumentResult, len(files))

	var (
		mu        sync.Mutex
		processed int
	)
	recordError := func(msg string) {
		mu.Lock()
		result.Errors = append(result.Errors, msg)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			doc, err := u.dumpFile(gctx, file)
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				u.metrics.RecordDocumentError()
				u.logger.Warn("skipping document", "path", file.Path, "error", err)
				recordError(fmt.Sprintf("failed to extract %s: %v", file.Path, err))
			} else {
				docs[i] = doc
			}

			mu.Lock()
			processed++
			if progress != nil {
				progress(processed, len(files), file.Path)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out strings.Builder
	seen := make(map[string]bool, len(files))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		seen[doc.Document.Path] = true
		if doc.Cached {
			result.DocumentsCached++
		} else {
			result.DocumentsParsed++
		}
		result.Stats.Add(doc.Stats)
		for _, sig := range doc.Signatures {
			out.WriteString(sig)
			out.WriteByte('\n')
		}
	}
	for _, file := range files {
		seen[file.Path] = true
	}

	result.DocumentsDeleted = u.pruneStale(root, seen, recordError)
	result.Output = out.String()

	if err := u.writer.Write(result.Output); err != nil {
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}
	return result, nil
}

// dumpFile reads and extracts one document.
func (u *DumpUseCase) dumpFile(ctx context.Context, file port.FileInfo) (*domain.DocumentResult, error) {
	if _, err := u.parserFor(file.Path); err != nil {
		return nil, err
	}

	content, err := u.reader.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return u.ExtractDocument(ctx, file.Path, time.Unix(file.ModTime, 0), content)
}

// ExtractDocument extracts the signatures of one document already in memory,
// reusing the stored result when the content hash is unchanged.
func (u *DumpUseCase) ExtractDocument(ctx context.Context, path string, modTime time.Time, content []byte) (*domain.DocumentResult, error) {
	parser, err := u.parserFor(path)
	if err != nil {
		return nil, err
	}
	hash := contentHash(content)

	cached, ok, err := u.store.GetResult(path)
	if err != nil {
		u.logger.Warn("ignoring unreadable cache entry", "path", path, "error", err)
	} else if ok && cached.Document.Hash == hash {
		cached.Cached = true
		u.metrics.RecordDocument(true)
		u.metrics.RecordStats(cached.Stats)
		u.logger.Debug("reusing cached result", "path", path, "signatures", len(cached.Signatures))
		return &cached, nil
	}

	blocks, err := parser.Parse(content)
	if err != nil {
		return nil, err
	}

	signatures, stats, err := u.dumpDeclarations(ctx, path, blocks)
	if err != nil {
		return nil, err
	}

	doc := &domain.DocumentResult{
		Document: domain.Document{
			ID:      generateDocID(path),
			Path:    path,
			Hash:    hash,
			ModTime: modTime,
		},
		Signatures: signatures,
		Stats:      stats,
	}
	if err := u.store.PutResult(*doc); err != nil {
		u.logger.Warn("failed to cache result", "path", path, "error", err)
	}

	u.metrics.RecordDocument(false)
	u.metrics.RecordStats(stats)
	u.logger.Debug("extracted document",
		"path", path,
		"declarations", stats.Declarations,
		"accepted", stats.Accepted,
		"rejected", stats.RejectedTotal(),
		"parse_failures", stats.ParseFailures,
	)
	return doc, nil
}

func (u *DumpUseCase) parserFor(path string) (port.DocumentParser, error) {
	ext := filepath.Ext(path)
	parser, ok := u.parsers[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("no parser for %s files", ext)
	}
	return parser, nil
}

// dumpDeclarations runs the extractor over every signature of every declaration
// block in order. A malformed signature is counted and skipped.
func (u *DumpUseCase) dumpDeclarations(ctx context.Context, path string, blocks []domain.DeclarationBlock) ([]string, domain.ExtractStats, error) {
	var (
		signatures []string
		stats      domain.ExtractStats
	)
	stats.Declarations = len(blocks)

	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		for _, sig := range block.Signatures {
			stats.SignatureBlocks++

			outcome := u.extractor.Extract(sig)
			if !outcome.IsFunction {
				continue
			}
			stats.Functions++

			switch {
			case outcome.Err != nil:
				stats.ParseFailures++
				u.logger.Debug("skipping malformed signature", "path", path, "error", outcome.Err)
			case !outcome.Verdict.Accepted:
				stats.Reject(outcome.Verdict.Reason, 1)
				u.logger.Debug("rejected signature",
					"path", path,
					"signature", outcome.Rendered,
					"reason", outcome.Verdict.Reason,
					"match", outcome.Verdict.Match,
				)
			default:
				stats.Accepted++
				signatures = append(signatures, outcome.Rendered)
			}
		}
	}
	return signatures, stats, nil
}

// pruneStale drops cached results for documents under root that no longer exist.
func (u *DumpUseCase) pruneStale(root string, seen map[string]bool, recordError func(string)) int {
	cached, err := u.store.ListResults()
	if err != nil {
		recordError(fmt.Sprintf("failed to list cached results: %v", err))
		return 0
	}

	deleted := 0
	prefix := root + string(filepath.Separator)
	for _, r := range cached {
		path := r.Document.Path
		if seen[path] || (path != root && !strings.HasPrefix(path, prefix)) {
			continue
		}
		if err := u.store.DeleteResult(path); err != nil {
			recordError(fmt.Sprintf("failed to delete cached result for %s: %v", path, err))
			continue
		}
		deleted++
	}
	return deleted
}

func contentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:16])
}

// generateDocID creates a unique ID for a document based on its path.
func generateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}

type noopMetrics struct{}

func (noopMetrics) RecordDocument(bool)             {}
func (noopMetrics) RecordStats(domain.ExtractStats) {}
func (noopMetrics) RecordDocumentError()            {}
