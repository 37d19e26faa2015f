//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"strings"
	"syscall/js"
	"time"

	"sigdump/config"
	"sigdump/internal/adapter/logging"
	"sigdump/internal/adapter/markup"
	"sigdump/internal/adapter/memstore"
	"sigdump/internal/adapter/signature"
	"sigdump/internal/domain"
	"sigdump/internal/usecase"
)

var (
	store  *memstore.MemoryStore
	dumpUC *usecase.DumpUseCase
)

func init() {
	reset()
}

// reset builds a fresh in-memory extractor. Only reference pages are supported
// here; the Kotlin source lexer needs cgo.
func reset() {
	cfg := config.DefaultConfig()

	htmlParser, err := markup.NewHTMLParser(
		cfg.Extract.DeclarationSelector,
		cfg.Extract.SignatureSelector,
		cfg.Extract.KeywordClass,
	)
	if err != nil {
		panic(err)
	}

	store = memstore.NewMemoryStore()
	extractor := signature.NewExtractor(signature.NewFilter(cfg.Filter.Denylist), signature.RenderOptions{})
	dumpUC = usecase.NewDumpUseCase(store, nil, nil, nil, extractor, logging.Discard())
	dumpUC.RegisterParser(htmlParser, ".html", ".htm")
}

func main() {
	c := make(chan struct{})

	js.Global().Set("sigdumpExtract", js.FuncOf(extractContent))
	js.Global().Set("sigdumpDump", js.FuncOf(dumpAll))
	js.Global().Set("sigdumpClear", js.FuncOf(clearResults))
	js.Global().Set("sigdumpStats", js.FuncOf(getStats))

	<-c
}

func extractContent(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: sigdumpExtract(filename, html)")
	}

	filename := args[0].String()
	content := args[1].String()

	doc, err := dumpUC.ExtractDocument(context.Background(), filename, time.Now(), []byte(content))
	if err != nil {
		return makeError("extraction failed: " + err.Error())
	}

	return makeResult(map[string]interface{}{
		"filename":   filename,
		"signatures": doc.Signatures,
		"stats":      doc.Stats,
	})
}

func dumpAll(this js.Value, args []js.Value) interface{} {
	results, _ := store.ListResults()

	var out strings.Builder
	for _, r := range results {
		for _, sig := range r.Signatures {
			out.WriteString(sig)
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func clearResults(this js.Value, args []js.Value) interface{} {
	reset()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	results, _ := store.ListResults()

	var total domain.ExtractStats
	filenames := make([]string, len(results))
	for i, r := range results {
		filenames[i] = r.Document.Path
		total.Add(r.Stats)
	}

	return makeResult(map[string]interface{}{
		"totalDocs": len(results),
		"total":     total,
		"files":     filenames,
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
