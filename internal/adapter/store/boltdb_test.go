package store

import (
	"path/filepath"
	"testing"
	"time"

	"sigdump/config"
	"sigdump/internal/domain"
)

func openStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleResult(path string) domain.DocumentResult {
	return domain.DocumentResult{
		Document: domain.Document{
			ID:      "doc1",
			Path:    path,
			Hash:    "abc123",
			ModTime: time.Unix(1700000000, 0),
		},
		Signatures: []string{"add: (Int, Int) -> Int", "reset: () -> Unit"},
		Stats: domain.ExtractStats{
			Declarations: 2,
			Functions:    3,
			Accepted:     2,
			Rejected:     map[domain.RejectReason]int{domain.RejectOptional: 1},
		},
	}
}

func TestBoltStore_PutGetResult(t *testing.T) {
	st := openStore(t)

	if err := st.PutResult(sampleResult("/docs/kotlin.html")); err != nil {
		t.Fatal(err)
	}

	got, ok, err := st.GetResult("/docs/kotlin.html")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected cached result")
	}
	if got.Document.Hash != "abc123" {
		t.Errorf("expected hash abc123, got %s", got.Document.Hash)
	}
	if len(got.Signatures) != 2 || got.Signatures[1] != "reset: () -> Unit" {
		t.Errorf("unexpected signatures %v", got.Signatures)
	}
	if got.Stats.Rejected[domain.RejectOptional] != 1 {
		t.Errorf("expected rejection counts to survive, got %v", got.Stats.Rejected)
	}
	if !got.Document.ModTime.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected mod time %v", got.Document.ModTime)
	}
}

func TestBoltStore_Missing(t *testing.T) {
	st := openStore(t)

	_, ok, err := st.GetResult("/nope.html")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no result")
	}
}

func TestBoltStore_DeleteAndList(t *testing.T) {
	st := openStore(t)

	for _, p := range []string{"/a.html", "/b.html"} {
		if err := st.PutResult(sampleResult(p)); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.DeleteResult("/a.html"); err != nil {
		t.Fatal(err)
	}

	results, err := st.ListResults()
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Document.Path != "/b.html" {
		t.Errorf("expected only /b.html, got %v", results)
	}
}

func TestBoltStore_Migrate(t *testing.T) {
	st := openStore(t)
	cfg := config.DefaultConfig()

	res, err := st.Migrate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.NeedsRebuild {
		t.Error("fresh store should not need a rebuild")
	}

	if err := st.PutResult(sampleResult("/a.html")); err != nil {
		t.Fatal(err)
	}

	res, err = st.Migrate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.NeedsRebuild {
		t.Error("unchanged config should not need a rebuild")
	}

	cfg.Filter.Denylist = append(cfg.Filter.Denylist, "Sequence")
	res, err = st.Migrate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !res.NeedsRebuild {
		t.Fatal("changed denylist should need a rebuild")
	}

	results, err := st.ListResults()
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected cache cleared, got %d results", len(results))
	}
}

func TestComputeConfigHash(t *testing.T) {
	a := config.DefaultConfig()
	b := config.DefaultConfig()
	if ComputeConfigHash(a) != ComputeConfigHash(b) {
		t.Error("equal configs should hash equally")
	}

	b.Extract.Workers = 16
	if ComputeConfigHash(a) != ComputeConfigHash(b) {
		t.Error("worker count does not affect output and should not change the hash")
	}

	b.Filter.UnitForEmptyParams = true
	if ComputeConfigHash(a) == ComputeConfigHash(b) {
		t.Error("render option should change the hash")
	}
}
