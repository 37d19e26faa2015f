package memstore

import (
	"testing"

	"sigdump/internal/domain"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()

	sigs := []string{"add: (Int, Int) -> Int"}
	in := domain.DocumentResult{
		Document:   domain.Document{Path: "/b.html", Hash: "h1"},
		Signatures: sigs,
	}
	if err := s.PutResult(in); err != nil {
		t.Fatal(err)
	}
	if err := s.PutResult(domain.DocumentResult{Document: domain.Document{Path: "/a.html"}}); err != nil {
		t.Fatal(err)
	}

	sigs[0] = "mutated"
	got, ok, err := s.GetResult("/b.html")
	if err != nil || !ok {
		t.Fatalf("expected result, ok=%v err=%v", ok, err)
	}
	if got.Signatures[0] != "add: (Int, Int) -> Int" {
		t.Errorf("stored signatures alias the caller's slice: %v", got.Signatures)
	}

	list, _ := s.ListResults()
	if len(list) != 2 || list[0].Document.Path != "/a.html" {
		t.Errorf("expected results sorted by path, got %v", list)
	}

	if err := s.DeleteResult("/a.html"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.GetResult("/a.html"); ok {
		t.Error("expected /a.html deleted")
	}
}
