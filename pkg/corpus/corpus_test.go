package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore() *Store {
	return New("company-database", []Record{
		{Key: "Acme Corp", Value: "Founded 1990"},
		{Key: "Products", Value: "Acme sells rockets and anvils", Category: "catalog"},
		{Key: "Headquarters", Value: "Desert Plains, NM"},
	})
}

func TestLookupSubstringCaseInsensitive(t *testing.T) {
	store := testStore()
	got := store.Lookup("acme")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	// Insertion order among matches.
	if got[0].Key != "Acme Corp" || got[1].Key != "Products" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestLookupNoMatch(t *testing.T) {
	store := testStore()
	if got := store.Lookup("zzz-nomatch"); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	if got := store.Lookup("", "   "); got != nil {
		t.Fatalf("blank terms must yield nil, got %v", got)
	}
}

func TestLookupMatchesValues(t *testing.T) {
	store := testStore()
	got := store.Lookup("1990")
	if len(got) != 1 || got[0].Key != "Acme Corp" {
		t.Fatalf("expected value match, got %v", got)
	}
}

func TestSourceTagDefault(t *testing.T) {
	store := testStore()
	recs := store.Records()
	if recs[0].SourceTag != "company-database - Acme Corp" {
		t.Fatalf("unexpected source tag %q", recs[0].SourceTag)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json")
	payload := `[
		{"key": "Acme Corp", "value": "Founded 1990", "category": "profile"},
		{"key": "Mission", "value": "Build better anvils"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := LoadFile("company-database", path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", store.Len())
	}
	if store.Records()[0].Category != "profile" {
		t.Fatalf("category not preserved")
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile("x", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile("x", path); err == nil {
		t.Fatalf("expected error for malformed file")
	}
}
