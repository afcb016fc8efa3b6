package catalogs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/models"
)

func testSnapshot() *models.CatalogSnapshot {
	return &models.CatalogSnapshot{
		Step: "topics",
		Entries: []models.CatalogEntry{
			{ID: "top_food", Name: "Food & Drink", Slug: "food-drink"},
			{ID: "top_hist", Name: "History", Slug: "history"},
			{ID: "top_art", Name: "Art & Design", Slug: "art-design"},
		},
	}
}

func TestResolver_ResolveSelection(t *testing.T) {
	r := NewResolver(testSnapshot())

	tests := []struct {
		name     string
		selected []string
		wantIDs  []string
	}{
		{"by id", []string{"top_food"}, []string{"top_food"}},
		{"by slug", []string{"history"}, []string{"top_hist"}},
		{"slug case insensitive", []string{"FOOD-DRINK"}, []string{"top_food"}},
		{"id before slug", []string{"top_art", "history"}, []string{"top_art", "top_hist"}},
		{"unresolved dropped", []string{"top_food", "nope"}, []string{"top_food"}},
		{"duplicates collapse", []string{"top_food", "food-drink"}, []string{"top_food"}},
		{"blank items skipped", []string{"", "  ", "top_hist"}, []string{"top_hist"}},
		{"nothing resolves", []string{"nope"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveSelection(tt.selected)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("resolved %d entries, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("entry %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestResolver_ResolveNames(t *testing.T) {
	r := NewResolver(testSnapshot())

	got := r.ResolveNames([]string{"food & drink", "History", "Unknown Topic", "HISTORY"})
	if len(got) != 2 {
		t.Fatalf("resolved %d entries, want 2", len(got))
	}
	if got[0].ID != "top_food" || got[1].ID != "top_hist" {
		t.Errorf("resolved = [%s %s], want [top_food top_hist]", got[0].ID, got[1].ID)
	}
}

func TestResolver_NilSnapshot(t *testing.T) {
	r := NewResolver(nil)
	if got := r.ResolveSelection([]string{"anything"}); got != nil {
		t.Errorf("nil snapshot resolved %v, want nothing", got)
	}
	if r.Len() != 0 {
		t.Errorf("nil snapshot Len() = %d, want 0", r.Len())
	}
}

func TestFileProvider_Snapshot(t *testing.T) {
	dir := t.TempDir()
	content := `step = "topics"

[[entries]]
id = "top_food"
name = "Food & Drink"
slug = "food-drink"

[[entries]]
id = ""
name = "Orphan"
slug = "orphan"
`
	if err := os.WriteFile(filepath.Join(dir, "topics.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	provider := NewFileProvider(dir, arbor.NewLogger())
	snapshot, err := provider.Snapshot(context.Background(), "topics")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if len(snapshot.Entries) != 1 {
		t.Fatalf("entries = %d, want 1 (entry without id skipped)", len(snapshot.Entries))
	}
	if snapshot.Entries[0].ID != "top_food" {
		t.Errorf("entry id = %s, want top_food", snapshot.Entries[0].ID)
	}
}

func TestFileProvider_RejectsPathTraversal(t *testing.T) {
	provider := NewFileProvider(t.TempDir(), arbor.NewLogger())
	if _, err := provider.Snapshot(context.Background(), "../secrets"); err == nil {
		t.Error("Snapshot() must reject step names containing path separators")
	}
}

func TestFileProvider_MissingFile(t *testing.T) {
	provider := NewFileProvider(t.TempDir(), arbor.NewLogger())
	if _, err := provider.Snapshot(context.Background(), "topics"); err == nil {
		t.Error("Snapshot() expected error for missing catalog file")
	}
}
