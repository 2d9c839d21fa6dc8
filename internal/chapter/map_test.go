package chapter

import (
	"path/filepath"
	"testing"
)

func TestBuildMap(t *testing.T) {
	found := []Boundary{
		{Number: 1, Heading: "第1回", StartLine: 1, EndLine: 10},
		{Number: 3, Heading: "第3回", StartLine: 11, EndLine: 0},
	}
	m := BuildMap(found, 4)

	if len(m.Chapters) != 4 {
		t.Fatalf("chapters = %d, want 4", len(m.Chapters))
	}
	for i, b := range m.Chapters {
		if b.Number != i+1 {
			t.Fatalf("chapter %d has number %d", i, b.Number)
		}
	}
	if m.Chapters[1].StartLine != 0 || !m.Chapters[1].Placeholder() {
		t.Fatalf("chapter 2 should be placeholder: %+v", m.Chapters[1])
	}
	if m.Chapters[2].Placeholder() {
		t.Fatalf("chapter 3 should not be placeholder")
	}

	missing := m.MissingNumbers()
	if len(missing) != 2 || missing[0] != 2 || missing[1] != 4 {
		t.Fatalf("missing = %v", missing)
	}
	foundNums := m.Found()
	if len(foundNums) != 2 || foundNums[0] != 1 || foundNums[1] != 3 {
		t.Fatalf("found = %v", foundNums)
	}
}

func TestSaveLoadMap(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "chapters_config.json")

	m := BuildMap([]Boundary{{Number: 2, Heading: "第2章", StartLine: 5, EndLine: 9}}, 3)
	if err := SaveMap(m, p); err != nil {
		t.Fatalf("SaveMap: %v", err)
	}
	got, err := LoadMap(p)
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if got.TotalChapters != 3 || len(got.Chapters) != 3 {
		t.Fatalf("got %+v", got)
	}
	if got.Chapters[1].StartLine != 5 || got.Chapters[1].EndLine != 9 {
		t.Fatalf("roundtrip mismatch: %+v", got.Chapters[1])
	}
}

func TestLoadMapMissingFile(t *testing.T) {
	if _, err := LoadMap(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error")
	}
}
