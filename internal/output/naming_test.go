package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChapterPaths(t *testing.T) {
	if got := RawChapterPath("chapters_raw", 7); got != filepath.Join("chapters_raw", "chapter_07.txt") {
		t.Fatalf("raw path = %q", got)
	}
	if got := RawChapterPath("chapters_raw", 103); got != filepath.Join("chapters_raw", "chapter_103.txt") {
		t.Fatalf("raw path = %q", got)
	}
	if got := ResultChapterPath("result", 7); got != filepath.Join("result", "第07章.md") {
		t.Fatalf("result path = %q", got)
	}
}

func TestParseRawChapterName(t *testing.T) {
	cases := []struct {
		name string
		want int
		ok   bool
	}{
		{"chapter_01.txt", 1, true},
		{"chapter_100.txt", 100, true},
		{"chapter_00.txt", 0, false},
		{"chapter_1.txt", 0, false},
		{"chapter_01.md", 0, false},
		{"第01章.md", 0, false},
	}
	for _, tc := range cases {
		n, ok := ParseRawChapterName(tc.name)
		if ok != tc.ok || n != tc.want {
			t.Fatalf("ParseRawChapterName(%q) = %d, %v", tc.name, n, ok)
		}
	}
}

func TestParseResultChapterName(t *testing.T) {
	cases := []struct {
		name string
		want int
		ok   bool
	}{
		{"第01章.md", 1, true},
		{"第100章.md", 100, true},
		{"第00章.md", 0, false},
		{"第1章.md", 0, false},
		{"chapter_01.txt", 0, false},
		{"README.md", 0, false},
	}
	for _, tc := range cases {
		n, ok := ParseResultChapterName(tc.name)
		if ok != tc.ok || n != tc.want {
			t.Fatalf("ParseResultChapterName(%q) = %d, %v", tc.name, n, ok)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("dir not created: %v", err)
	}
	// 幂等。
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir twice: %v", err)
	}
	if err := EnsureDir(""); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
