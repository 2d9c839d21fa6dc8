package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hly-press/internal/analyzer"
	"hly-press/internal/chapter"
	"hly-press/internal/output"
)

func writeCorpus(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "hl_cleaned.txt")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSlice(t *testing.T) {
	lines := []string{"一", "二", "三", "四", "五"}

	t.Run("inner range", func(t *testing.T) {
		got := Slice(lines, chapter.Boundary{StartLine: 2, EndLine: 4})
		if got != "二\n三\n四\n" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("to eof", func(t *testing.T) {
		got := Slice(lines, chapter.Boundary{StartLine: 4})
		if got != "四\n五\n" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("placeholder boundary", func(t *testing.T) {
		if got := Slice(lines, chapter.Boundary{}); got != "" {
			t.Fatalf("got %q", got)
		}
	})
}

func TestExtractAll(t *testing.T) {
	d := t.TempDir()
	long := strings.Repeat("这一章的正文足够长。", 10)
	corpus := "第1章 开篇\n" + long + "\n第2章 短\n短\n第3章 结尾\n" + long + "\n"
	corpusPath := writeCorpus(t, d, corpus)

	res, err := analyzer.Analyze(corpus, 4)
	if err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(d, "chapters_raw")
	statuses, err := ExtractAll(corpusPath, res.Map, outDir, 100)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	t.Run("one file per chapter, numbering contiguous", func(t *testing.T) {
		if len(statuses) != 4 {
			t.Fatalf("statuses = %d, want 4", len(statuses))
		}
		for n := 1; n <= 4; n++ {
			p := output.RawChapterPath(outDir, n)
			if _, err := os.Stat(p); err != nil {
				t.Fatalf("chapter %d file missing: %v", n, err)
			}
		}
	})

	t.Run("short slice classified missing", func(t *testing.T) {
		if !statuses[1].Missing {
			t.Fatalf("chapter 2 should be missing: %+v", statuses[1])
		}
		raw, err := os.ReadFile(output.RawChapterPath(outDir, 2))
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != PlaceholderText(2) {
			t.Fatalf("got %q", raw)
		}
	})

	t.Run("gap chapter gets placeholder file", func(t *testing.T) {
		if !statuses[3].Missing {
			t.Fatalf("chapter 4 should be missing")
		}
		raw, err := os.ReadFile(output.RawChapterPath(outDir, 4))
		if err != nil {
			t.Fatal(err)
		}
		if !IsPlaceholder(string(raw)) {
			t.Fatalf("got %q", raw)
		}
	})

	t.Run("real chapters keep their slice", func(t *testing.T) {
		raw, err := os.ReadFile(output.RawChapterPath(outDir, 1))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(raw), "第1章 开篇\n") {
			t.Fatalf("got %q", raw)
		}
		if statuses[0].Missing {
			t.Fatalf("chapter 1 misclassified")
		}
	})
}

func TestRenderList(t *testing.T) {
	m := chapter.BuildMap([]chapter.Boundary{
		{Number: 1, Heading: "第1章", StartLine: 1, EndLine: 4},
	}, 2)
	statuses := []Status{
		{Number: 1, Missing: false},
		{Number: 2, Missing: true},
	}
	got := RenderList(m, statuses)
	for _, want := range []string{"章节目录清单", "总章节数: 2", "第1章", "缺失章节:", "第2章"} {
		if !strings.Contains(got, want) {
			t.Fatalf("list missing %q:\n%s", want, got)
		}
	}
}
