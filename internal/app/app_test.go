package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"

	"hly-press/internal/progress"
)

// 四章小语料：第1、4章正文完整，第2章过短会被判缺失，第3章没有标记。
func writeCorpus(t *testing.T, dir string) {
	t.Helper()

	corpus := strings.Join([]string{
		"级别: 精灵王 发帖: 107",
		"第1回 开篇",
		strings.Repeat("贾府旧事说来话长。", 15),
		"第2回",
		"短短的一章。",
		"第四回 结局",
		strings.Repeat("大观园诸事终了。", 15),
	}, "\n") + "\n"

	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(corpus))
	if err != nil {
		t.Fatalf("encode corpus: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hl.txt"), gbk, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := "source_file: hl.txt\ntotal_chapters: 4\nconcurrency: 2\n"
	if err := os.WriteFile(filepath.Join(dir, "hly-press.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testOptions(dir string, out *bytes.Buffer) Options {
	return Options{CWD: dir, Stdout: out, Stderr: out}
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir)

	var out bytes.Buffer
	res, err := RunAll(testOptions(dir, &out))
	if err != nil {
		t.Fatalf("RunAll: %v\n%s", err, out.String())
	}
	if res.Succeeded != 2 || res.Placeholder != 2 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}

	cleaned, err := os.ReadFile(filepath.Join(dir, "hl_cleaned.txt"))
	if err != nil {
		t.Fatalf("cleaned file: %v", err)
	}
	if strings.Contains(string(cleaned), "级别") {
		t.Fatalf("boilerplate survived cleaning:\n%s", cleaned)
	}
	if !strings.Contains(string(cleaned), "第1回 开篇") {
		t.Fatalf("gbk decode lost content:\n%s", cleaned)
	}

	for _, name := range []string{"chapters_config.json", "chapter_analysis_report.md", "chapters_list.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("analysis artifact missing: %v", err)
		}
	}

	// 每一章都有原始切片和最终 Markdown，编号连续。
	for n := 1; n <= 4; n++ {
		raw := filepath.Join(dir, "chapters_raw", fmt.Sprintf("chapter_%02d.txt", n))
		if _, err := os.Stat(raw); err != nil {
			t.Fatalf("raw chapter %d missing: %v", n, err)
		}
		md, err := os.ReadFile(filepath.Join(dir, "result", fmt.Sprintf("第%02d章.md", n)))
		if err != nil {
			t.Fatalf("result chapter %d missing: %v", n, err)
		}
		if !strings.Contains(string(md), "---\nchapter:") {
			t.Fatalf("chapter %d has no front matter:\n%s", n, md)
		}
	}

	ch1, _ := os.ReadFile(filepath.Join(dir, "result", "第01章.md"))
	if !strings.Contains(string(ch1), "# 第1章") || !strings.Contains(string(ch1), "贾府旧事") {
		t.Fatalf("chapter 1 content wrong:\n%s", ch1)
	}
	if strings.Contains(string(ch1), "开篇") {
		t.Fatalf("chapter 1 kept the original subtitle:\n%s", ch1)
	}
	for _, n := range []int{2, 3} {
		md, _ := os.ReadFile(filepath.Join(dir, "result", fmt.Sprintf("第%02d章.md", n)))
		if !strings.Contains(string(md), "本章节在原文档中缺失") {
			t.Fatalf("chapter %d should be a placeholder:\n%s", n, md)
		}
	}
	ch4, _ := os.ReadFile(filepath.Join(dir, "result", "第04章.md"))
	if !strings.Contains(string(ch4), "# 第4章") || !strings.Contains(string(ch4), "大观园") {
		t.Fatalf("chapter 4 content wrong:\n%s", ch4)
	}

	ledger, err := progress.Load(filepath.Join(dir, "progress.json"))
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	s := ledger.Summarize()
	if s.Completed != 2 || s.Skipped != 2 || s.Errors != 0 {
		t.Fatalf("progress summary = %+v", s)
	}
}

func TestRunFormatIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir)

	var out bytes.Buffer
	if _, err := RunAll(testOptions(dir, &out)); err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	first := readResultDir(t, filepath.Join(dir, "result"))

	if _, err := RunFormat(testOptions(dir, &out)); err != nil {
		t.Fatalf("RunFormat again: %v", err)
	}
	second := readResultDir(t, filepath.Join(dir, "result"))

	if len(first) != len(second) {
		t.Fatalf("file count changed: %d vs %d", len(first), len(second))
	}
	for name, content := range first {
		if second[name] != content {
			t.Fatalf("chapter %s changed on second run", name)
		}
	}
}

func TestRunFormatSingleChapter(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir)

	var out bytes.Buffer
	opts := testOptions(dir, &out)
	if err := RunClean(opts); err != nil {
		t.Fatal(err)
	}
	if err := RunAnalyze(opts); err != nil {
		t.Fatal(err)
	}
	if err := RunExtract(opts); err != nil {
		t.Fatal(err)
	}

	opts.Chapter = 1
	res, err := RunFormat(opts)
	if err != nil {
		t.Fatalf("RunFormat: %v", err)
	}
	if res.Succeeded != 1 || res.Placeholder != 0 {
		t.Fatalf("result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(dir, "result", "第01章.md")); err != nil {
		t.Fatalf("chapter 1 missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "result", "第02章.md")); err == nil {
		t.Fatalf("chapter 2 should not exist yet")
	}
}

func TestRunFormatInvalidRange(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir)

	var out bytes.Buffer
	opts := testOptions(dir, &out)
	opts.Start, opts.End = 3, 99
	if _, err := RunFormat(opts); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestRunProgressAndTools(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir)

	var out bytes.Buffer
	opts := testOptions(dir, &out)

	// format 之前没有进度可汇报。
	if err := RunProgress(opts); err != nil {
		t.Fatalf("RunProgress: %v", err)
	}
	if !strings.Contains(out.String(), "先运行 format 阶段") {
		t.Fatalf("output = %q", out.String())
	}

	if _, err := RunAll(opts); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := RunProgress(opts); err != nil {
		t.Fatalf("RunProgress: %v", err)
	}
	if !strings.Contains(out.String(), "总章节数 4") {
		t.Fatalf("output = %q", out.String())
	}

	if err := RunEPUB(opts); err != nil {
		t.Fatalf("RunEPUB: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "hly_complete.epub")); err != nil {
		t.Fatalf("epub missing: %v", err)
	}

	out.Reset()
	if err := RunSearch(opts, "贾府"); err != nil {
		t.Fatalf("RunSearch: %v", err)
	}
	if !strings.Contains(out.String(), "第1章") || !strings.Contains(out.String(), "共 1 章匹配") {
		t.Fatalf("search output = %q", out.String())
	}

	out.Reset()
	if err := RunSearch(opts, "不存在的词"); err != nil {
		t.Fatalf("RunSearch: %v", err)
	}
	if !strings.Contains(out.String(), "没有匹配") {
		t.Fatalf("search output = %q", out.String())
	}
}

func TestRunCleanMissingSource(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	if err := RunClean(testOptions(dir, &out)); err == nil {
		t.Fatalf("expected error for missing source file")
	}
}

func readResultDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]string{}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		out[e.Name()] = string(data)
	}
	return out
}
