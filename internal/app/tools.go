package app

import (
	"fmt"
	"time"

	"hly-press/internal/epub"
	"hly-press/internal/logging"
	"hly-press/internal/progress"
	"hly-press/internal/search"
)

// RunProgress 打印处理进度汇总。
func RunProgress(opts Options) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	ledger, err := progress.Load(rt.paths.ProgressFile)
	if err != nil {
		return err
	}
	if len(ledger) == 0 {
		fmt.Fprintln(rt.stdout, "进度文件不存在或为空，先运行 format 阶段")
		return nil
	}
	fmt.Fprintln(rt.stdout, ledger.Summarize().String())
	return nil
}

// RunEPUB 把全部章节合并为一本 EPUB 电子书。
func RunEPUB(opts Options) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	start := time.Now()
	meta := epub.Metadata{
		Identifier: "hly_complete_001",
		Title:      rt.cfg.EPUB.Title,
		Author:     rt.cfg.EPUB.Author,
		Language:   rt.cfg.EPUB.Language,
	}
	count, err := epub.Build(rt.paths.ResultDir, meta, rt.paths.EPUBFile)
	if err != nil {
		rt.logger.Emit(logging.Event{Level: "error", Stage: "epub", Event: "epub_failed", Error: err.Error()})
		return err
	}
	rt.logger.Emit(logging.Event{Stage: "epub", Event: "epub_ok", Count: count, OutputFile: rt.paths.EPUBFile, LatencyMS: time.Since(start).Milliseconds()})
	fmt.Fprintf(rt.stdout, "EPUB 生成完成：收录 %d 章，输出 %s\n", count, rt.paths.EPUBFile)
	return nil
}

// RunSearch 在结果目录的章节中检索并打印匹配章节。
func RunSearch(opts Options, query string) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	ix, err := search.LoadDir(rt.paths.ResultDir)
	if err != nil {
		return err
	}
	matches := ix.Filter(query)
	if len(matches) == 0 {
		fmt.Fprintf(rt.stdout, "没有匹配 %q 的章节\n", query)
		return nil
	}
	for _, d := range matches {
		fmt.Fprintf(rt.stdout, "%s\n", d.Title)
	}
	fmt.Fprintf(rt.stdout, "共 %d 章匹配\n", len(matches))
	return nil
}
