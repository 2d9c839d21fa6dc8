package app

import (
	"fmt"
	"time"

	"hly-press/internal/analyzer"
	"hly-press/internal/chapter"
	"hly-press/internal/cleaner"
	"hly-press/internal/extractor"
	"hly-press/internal/logging"
)

// RunClean 把原始文本清理为 UTF-8 语料。
func RunClean(opts Options) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	start := time.Now()
	if err := cleaner.CleanFile(rt.paths.SourceFile, rt.paths.CleanedFile, rt.cfg.BoilerplateMarkers); err != nil {
		rt.logger.Emit(logging.Event{Level: "error", Stage: "clean", Event: "clean_failed", Input: rt.paths.SourceFile, Error: err.Error()})
		return err
	}
	rt.logger.Emit(logging.Event{Stage: "clean", Event: "clean_ok", Input: rt.paths.SourceFile, OutputFile: rt.paths.CleanedFile, LatencyMS: time.Since(start).Milliseconds()})
	fmt.Fprintf(rt.stdout, "清理完成：%s\n", rt.paths.CleanedFile)
	return nil
}

// RunAnalyze 扫描语料生成章节表与分析报告。
// 语料中没有任何章节标记时返回致命错误。
func RunAnalyze(opts Options) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	res, err := analyzer.AnalyzeFile(rt.paths.CleanedFile, rt.cfg.TotalChapters)
	if err != nil {
		rt.logger.Emit(logging.Event{Level: "error", Stage: "analyze", Event: "analyze_failed", Input: rt.paths.CleanedFile, Error: err.Error()})
		return err
	}
	for _, w := range res.Warnings {
		rt.logger.Emit(logging.Event{Level: "warn", Stage: "analyze", Event: "heading_warning", Error: w})
	}

	if err := chapter.SaveMap(res.Map, rt.paths.ChapterMapFile); err != nil {
		return err
	}
	if err := analyzer.WriteReport(res, rt.paths.ReportFile); err != nil {
		return err
	}
	rt.logger.Emit(logging.Event{Stage: "analyze", Event: "analyze_ok", Count: len(res.Found), OutputFile: rt.paths.ChapterMapFile})

	missing := res.Map.MissingNumbers()
	fmt.Fprintf(rt.stdout, "分析完成：识别 %d 个章节标记，缺失 %d 章\n", len(res.Found), len(missing))
	fmt.Fprintf(rt.stdout, "章节表：%s\n分析报告：%s\n", rt.paths.ChapterMapFile, rt.paths.ReportFile)
	return nil
}

// RunExtract 按章节表切分语料，为缺失章节生成占位文件。
func RunExtract(opts Options) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	m, err := chapter.LoadMap(rt.paths.ChapterMapFile)
	if err != nil {
		return err
	}
	statuses, err := extractor.ExtractAll(rt.paths.CleanedFile, m, rt.paths.ChaptersDir, rt.cfg.MissingThresholdBytes)
	if err != nil {
		rt.logger.Emit(logging.Event{Level: "error", Stage: "extract", Event: "extract_failed", Error: err.Error()})
		return err
	}

	extracted, placeholders := 0, 0
	for _, s := range statuses {
		if s.Missing {
			placeholders++
			rt.logger.Emit(logging.Event{Stage: "extract", Event: "placeholder_written", Chapter: s.Number, OutputFile: s.Path})
			continue
		}
		extracted++
		rt.logger.Emit(logging.Event{Stage: "extract", Event: "chapter_extracted", Chapter: s.Number, OutputFile: s.Path, Count: s.Bytes})
	}
	if err := extractor.WriteList(m, statuses, rt.paths.ChapterListFile); err != nil {
		return err
	}

	fmt.Fprintf(rt.stdout, "提取完成：共 %d 章，占位 %d 章\n章节清单：%s\n", extracted, placeholders, rt.paths.ChapterListFile)
	return nil
}
