package app

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"hly-press/internal/config"
	"hly-press/internal/discovery"
	"hly-press/internal/formatter"
	"hly-press/internal/logging"
	"hly-press/internal/output"
	"hly-press/internal/progress"
)

type formatJob struct {
	Number  int
	Missing bool
}

type formatOutcome struct {
	Number      int
	Placeholder bool
	Err         error
}

// RunFormat 把原始章节切片整理为最终 Markdown。
// 支持单章（--chapter）、范围（--start/--end）、批次（--batch）与全量；
// 单章失败不中断其余章节，最终统一汇报。
func RunFormat(opts Options) (Result, error) {
	rt, err := newRuntime(opts)
	if err != nil {
		return Result{}, err
	}
	defer rt.close()

	jobs, err := selectJobs(opts, rt.cfg)
	if err != nil {
		return Result{}, err
	}

	inventory, err := discovery.Discover(rt.paths.ChaptersDir)
	if err != nil {
		return Result{}, err
	}
	for _, w := range inventory.Warnings {
		rt.logger.Emit(logging.Event{Level: "warn", Stage: "format", Event: "scan_warning", Error: w})
	}
	// 显式缺失之外、目录中又没有切片文件的章节按缺失处理，
	// 保证输出编号连续。
	for i, job := range jobs {
		if !job.Missing && !inventory.Has(job.Number) {
			jobs[i].Missing = true
		}
	}

	if err := output.EnsureDir(rt.paths.ResultDir); err != nil {
		return Result{}, err
	}

	ledger, err := progress.Load(rt.paths.ProgressFile)
	if err != nil {
		return Result{}, err
	}
	if len(ledger) == 0 {
		ledger = progress.Init(rt.cfg.TotalChapters, nil)
	}

	fopts := formatter.Options{
		ParagraphMinLength:    rt.cfg.ParagraphMinLength,
		NextSentenceMinLength: rt.cfg.NextSentenceMinLength,
		BoilerplateMarkers:    rt.cfg.BoilerplateMarkers,
	}

	start := time.Now()
	outcomes := runFormatJobs(jobs, rt, fopts)

	res := Result{}
	var failed []int
	for _, oc := range outcomes {
		switch {
		case oc.Err != nil:
			res.Failed++
			failed = append(failed, oc.Number)
			ledger.Set(oc.Number, progress.StatusError, oc.Err.Error())
		case oc.Placeholder:
			res.Placeholder++
			ledger.Set(oc.Number, progress.StatusSkipped, "原文档中缺失此章节")
		default:
			res.Succeeded++
			ledger.Set(oc.Number, progress.StatusCompleted, "已完成格式校对和 Markdown 生成")
		}
	}
	res.ElapsedMS = time.Since(start).Milliseconds()

	if err := ledger.Save(rt.paths.ProgressFile); err != nil {
		return res, err
	}

	fmt.Fprintf(rt.stdout, "格式化完成：成功 %d，占位 %d，失败 %d\n", res.Succeeded, res.Placeholder, res.Failed)
	if len(failed) > 0 {
		sort.Ints(failed)
		return res, fmt.Errorf("以下章节处理失败：%v", failed)
	}
	return res, nil
}

// runFormatJobs 并发处理各章。章节之间没有顺序依赖，
// 并发度由配置限制。
func runFormatJobs(jobs []formatJob, rt *runtime, fopts formatter.Options) []formatOutcome {
	jobCh := make(chan formatJob)
	outCh := make(chan formatOutcome, len(jobs))

	var wg sync.WaitGroup
	workers := rt.cfg.Concurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				outCh <- formatOne(job, rt, fopts)
			}
		}()
	}
	go func() {
		for _, j := range jobs {
			jobCh <- j
		}
		close(jobCh)
		wg.Wait()
		close(outCh)
	}()

	outcomes := make([]formatOutcome, 0, len(jobs))
	for oc := range outCh {
		outcomes = append(outcomes, oc)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Number < outcomes[j].Number })
	return outcomes
}

func formatOne(job formatJob, rt *runtime, fopts formatter.Options) formatOutcome {
	dst := output.ResultChapterPath(rt.paths.ResultDir, job.Number)

	if job.Missing {
		fc := formatter.FormattedChapter{
			Number:     job.Number,
			Title:      fmt.Sprintf("第%d章", job.Number),
			Paragraphs: []string{formatter.MissingParagraph},
			IsMissing:  true,
		}
		if err := os.WriteFile(dst, []byte(formatter.Render(fc)), 0o644); err != nil {
			err = fmt.Errorf("写入占位章节失败（%s）：%w", dst, err)
			rt.logger.Emit(logging.Event{Level: "error", Stage: "format", Event: "write_failed", Chapter: job.Number, Error: err.Error()})
			return formatOutcome{Number: job.Number, Err: err}
		}
		rt.logger.Emit(logging.Event{Stage: "format", Event: "placeholder_written", Chapter: job.Number, OutputFile: dst})
		return formatOutcome{Number: job.Number, Placeholder: true}
	}

	src := output.RawChapterPath(rt.paths.ChaptersDir, job.Number)
	begin := time.Now()
	fc, err := formatter.FormatFile(src, dst, job.Number, fopts)
	if err != nil {
		rt.logger.Emit(logging.Event{Level: "error", Stage: "format", Event: "format_failed", Chapter: job.Number, Input: src, Error: err.Error()})
		return formatOutcome{Number: job.Number, Err: err}
	}
	rt.logger.Emit(logging.Event{Stage: "format", Event: "format_ok", Chapter: job.Number, Input: src, OutputFile: dst, LatencyMS: time.Since(begin).Milliseconds()})
	return formatOutcome{Number: job.Number, Placeholder: fc.IsMissing}
}

// selectJobs 根据参数确定要处理的章节集合与显式缺失章节。
func selectJobs(opts Options, cfg *config.Config) ([]formatJob, error) {
	var (
		start, end int
		missing    = opts.Missing
	)
	switch {
	case opts.Chapter > 0:
		start, end = opts.Chapter, opts.Chapter
	case opts.Batch > 0:
		b, ok := cfg.Batches[opts.Batch]
		if !ok {
			return nil, fmt.Errorf("批次 %d 不存在（有效批次：1-%d）", opts.Batch, len(cfg.Batches))
		}
		start, end = b.Start, b.End
		missing = append(append([]int{}, missing...), b.Missing...)
	case opts.Start > 0 || opts.End > 0:
		start, end = opts.Start, opts.End
	default:
		start, end = 1, cfg.TotalChapters
	}

	if start < 1 || end > cfg.TotalChapters || start > end {
		return nil, fmt.Errorf("章节范围无效：%d-%d（有效范围 1-%d）", start, end, cfg.TotalChapters)
	}

	missingSet := map[int]bool{}
	for _, n := range missing {
		missingSet[n] = true
	}
	jobs := make([]formatJob, 0, end-start+1)
	for n := start; n <= end; n++ {
		jobs = append(jobs, formatJob{Number: n, Missing: missingSet[n]})
	}
	return jobs, nil
}
