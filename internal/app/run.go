// Package app 串联流水线各阶段：clean → analyze → extract → format，
// 以及 progress / epub / search 等辅助命令。每个阶段只消费上一阶段
// 落盘的产物，可独立运行、可重复运行。
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hly-press/internal/config"
	"hly-press/internal/logging"
)

// Options 汇总 CLI 传入的全部参数。
type Options struct {
	ConfigPath  string
	SourceFile  string
	CleanedFile string
	ChaptersDir string
	ResultDir   string

	Chapter int
	Start   int
	End     int
	Batch   int
	Missing []int

	LogFile string
	Verbose bool

	CWD    string
	Stdout io.Writer
	Stderr io.Writer
}

// Result 是一次批处理的汇总。
type Result struct {
	Succeeded   int
	Placeholder int
	Failed      int
	ElapsedMS   int64
}

type runtime struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *logging.Logger
	closer io.Closer
	stdout io.Writer
}

func (r *runtime) close() {
	if r.closer != nil {
		_ = r.closer.Close()
	}
}

func newRuntime(opts Options) (*runtime, error) {
	cwd := strings.TrimSpace(opts.CWD)
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("读取当前目录失败：%w", err)
		}
		cwd = wd
	}

	cfg, paths, err := config.Load(opts.ConfigPath, cwd)
	if err != nil {
		return nil, err
	}
	overridePaths(paths, opts, cwd)

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	eventOut := io.Writer(io.Discard)
	if opts.Verbose {
		eventOut = stdout
	}
	logger, closer, err := logging.New(eventOut, opts.LogFile)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败：%w", err)
	}
	logger.Emit(logging.Event{Event: "startup", Input: paths.ConfigSource})

	return &runtime{cfg: cfg, paths: paths, logger: logger, closer: closer, stdout: stdout}, nil
}

func overridePaths(paths *config.Paths, opts Options, cwd string) {
	if strings.TrimSpace(opts.SourceFile) != "" {
		paths.SourceFile = absPath(cwd, opts.SourceFile)
	}
	if strings.TrimSpace(opts.CleanedFile) != "" {
		paths.CleanedFile = absPath(cwd, opts.CleanedFile)
	}
	if strings.TrimSpace(opts.ChaptersDir) != "" {
		paths.ChaptersDir = absPath(cwd, opts.ChaptersDir)
	}
	if strings.TrimSpace(opts.ResultDir) != "" {
		paths.ResultDir = absPath(cwd, opts.ResultDir)
	}
}

func absPath(cwd, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cwd, p)
}

// RunAll 按顺序执行全部四个阶段。
func RunAll(opts Options) (Result, error) {
	start := time.Now()
	if err := RunClean(opts); err != nil {
		return Result{}, err
	}
	if err := RunAnalyze(opts); err != nil {
		return Result{}, err
	}
	if err := RunExtract(opts); err != nil {
		return Result{}, err
	}
	res, err := RunFormat(opts)
	res.ElapsedMS = time.Since(start).Milliseconds()
	return res, err
}
