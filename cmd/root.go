package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"hly-press/internal/app"
)

var version = "dev"

type pipelineFlags struct {
	configArg      string
	sourceArg      string
	cleanedArg     string
	chaptersDirArg string
	resultDirArg   string
	chapterArg     int
	startArg       int
	endArg         int
	batchArg       int
	missingArg     []int
	logFileArg     string
	verboseArg     bool
}

func Execute() error {
	root := NewRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(os.Args[1:])
	return root.Execute()
}

func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &pipelineFlags{}

	root := &cobra.Command{
		Use:           "hly-press",
		Short:         "把原始论坛文本整理为逐章 Markdown 的批处理流水线",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.CompletionOptions.HiddenDefaultCmd = true
	bindGlobalFlags(root, flags)

	opts := func(cmd *cobra.Command) app.Options {
		cwd, _ := os.Getwd()
		return app.Options{
			ConfigPath:  flags.configArg,
			SourceFile:  flags.sourceArg,
			CleanedFile: flags.cleanedArg,
			ChaptersDir: flags.chaptersDirArg,
			ResultDir:   flags.resultDirArg,
			Chapter:     flags.chapterArg,
			Start:       flags.startArg,
			End:         flags.endArg,
			Batch:       flags.batchArg,
			Missing:     flags.missingArg,
			LogFile:     flags.logFileArg,
			Verbose:     flags.verboseArg,
			CWD:         cwd,
			Stdout:      cmd.OutOrStdout(),
			Stderr:      cmd.ErrOrStderr(),
		}
	}

	cleanCmd := &cobra.Command{
		Use:           "clean",
		Short:         "清理原始文本（GBK 解码、去论坛残留、规范空白）",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunClean(opts(cmd))
		},
	}

	analyzeCmd := &cobra.Command{
		Use:           "analyze",
		Short:         "识别章节标记，生成章节表与分析报告",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunAnalyze(opts(cmd))
		},
	}

	extractCmd := &cobra.Command{
		Use:           "extract",
		Short:         "按章节表切分语料，缺失章节生成占位文件",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunExtract(opts(cmd))
		},
	}

	formatCmd := &cobra.Command{
		Use:           "format",
		Short:         "把章节切片整理为带 front matter 的 Markdown",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := app.RunFormat(opts(cmd))
			return err
		},
	}
	bindRangeFlags(formatCmd, flags)

	runCmd := &cobra.Command{
		Use:           "run",
		Short:         "依次执行 clean、analyze、extract、format",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.RunAll(opts(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "流水线完成：成功 %d，占位 %d，失败 %d，耗时 %dms\n",
				res.Succeeded, res.Placeholder, res.Failed, res.ElapsedMS)
			return nil
		},
	}
	bindRangeFlags(runCmd, flags)

	progressCmd := &cobra.Command{
		Use:           "progress",
		Short:         "显示各章处理进度",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunProgress(opts(cmd))
		},
	}

	epubCmd := &cobra.Command{
		Use:           "epub",
		Short:         "把全部章节合并为 EPUB 电子书",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunEPUB(opts(cmd))
		},
	}

	searchCmd := &cobra.Command{
		Use:           "search <关键词>",
		Short:         "按标题、正文或章节号检索章节",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return app.RunSearch(opts(cmd), query)
		},
	}

	versionCmd := &cobra.Command{
		Use:           "version",
		Short:         "显示版本信息",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hly-press %s\n", version)
		},
	}

	root.AddCommand(cleanCmd, analyzeCmd, extractCmd, formatCmd, runCmd, progressCmd, epubCmd, searchCmd, versionCmd)
	return root
}

func bindGlobalFlags(cmd *cobra.Command, flags *pipelineFlags) {
	cmd.PersistentFlags().StringVar(&flags.configArg, "config", "", "配置文件路径，默认当前目录的 hly-press.yaml")
	cmd.PersistentFlags().StringVar(&flags.sourceArg, "source", "", "原始文本文件，覆盖配置")
	cmd.PersistentFlags().StringVar(&flags.cleanedArg, "cleaned", "", "清理后语料文件，覆盖配置")
	cmd.PersistentFlags().StringVar(&flags.chaptersDirArg, "chapters-dir", "", "原始章节目录，覆盖配置")
	cmd.PersistentFlags().StringVar(&flags.resultDirArg, "result-dir", "", "输出目录，覆盖配置")
	cmd.PersistentFlags().StringVar(&flags.logFileArg, "log-file", "", "NDJSON 日志文件路径")
	cmd.PersistentFlags().BoolVar(&flags.verboseArg, "verbose", false, "输出详细 NDJSON（机器友好）")
}

func bindRangeFlags(cmd *cobra.Command, flags *pipelineFlags) {
	cmd.Flags().IntVar(&flags.chapterArg, "chapter", 0, "只处理指定章节")
	cmd.Flags().IntVar(&flags.startArg, "start", 0, "起始章节号")
	cmd.Flags().IntVar(&flags.endArg, "end", 0, "结束章节号")
	cmd.Flags().IntVar(&flags.batchArg, "batch", 0, "处理配置中定义的批次")
	cmd.Flags().IntSliceVar(&flags.missingArg, "missing", nil, "显式标记为缺失的章节列表")
}
