package config

import "strings"

type Config struct {
	SourceFile            string              `yaml:"source_file"`
	CleanedFile           string              `yaml:"cleaned_file"`
	ChaptersDir           string              `yaml:"chapters_dir"`
	ResultDir             string              `yaml:"result_dir"`
	ChapterMapFile        string              `yaml:"chapter_map_file"`
	ReportFile            string              `yaml:"report_file"`
	ChapterListFile       string              `yaml:"chapter_list_file"`
	ProgressFile          string              `yaml:"progress_file"`
	TotalChapters         int                 `yaml:"total_chapters"`
	ParagraphMinLength    int                 `yaml:"paragraph_min_length"`
	NextSentenceMinLength int                 `yaml:"next_sentence_min_length"`
	MissingThresholdBytes int                 `yaml:"missing_threshold_bytes"`
	Concurrency           int                 `yaml:"concurrency"`
	BoilerplateMarkers    []string            `yaml:"boilerplate_markers"`
	EPUB                  EPUBConfig          `yaml:"epub"`
	Batches               map[int]BatchConfig `yaml:"batches"`
}

type EPUBConfig struct {
	Title      string `yaml:"title"`
	Author     string `yaml:"author"`
	Language   string `yaml:"language"`
	OutputFile string `yaml:"output_file"`
}

type BatchConfig struct {
	Start   int   `yaml:"start"`
	End     int   `yaml:"end"`
	Missing []int `yaml:"missing"`
}

// Paths 是相对当前目录解析后的各阶段文件位置。
type Paths struct {
	ConfigSource    string
	SourceFile      string
	CleanedFile     string
	ChaptersDir     string
	ResultDir       string
	ChapterMapFile  string
	ReportFile      string
	ChapterListFile string
	ProgressFile    string
	EPUBFile        string
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.SourceFile) == "" {
		c.SourceFile = "hl.txt"
	}
	if strings.TrimSpace(c.CleanedFile) == "" {
		c.CleanedFile = "hl_cleaned.txt"
	}
	if strings.TrimSpace(c.ChaptersDir) == "" {
		c.ChaptersDir = "chapters_raw"
	}
	if strings.TrimSpace(c.ResultDir) == "" {
		c.ResultDir = "result"
	}
	if strings.TrimSpace(c.ChapterMapFile) == "" {
		c.ChapterMapFile = "chapters_config.json"
	}
	if strings.TrimSpace(c.ReportFile) == "" {
		c.ReportFile = "chapter_analysis_report.md"
	}
	if strings.TrimSpace(c.ChapterListFile) == "" {
		c.ChapterListFile = "chapters_list.txt"
	}
	if strings.TrimSpace(c.ProgressFile) == "" {
		c.ProgressFile = "progress.json"
	}
	if c.TotalChapters <= 0 {
		c.TotalChapters = 100
	}
	if c.ParagraphMinLength <= 0 {
		c.ParagraphMinLength = 100
	}
	if c.NextSentenceMinLength <= 0 {
		c.NextSentenceMinLength = 20
	}
	if c.MissingThresholdBytes <= 0 {
		c.MissingThresholdBytes = 100
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if len(c.BoilerplateMarkers) == 0 {
		c.BoilerplateMarkers = []string{
			"级别:", "发帖:", "Posted:", "堂中威望", "贡献值",
			"注册时间", "最后登录", "梦中的王子", "窗体底端",
		}
	}
	if strings.TrimSpace(c.EPUB.Title) == "" {
		c.EPUB.Title = "红楼遗秘"
	}
	if strings.TrimSpace(c.EPUB.Author) == "" {
		c.EPUB.Author = "迷男"
	}
	if strings.TrimSpace(c.EPUB.Language) == "" {
		c.EPUB.Language = "zh-CN"
	}
	if strings.TrimSpace(c.EPUB.OutputFile) == "" {
		c.EPUB.OutputFile = "hly_complete.epub"
	}
	if len(c.Batches) == 0 {
		c.Batches = map[int]BatchConfig{
			1: {Start: 11, End: 20, Missing: []int{17}},
			2: {Start: 21, End: 30, Missing: []int{22, 23}},
			3: {Start: 31, End: 40, Missing: []int{32}},
			4: {Start: 41, End: 50},
			5: {Start: 51, End: 60},
			6: {Start: 61, End: 70},
			7: {Start: 71, End: 80},
			8: {Start: 81, End: 90, Missing: []int{88, 90}},
			9: {Start: 91, End: 100, Missing: []int{91}},
		}
	}
}
