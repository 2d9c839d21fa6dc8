// Package analyzer 扫描清理后的语料，识别章节标记并生成章节表。
package analyzer

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"hly-press/internal/chapter"
)

// ErrNoHeadings 表示语料中没有任何可识别的章节标记，分析阶段致命失败。
var ErrNoHeadings = errors.New("未在语料中找到任何章节标记")

// Result 是一次分析的完整产物。
type Result struct {
	// Map 编号连续的章节表（空洞以占位边界补齐）。
	Map chapter.Map
	// Found 实际识别出的边界，按出现行号排序，重复编号已去除。
	Found []chapter.Boundary
	// ByPattern 各标记格式的出现次数。
	ByPattern map[string]int
	// Duplicates 编号 → 除首次外的重复出现位置。
	Duplicates map[int][]chapter.Boundary
	// Warnings 非致命问题（重复标记等），供报告与日志使用。
	Warnings []string
}

// Analyze 扫描文本，返回章节表与统计。
// 同一编号出现多次时首个匹配生效，其余记入 Duplicates 并产生警告。
func Analyze(text string, total int) (Result, error) {
	res := Result{
		ByPattern:  map[string]int{},
		Duplicates: map[int][]chapter.Boundary{},
	}

	seen := map[int]bool{}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		h, ok := chapter.MatchHeading(line)
		if !ok {
			continue
		}
		b := chapter.Boundary{
			Number:      h.Number,
			Heading:     h.Text,
			PatternType: h.PatternType,
			StartLine:   i + 1,
		}
		res.ByPattern[h.PatternType]++
		if seen[h.Number] {
			res.Duplicates[h.Number] = append(res.Duplicates[h.Number], b)
			res.Warnings = append(res.Warnings, fmt.Sprintf("第%d章标记重复：行 %d（%s），以首次出现为准", h.Number, b.StartLine, h.Text))
			continue
		}
		if h.Number < 1 || h.Number > total {
			res.Warnings = append(res.Warnings, fmt.Sprintf("章节编号超出范围（%d），已忽略：行 %d", h.Number, b.StartLine))
			continue
		}
		seen[h.Number] = true
		res.Found = append(res.Found, b)
	}

	if len(res.Found) == 0 {
		return Result{}, ErrNoHeadings
	}

	// 结束行按出现顺序推导：下一个标记的前一行；最后一章到文件末尾。
	sort.Slice(res.Found, func(i, j int) bool { return res.Found[i].StartLine < res.Found[j].StartLine })
	for i := range res.Found {
		if i+1 < len(res.Found) {
			res.Found[i].EndLine = res.Found[i+1].StartLine - 1
		}
	}

	res.Map = chapter.BuildMap(res.Found, total)
	return res, nil
}

// AnalyzeFile 读取清理后的语料文件并执行分析。
func AnalyzeFile(path string, total int) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("读取语料失败（%s）：%w", path, err)
	}
	return Analyze(string(raw), total)
}
