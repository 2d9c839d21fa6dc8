package analyzer

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// RenderReport 生成 Markdown 分析报告。
func RenderReport(res Result, now time.Time) string {
	var b strings.Builder
	b.WriteString("# 章节分析报告\n\n")
	b.WriteString(fmt.Sprintf("生成时间：%s\n\n", now.Format("2006-01-02 15:04:05")))

	missing := res.Map.MissingNumbers()
	b.WriteString("## 统计摘要\n\n")
	b.WriteString(fmt.Sprintf("- **总章节数**：%d\n", len(res.Found)))
	if len(res.Found) > 0 {
		b.WriteString(fmt.Sprintf("- **编号范围**：%d - %d\n", res.Map.Chapters[0].Number, res.Map.Chapters[len(res.Map.Chapters)-1].Number))
	}
	b.WriteString(fmt.Sprintf("- **缺失章节数**：%d\n", len(missing)))
	b.WriteString(fmt.Sprintf("- **重复章节数**：%d\n\n", len(res.Duplicates)))

	b.WriteString("## 格式统计\n\n")
	patterns := make([]string, 0, len(res.ByPattern))
	for p := range res.ByPattern {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	for _, p := range patterns {
		b.WriteString(fmt.Sprintf("- **%s**：%d 个\n", p, res.ByPattern[p]))
	}
	b.WriteString("\n")

	if len(missing) > 0 {
		b.WriteString("## 缺失的章节编号\n\n")
		parts := make([]string, 0, len(missing))
		for _, n := range missing {
			parts = append(parts, fmt.Sprintf("第%d章", n))
		}
		b.WriteString(strings.Join(parts, "、"))
		b.WriteString("\n\n")
	}

	if len(res.Duplicates) > 0 {
		b.WriteString("## 重复的章节编号\n\n")
		nums := make([]int, 0, len(res.Duplicates))
		for n := range res.Duplicates {
			nums = append(nums, n)
		}
		sort.Ints(nums)
		for _, n := range nums {
			b.WriteString(fmt.Sprintf("- **第%d章**：重复出现 %d 次\n", n, len(res.Duplicates[n])))
			for _, d := range res.Duplicates[n] {
				b.WriteString(fmt.Sprintf("  - 行 %d：%s\n", d.StartLine, d.Heading))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## 详细章节列表\n\n")
	b.WriteString("| 起始行 | 结束行 | 统一编号 | 原始标记 | 格式类型 |\n")
	b.WriteString("|--------|--------|----------|----------|----------|\n")
	for _, c := range res.Found {
		end := "文件末尾"
		if c.EndLine > 0 {
			end = fmt.Sprintf("%d", c.EndLine)
		}
		b.WriteString(fmt.Sprintf("| %d | %s | 第%d章 | %s | %s |\n", c.StartLine, end, c.Number, c.Heading, c.PatternType))
	}
	return b.String()
}

// WriteReport 把分析报告写入文件。
func WriteReport(res Result, path string) error {
	if err := os.WriteFile(path, []byte(RenderReport(res, time.Now())), 0o644); err != nil {
		return fmt.Errorf("写入分析报告失败（%s）：%w", path, err)
	}
	return nil
}
