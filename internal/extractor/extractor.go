// Package extractor 按章节表把清理后的语料切分为每章一个原始文件，
// 过短的切片按缺失章节处理，写入固定占位内容以保证编号连续。
package extractor

import (
	"fmt"
	"os"
	"strings"

	"hly-press/internal/chapter"
	"hly-press/internal/output"
)

// PlaceholderText 返回缺失章节原始文件的固定占位内容。
func PlaceholderText(number int) string {
	return fmt.Sprintf("本章节（第%d章）在原文档中缺失。\n", number)
}

// IsPlaceholder 判断一段原始切片是否是占位内容。
func IsPlaceholder(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "本章节")
}

// Status 记录单章提取结果。
type Status struct {
	Number  int
	Missing bool
	Bytes   int
	Path    string
}

// Slice 取出边界对应的行区间。EndLine 为 0 时切到文件末尾。
func Slice(lines []string, b chapter.Boundary) string {
	if b.Placeholder() {
		return ""
	}
	start := b.StartLine - 1
	if start < 0 || start >= len(lines) {
		return ""
	}
	end := len(lines)
	if b.EndLine > 0 && b.EndLine < end {
		end = b.EndLine
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n") + "\n"
}

// ExtractAll 把语料按章节表切分，缺失章节写占位文件。
// 仅按切片大小分级，不校验内容正确性。
func ExtractAll(corpusPath string, m chapter.Map, dir string, thresholdBytes int) ([]Status, error) {
	raw, err := os.ReadFile(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("读取语料失败（%s）：%w", corpusPath, err)
	}
	if err := output.EnsureDir(dir); err != nil {
		return nil, err
	}

	lines := strings.Split(string(raw), "\n")
	statuses := make([]Status, 0, len(m.Chapters))
	for _, b := range m.Chapters {
		content := Slice(lines, b)
		missing := len(content) < thresholdBytes
		if missing {
			content = PlaceholderText(b.Number)
		}
		path := output.RawChapterPath(dir, b.Number)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return statuses, fmt.Errorf("写入章节文件失败（%s）：%w", path, err)
		}
		statuses = append(statuses, Status{
			Number:  b.Number,
			Missing: missing,
			Bytes:   len(content),
			Path:    path,
		})
	}
	return statuses, nil
}

// RenderList 生成章节目录清单（纯文本报告）。
func RenderList(m chapter.Map, statuses []Status) string {
	missingBy := map[int]bool{}
	for _, s := range statuses {
		if s.Missing {
			missingBy[s.Number] = true
		}
	}

	var b strings.Builder
	b.WriteString("章节目录清单\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("总章节数: %d\n", len(m.Chapters)))
	found := m.Found()
	if len(found) > 0 {
		b.WriteString(fmt.Sprintf("编号范围: %d - %d\n", found[0], found[len(found)-1]))
	}
	b.WriteString("\n章节列表:\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, c := range m.Chapters {
		if c.Placeholder() {
			continue
		}
		end := "文件末尾"
		if c.EndLine > 0 {
			end = fmt.Sprintf("%d", c.EndLine)
		}
		b.WriteString(fmt.Sprintf("%-6d %-15s 行 %d - %s\n", c.Number, c.Heading, c.StartLine, end))
	}

	var missing []int
	for _, s := range statuses {
		if s.Missing {
			missing = append(missing, s.Number)
		}
	}
	if len(missing) > 0 {
		b.WriteString("\n缺失章节:\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		for _, n := range missing {
			b.WriteString(fmt.Sprintf("第%d章\n", n))
		}
	}
	return b.String()
}

// WriteList 把章节目录清单写入文件。
func WriteList(m chapter.Map, statuses []Status, path string) error {
	if err := os.WriteFile(path, []byte(RenderList(m, statuses)), 0o644); err != nil {
		return fmt.Errorf("写入章节清单失败（%s）：%w", path, err)
	}
	return nil
}
