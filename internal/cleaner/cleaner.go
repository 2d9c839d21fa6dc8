// Package cleaner 将原始论坛转贴文本规范化为干净的 UTF-8 语料：
// 解码 GBK、丢弃论坛残留行、统一换行与空白、保证章节标记独立成段。
package cleaner

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"

	"hly-press/internal/chapter"
)

var (
	postedLineRe = regexp.MustCompile(`^Posted:\s*\d{4}-\d{2}-\d{2}`)
	floorTagRe   = regexp.MustCompile(`\[\d+\s*楼\]\s*`)
)

// Decode 把原始字节解码为 UTF-8 文本。
// 已经是合法 UTF-8 的输入原样返回，否则按 GBK 解码（无效字节替换为 U+FFFD）。
func Decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("GBK 解码失败：%w", err)
	}
	return string(out), nil
}

// Clean 对解码后的文本执行全部清理步骤。markers 为论坛残留行的子串黑名单。
func Clean(text string, markers []string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = stripControlChars(text)

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if isBoilerplateLine(line, markers) {
			continue
		}
		line = floorTagRe.ReplaceAllString(line, "")
		out = append(out, line)
	}

	out = ensureHeadingSpacing(out)
	joined := strings.Join(out, "\n")
	joined = collapseBlankRuns(joined)
	return strings.Trim(joined, "\n") + "\n"
}

// CleanFile 读取源文件并写出清理后的 UTF-8 文本。
func CleanFile(src, dst string, markers []string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("读取源文件失败（%s）：%w", src, err)
	}
	text, err := Decode(raw)
	if err != nil {
		return err
	}
	cleaned := Clean(text, markers)
	if err := os.WriteFile(dst, []byte(cleaned), 0o644); err != nil {
		return fmt.Errorf("写入清理文件失败（%s）：%w", dst, err)
	}
	return nil
}

func isBoilerplateLine(line string, markers []string) bool {
	trimmed := strings.TrimSpace(line)
	if postedLineRe.MatchString(trimmed) {
		return true
	}
	for _, m := range markers {
		if m != "" && strings.Contains(trimmed, m) {
			return true
		}
	}
	return false
}

// ensureHeadingSpacing 在章节标记行前插入空行，使标记独立成段。
func ensureHeadingSpacing(lines []string) []string {
	out := make([]string, 0, len(lines)+8)
	for _, line := range lines {
		if chapter.IsHeadingLine(line) && len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return out
}

// collapseBlankRuns 把连续三个以上空行压缩为两个（保留段落分隔）。
func collapseBlankRuns(s string) string {
	for strings.Contains(s, "\n\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n\n", "\n\n\n")
	}
	return s
}

func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
