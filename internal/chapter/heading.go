package chapter

import (
	"regexp"
	"strings"
)

// 章节标记的四种格式：阿拉伯/中文数字 × 回/章。
var (
	arabicHeadingRe  = regexp.MustCompile(`第(\d{1,3})([回章])`)
	chineseHeadingRe = regexp.MustCompile(`第([一二三四五六七八九十零百]{1,3})([回章])`)
	anyHeadingRe     = regexp.MustCompile(`第[0-9一二三四五六七八九十零百]{1,3}[回章]\s*`)
	canonicalRe      = regexp.MustCompile(`^#\s*第(\d{1,3})章\s*$`)
)

// Heading 是在文本中识别出的一个章节标记。
type Heading struct {
	Number      int
	Text        string
	PatternType string
}

// MatchHeading 在一行文本中查找章节标记，并把编号统一为阿拉伯数字。
// 同一行出现多个标记时只取第一个。
func MatchHeading(line string) (Heading, bool) {
	if m := canonicalRe.FindStringSubmatch(line); m != nil {
		if n, ok := NormalizeNumber(m[1]); ok {
			return Heading{Number: n, Text: strings.TrimSpace(line), PatternType: "规范标题"}, true
		}
	}
	if m := arabicHeadingRe.FindStringSubmatch(line); m != nil {
		if n, ok := NormalizeNumber(m[1]); ok {
			return Heading{Number: n, Text: m[0], PatternType: "阿拉伯数字+" + m[2]}, true
		}
	}
	if m := chineseHeadingRe.FindStringSubmatch(line); m != nil {
		if n, ok := ChineseToArabic(m[1]); ok {
			return Heading{Number: n, Text: m[0], PatternType: "中文数字+" + m[2]}, true
		}
	}
	return Heading{}, false
}

// StripHeadingMarks 移除文本中所有章节标记（含其后空白）。
func StripHeadingMarks(s string) string {
	return anyHeadingRe.ReplaceAllString(s, "")
}

// IsHeadingLine 判断一行是否以章节标记开头（正文引用的"第X回"不算）。
func IsHeadingLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if canonicalRe.MatchString(trimmed) {
		return true
	}
	loc := anyHeadingRe.FindStringIndex(trimmed)
	return loc != nil && loc[0] == 0
}
