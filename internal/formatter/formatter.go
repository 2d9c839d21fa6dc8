// Package formatter 把单章原始切片整理为带 front matter 的规范 Markdown：
// 丢弃论坛残留与原始标题行、重写规范标题、按阈值重排段落。
// 对自身输出重复执行是恒等操作。
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"hly-press/internal/chapter"
)

// MissingParagraph 是缺失章节正文的固定占位句。
const MissingParagraph = "本章节在原文档中缺失"

// Options 是格式化阶段的全部可调参数。
type Options struct {
	// ParagraphMinLength 当前段落累计长度（按字符数）低于该值时才考虑合并。
	ParagraphMinLength int
	// NextSentenceMinLength 下一行长度低于该值时才并入当前段落。
	NextSentenceMinLength int
	// BoilerplateMarkers 论坛残留行的子串黑名单。
	BoilerplateMarkers []string
}

// FormattedChapter 是格式化后的单章内容。
type FormattedChapter struct {
	Number     int
	Title      string
	Paragraphs []string
	IsMissing  bool
}

// FrontMatter 是站点生成器消费的元数据块。
type FrontMatter struct {
	Chapter int    `yaml:"chapter"`
	Title   string `yaml:"title"`
}

var strayDateRe = regexp.MustCompile(`[:：]\d{4}-\d{2}-\d{2}\s*`)

// Format 整理一章的内容。content 可以是原始切片，也可以是
// 本包以前的输出（此时结果与输入等价）。
func Format(content string, number int, opts Options) FormattedChapter {
	body := stripFrontMatter(content)

	fc := FormattedChapter{
		Number: number,
		Title:  fmt.Sprintf("第%d章", number),
	}

	if strings.TrimSpace(body) == "" || isMissingBody(body) {
		fc.IsMissing = true
		fc.Paragraphs = []string{MissingParagraph}
		return fc
	}

	lines := filterLines(body, number, opts.BoilerplateMarkers)
	fc.Paragraphs = Reflow(lines, opts.ParagraphMinLength, opts.NextSentenceMinLength)
	if len(fc.Paragraphs) == 0 {
		fc.IsMissing = true
		fc.Paragraphs = []string{MissingParagraph}
	}
	return fc
}

// Render 输出最终 Markdown：front matter、规范标题、空行分隔的段落。
func Render(fc FormattedChapter) string {
	meta, err := yaml.Marshal(FrontMatter{Chapter: fc.Number, Title: fc.Title})
	if err != nil {
		// FrontMatter 只有两个标量字段，序列化不会失败。
		meta = []byte(fmt.Sprintf("chapter: %d\ntitle: %s\n", fc.Number, fc.Title))
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(fmt.Sprintf("# 第%d章\n", fc.Number))
	for _, p := range fc.Paragraphs {
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatFile 读取一章的原始切片并写出 Markdown 文件。
func FormatFile(src, dst string, number int, opts Options) (FormattedChapter, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		return FormattedChapter{}, fmt.Errorf("读取章节文件失败（%s）：%w", src, err)
	}
	fc := Format(string(raw), number, opts)
	if err := os.WriteFile(dst, []byte(Render(fc)), 0o644); err != nil {
		return fc, fmt.Errorf("写入 Markdown 失败（%s）：%w", dst, err)
	}
	return fc, nil
}

// Reflow 把行序列重排为段落。空行结束当前段落；
// 当前段落不足 paraMin 且下一行不足 nextMin 时并入当前段落，
// 两个阈值都取严格小于，保证重复执行不再改变结果。
func Reflow(lines []string, paraMin, nextMin int) []string {
	var (
		paras []string
		cur   string
	)
	flush := func() {
		if cur != "" {
			paras = append(paras, cur)
			cur = ""
		}
	}
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			flush()
			continue
		}
		if cur == "" {
			cur = t
			continue
		}
		if utf8.RuneCountInString(cur) < paraMin && utf8.RuneCountInString(t) < nextMin {
			// 中文行拼接不加空格。
			cur += t
			continue
		}
		flush()
		cur = t
	}
	flush()
	return paras
}

// filterLines 丢弃论坛残留与标题行，遇到下一章的标记则截断。
func filterLines(body string, number int, markers []string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			out = append(out, "")
			continue
		}
		if isBoilerplate(t, markers) {
			continue
		}
		if t == "?" || t == "？" {
			continue
		}
		if chapter.IsHeadingLine(t) {
			h, ok := chapter.MatchHeading(t)
			if ok && h.Number != number {
				// 切片尾部混入了下一章，丢弃其后全部内容。
				break
			}
			// 本章标题行整体丢弃，副标题随之舍去，由 Render 重写规范标题。
			continue
		}
		t = strings.TrimPrefix(t, "?")
		t = strayDateRe.ReplaceAllString(t, "")
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func isBoilerplate(line string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// stripFrontMatter 去掉自身输出携带的 front matter，返回正文。
func stripFrontMatter(content string) string {
	if !strings.HasPrefix(content, "---\n") {
		return content
	}
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader([]byte(content)), &meta)
	if err != nil {
		return content
	}
	return string(body)
}

func isMissingBody(body string) bool {
	t := strings.TrimSpace(body)
	if strings.HasPrefix(t, "本章节") {
		return true
	}
	// 自身输出的占位章节：规范标题 + 占位句。
	for _, line := range strings.Split(t, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || chapter.IsHeadingLine(line) {
			continue
		}
		return line == MissingParagraph
	}
	return false
}
