// Package output 负责各阶段产物的文件命名与目录准备。
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

var (
	rawNameRe    = regexp.MustCompile(`^chapter_(\d{2,3})\.txt$`)
	resultNameRe = regexp.MustCompile(`^第(\d{2,3})章\.md$`)
)

func EnsureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("输出目录为空")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败（%s）：%w", dir, err)
	}
	return nil
}

// RawChapterPath 返回提取阶段某章的原始切片文件路径（chapters_raw/chapter_NN.txt）。
func RawChapterPath(dir string, number int) string {
	return filepath.Join(dir, fmt.Sprintf("chapter_%02d.txt", number))
}

// ResultChapterPath 返回格式化阶段某章的 Markdown 文件路径（result/第NN章.md）。
func ResultChapterPath(dir string, number int) string {
	return filepath.Join(dir, fmt.Sprintf("第%02d章.md", number))
}

// ParseRawChapterName 从原始切片文件名解析章节编号。
func ParseRawChapterName(name string) (int, bool) {
	m := rawNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ParseResultChapterName 从 Markdown 文件名解析章节编号。
func ParseResultChapterName(name string) (int, bool) {
	m := resultNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
