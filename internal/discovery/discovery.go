// Package discovery 盘点原始章节目录，确认哪些章节切片已经就位。
package discovery

import (
	"fmt"
	"os"
	"sort"

	"hly-press/internal/output"
)

type Result struct {
	// Numbers 目录中存在切片文件的章节编号，升序。
	Numbers []int
	// Warnings 命名不符合约定而被忽略的文件。
	Warnings []string
}

// Discover 扫描原始章节目录。目录不存在或没有任何章节文件时报错。
func Discover(dir string) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, fmt.Errorf("读取章节目录失败（%s）：%w", dir, err)
	}

	res := Result{}
	seen := map[int]bool{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n, ok := output.ParseRawChapterName(e.Name())
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("文件名不符合章节命名约定，已跳过：%s", e.Name()))
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		res.Numbers = append(res.Numbers, n)
	}
	if len(res.Numbers) == 0 {
		return Result{}, fmt.Errorf("章节目录中没有任何章节文件（%s），先运行 extract 阶段", dir)
	}
	sort.Ints(res.Numbers)
	return res, nil
}

// Has 报告某章的切片文件是否存在。
func (r Result) Has(number int) bool {
	for _, n := range r.Numbers {
		if n == number {
			return true
		}
	}
	return false
}
