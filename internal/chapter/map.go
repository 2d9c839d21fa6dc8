package chapter

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Boundary 描述一个章节在清理后文本中的行号范围。
// 行号从 1 开始；EndLine 为 0 表示直到文件末尾。
// StartLine 为 0 表示原文档中没有这一章（占位边界）。
type Boundary struct {
	Number      int    `json:"number"`
	Heading     string `json:"original"`
	PatternType string `json:"pattern_type,omitempty"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
}

// Placeholder 报告该边界是否为补齐编号用的零长度占位。
func (b Boundary) Placeholder() bool {
	return b.StartLine == 0
}

// Map 是按章节编号排好序、编号连续无空洞的章节边界序列。
type Map struct {
	TotalChapters int        `json:"total_chapters"`
	Chapters      []Boundary `json:"chapters"`
}

// BuildMap 由发现的章节标记构造完整的章节表。
// headings 必须按出现顺序给出（重复编号已在上游去除）。
// 编号 1..total 中缺失的章节以占位边界补齐。
func BuildMap(headings []Boundary, total int) Map {
	byNumber := make(map[int]Boundary, len(headings))
	for _, h := range headings {
		byNumber[h.Number] = h
	}

	chapters := make([]Boundary, 0, total)
	for n := 1; n <= total; n++ {
		if b, ok := byNumber[n]; ok {
			chapters = append(chapters, b)
			continue
		}
		chapters = append(chapters, Boundary{
			Number:  n,
			Heading: fmt.Sprintf("第%d章", n),
		})
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })
	return Map{TotalChapters: total, Chapters: chapters}
}

// Found 返回实际存在（非占位）的章节编号。
func (m Map) Found() []int {
	out := make([]int, 0, len(m.Chapters))
	for _, b := range m.Chapters {
		if !b.Placeholder() {
			out = append(out, b.Number)
		}
	}
	return out
}

// MissingNumbers 返回占位边界的章节编号。
func (m Map) MissingNumbers() []int {
	out := []int{}
	for _, b := range m.Chapters {
		if b.Placeholder() {
			out = append(out, b.Number)
		}
	}
	return out
}

// SaveMap 把章节表写为 JSON 配置文件。
func SaveMap(m Map, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化章节表失败：%w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("写入章节表失败（%s）：%w", path, err)
	}
	return nil
}

// LoadMap 从 JSON 配置文件读取章节表。
func LoadMap(path string) (Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Map{}, fmt.Errorf("读取章节表失败（%s）：%w", path, err)
	}
	var m Map
	if err := json.Unmarshal(raw, &m); err != nil {
		return Map{}, fmt.Errorf("章节表格式错误（%s）：%w", path, err)
	}
	if len(m.Chapters) == 0 {
		return Map{}, fmt.Errorf("章节表为空（%s）", path)
	}
	sort.Slice(m.Chapters, func(i, j int) bool { return m.Chapters[i].Number < m.Chapters[j].Number })
	return m, nil
}
