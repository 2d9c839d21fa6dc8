// Package search 在内存中对已格式化的章节做大小写不敏感的子串过滤，
// 对应站点侧的章节搜索框。语料规模固定（百章级），线性扫描即可。
package search

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"

	"hly-press/internal/output"
)

// Document 是参与检索的一章。
type Document struct {
	Number int
	Title  string
	Body   string
}

// Index 持有全部章节，构建后只读。
type Index struct {
	docs []Document
}

func NewIndex(docs []Document) *Index {
	sorted := make([]Document, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })
	return &Index{docs: sorted}
}

// LoadDir 读取 result 目录下全部章节 Markdown 并建立索引。
func LoadDir(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取结果目录失败（%s）：%w", dir, err)
	}
	var docs []Document
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n, ok := output.ParseResultChapterName(e.Name())
		if !ok {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("读取章节文件失败（%s）：%w", e.Name(), err)
		}
		var meta struct {
			Chapter int    `yaml:"chapter"`
			Title   string `yaml:"title"`
		}
		body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
		if err != nil {
			body = raw
		}
		title := meta.Title
		if title == "" {
			title = fmt.Sprintf("第%d章", n)
		}
		docs = append(docs, Document{Number: n, Title: title, Body: string(body)})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("结果目录中没有章节文件（%s）", dir)
	}
	return NewIndex(docs), nil
}

// All 返回全部章节（按编号排序）。
func (ix *Index) All() []Document {
	return ix.docs
}

// Filter 返回标题、正文或章节编号包含 query 的章节；
// 匹配大小写不敏感，空查询返回全部章节。
func (ix *Index) Filter(query string) []Document {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ix.docs
	}
	var out []Document
	for _, d := range ix.docs {
		if strings.Contains(strings.ToLower(d.Title), q) ||
			strings.Contains(strings.ToLower(d.Body), q) ||
			strings.Contains(strconv.Itoa(d.Number), q) {
			out = append(out, d)
		}
	}
	return out
}
