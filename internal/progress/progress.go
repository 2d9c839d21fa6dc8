// Package progress 维护 progress.json：每章的处理状态账本，
// 使格式化阶段可以断点续跑、逐章幂等。
package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusSkipped    = "skipped"
	StatusError      = "error"
)

type Entry struct {
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Ledger 是章节编号（十进制字符串）到状态的映射。
type Ledger map[string]Entry

// Init 生成覆盖 1..total 全部章节的新账本，缺失章节直接标记 skipped。
func Init(total int, missing []int) Ledger {
	missingSet := map[int]bool{}
	for _, n := range missing {
		missingSet[n] = true
	}
	l := make(Ledger, total)
	for n := 1; n <= total; n++ {
		e := Entry{Status: StatusPending}
		if missingSet[n] {
			e.Status = StatusSkipped
			e.Notes = "原文档中缺失此章节"
		}
		l[strconv.Itoa(n)] = e
	}
	return l
}

// Load 读取账本；文件不存在时返回空账本。
func Load(path string) (Ledger, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Ledger{}, nil
		}
		return nil, fmt.Errorf("读取进度文件失败（%s）：%w", path, err)
	}
	var l Ledger
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("进度文件格式错误（%s）：%w", path, err)
	}
	return l, nil
}

// Save 把账本写回文件。
func (l Ledger) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化进度失败：%w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("写入进度文件失败（%s）：%w", path, err)
	}
	return nil
}

// Set 更新某章状态并刷新时间戳。
func (l Ledger) Set(number int, status, notes string) {
	key := strconv.Itoa(number)
	now := time.Now().Format(time.RFC3339)
	e := l[key]
	if e.CreatedAt == "" && status == StatusCompleted {
		e.CreatedAt = now
	}
	e.Status = status
	e.UpdatedAt = now
	if notes != "" {
		e.Notes = notes
	}
	l[key] = e
}

// Status 返回某章当前状态，未记录时为 pending。
func (l Ledger) Status(number int) string {
	e, ok := l[strconv.Itoa(number)]
	if !ok || e.Status == "" {
		return StatusPending
	}
	return e.Status
}

// Summary 汇总各状态的数量。
type Summary struct {
	Total      int
	Completed  int
	Processing int
	Pending    int
	Skipped    int
	Errors     int
}

func (l Ledger) Summarize() Summary {
	s := Summary{Total: len(l)}
	for _, e := range l {
		switch e.Status {
		case StatusCompleted:
			s.Completed++
		case StatusProcessing:
			s.Processing++
		case StatusSkipped:
			s.Skipped++
		case StatusError:
			s.Errors++
		default:
			s.Pending++
		}
	}
	return s
}

func (s Summary) String() string {
	rate := 0.0
	if s.Total > 0 {
		rate = float64(s.Completed) / float64(s.Total) * 100
	}
	return fmt.Sprintf("总章节数 %d：已完成 %d，处理中 %d，待处理 %d，已跳过 %d，失败 %d（完成率 %.1f%%）",
		s.Total, s.Completed, s.Processing, s.Pending, s.Skipped, s.Errors, rate)
}
