package search

import (
	"sync"
	"time"
)

// DefaultDebounce 是输入停顿后触发检索的等待时长。
const DefaultDebounce = 300 * time.Millisecond

// Debouncer 把连续的查询输入折叠为最后一次：每次 Trigger 重置计时器，
// 只有输入停顿 delay 之后 fn 才会以最后一次的查询串执行。
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger 计划在输入停顿后执行 fn(query)，并取消尚未执行的前一次。
func (d *Debouncer) Trigger(query string, fn func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { fn(query) })
}

// Stop 取消未执行的回调。
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
