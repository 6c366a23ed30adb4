package scanner

import (
	"orderbook-core/pkg/errno"
)

// ScanCursor 记录下一个待扫描的区块以及每次扫描的窗口大小
// 只由 PollLoop 修改, 不需要加锁
type ScanCursor struct {
	currentBlock uint64
	blockWindow  uint64 // 当前生效的窗口, 节点报范围过大时会临时缩小
	maxWindow    uint64 // 配置的窗口
}

// NewScanCursor window 必须大于 0
func NewScanCursor(start, window uint64) (*ScanCursor, error) {
	if window == 0 {
		return nil, errno.Wrapf(errno.ErrConfig, "block window must be > 0")
	}
	return &ScanCursor{
		currentBlock: start,
		blockWindow:  window,
		maxWindow:    window,
	}, nil
}

func (c *ScanCursor) CurrentBlock() uint64 {
	return c.currentBlock
}

func (c *ScanCursor) BlockWindow() uint64 {
	return c.blockWindow
}

// NextWindow 计算下一次要扫描的闭区间 [from, to]
// 已经追上链头 (currentBlock > head) 时 ok = false
func (c *ScanCursor) NextWindow(head uint64) (from, to uint64, ok bool) {
	if c.currentBlock > head {
		return 0, 0, false
	}
	from = c.currentBlock
	to = head
	if head-from > c.blockWindow {
		to = from + c.blockWindow
	}
	return from, to, true
}

// Advance 在 [from, to] 成功投递之后调用, currentBlock = to + 1
// 重复调用同一个 to 结果不变; 更小的 to 被忽略, currentBlock 只增不减
func (c *ScanCursor) Advance(to uint64) {
	if next := to + 1; next > c.currentBlock {
		c.currentBlock = next
	}
}

// Shrink 窗口减半 (最小为 1), 已经是 1 时返回 false
func (c *ScanCursor) Shrink() bool {
	if c.blockWindow <= 1 {
		return false
	}
	c.blockWindow /= 2
	return true
}

// Grow 成功之后窗口翻倍, 不超过配置值
func (c *ScanCursor) Grow() {
	if c.blockWindow >= c.maxWindow {
		return
	}
	c.blockWindow *= 2
	if c.blockWindow > c.maxWindow {
		c.blockWindow = c.maxWindow
	}
}
