package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderbook-core/internal/model"
	"orderbook-core/pkg/errno"
	"orderbook-core/pkg/logger"
	"orderbook-core/pkg/monitor"

	"go.uber.org/zap"
)

// EventSink 接收一个窗口内的全部事件
// 返回错误时整个窗口会在下一轮重新投递 (at-least-once)
type EventSink interface {
	Deliver(ctx context.Context, from, to uint64, events []model.OrderEvent) error
}

// CursorStore 持久化下一个待扫描区块
type CursorStore interface {
	Load(ctx context.Context) (next uint64, found bool, err error)
	Save(ctx context.Context, next uint64) error
}

type Options struct {
	PollingInterval time.Duration
	RequestTimeout  time.Duration // 每次网络调用的超时, 0 表示不限制
	MaxBackoff      time.Duration
	AlertThreshold  int // 连续失败多少次后告警, 0 表示不告警
}

// PollLoop 驱动 ScanCursor + EventFetcher
// 每轮: 链头 -> 窗口 -> 拉取 -> 投递 -> 保存游标 -> 推进游标
type PollLoop struct {
	cursor  *ScanCursor
	head    ChainHeadReader
	fetcher Fetcher
	sink    EventSink
	store   CursorStore
	opts    Options
	log     *zap.Logger

	failures int
	alerted  bool

	sleep func(ctx context.Context, d time.Duration) error
}

func NewPollLoop(cursor *ScanCursor, head ChainHeadReader, fetcher Fetcher, sink EventSink, store CursorStore, opts Options) *PollLoop {
	if opts.PollingInterval <= 0 {
		opts.PollingInterval = 4 * time.Second
	}
	if opts.MaxBackoff < opts.PollingInterval {
		opts.MaxBackoff = opts.PollingInterval
	}
	return &PollLoop{
		cursor:  cursor,
		head:    head,
		fetcher: fetcher,
		sink:    sink,
		store:   store,
		opts:    opts,
		log:     logger.Named("scanner"),
		sleep:   sleepCtx,
	}
}

// ResumeCursor 从 CursorStore 恢复游标, 取持久化值和 startBlock 中较大的一个
func ResumeCursor(ctx context.Context, store CursorStore, startBlock, window uint64) (*ScanCursor, error) {
	start := startBlock
	next, found, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cursor: %w", err)
	}
	if found && next > start {
		start = next
	}
	return NewScanCursor(start, window)
}

func (p *PollLoop) Cursor() *ScanCursor {
	return p.cursor
}

// Run 阻塞直到 ctx 被取消
func (p *PollLoop) Run(ctx context.Context) error {
	p.log.Info("scanner started",
		zap.Uint64("current_block", p.cursor.CurrentBlock()),
		zap.Uint64("block_window", p.cursor.BlockWindow()),
		zap.Duration("interval", p.opts.PollingInterval))

	for {
		if ctx.Err() != nil {
			break
		}

		_, err := p.Tick(ctx)
		delay := p.opts.PollingInterval
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			delay = p.onFailure(err)
		} else {
			p.onSuccess()
		}

		if err := p.sleep(ctx, delay); err != nil {
			break
		}
	}

	p.log.Info("scanner stopped", zap.Uint64("current_block", p.cursor.CurrentBlock()))
	return nil
}

// Tick 执行一轮扫描. scanned = false 表示已经追上链头
// 出错时游标不动, 下一轮重试同一个窗口
func (p *PollLoop) Tick(ctx context.Context) (scanned bool, err error) {
	// 1. 读取链头
	head, err := withTimeout(ctx, p.opts.RequestTimeout, p.head.BlockNumber)
	if err != nil {
		return false, fmt.Errorf("read chain head: %w", err)
	}
	monitor.ScannerChainHead.Set(float64(head))

	// 2. 计算窗口
	from, to, ok := p.cursor.NextWindow(head)
	if !ok {
		return false, nil
	}

	// 3. 拉取事件
	events, err := withTimeout(ctx, p.opts.RequestTimeout, func(ctx context.Context) ([]model.OrderEvent, error) {
		return p.fetcher.Fetch(ctx, from, to)
	})
	if err != nil {
		if errors.Is(err, errno.ErrRangeTooLarge) && p.cursor.Shrink() {
			p.log.Warn("block range rejected, shrinking window",
				zap.Uint64("from", from),
				zap.Uint64("to", to),
				zap.Uint64("block_window", p.cursor.BlockWindow()))
			monitor.ScannerBlockWindow.Set(float64(p.cursor.BlockWindow()))
		}
		return false, fmt.Errorf("fetch [%d, %d]: %w", from, to, err)
	}

	// 4. 投递
	if err := p.sink.Deliver(ctx, from, to, events); err != nil {
		return false, fmt.Errorf("deliver [%d, %d]: %w", from, to, err)
	}
	for _, ev := range events {
		monitor.ScannerEventsTotal.WithLabelValues(string(ev.Kind)).Inc()
	}

	// 5. 先持久化再推进内存游标, 崩溃后最多重复投递这一个窗口
	if err := withTimeoutErr(ctx, p.opts.RequestTimeout, func(ctx context.Context) error {
		return p.store.Save(ctx, to+1)
	}); err != nil {
		return false, fmt.Errorf("save cursor %d: %w", to+1, err)
	}
	p.cursor.Advance(to)
	p.cursor.Grow()

	monitor.ScannerCurrentBlock.Set(float64(p.cursor.CurrentBlock()))
	monitor.ScannerBlockWindow.Set(float64(p.cursor.BlockWindow()))

	p.log.Debug("window scanned",
		zap.Uint64("from", from),
		zap.Uint64("to", to),
		zap.Uint64("head", head),
		zap.Int("events", len(events)))
	return true, nil
}

func (p *PollLoop) onFailure(err error) time.Duration {
	p.failures++
	monitor.ScannerFetchErrorsTotal.WithLabelValues(errorClass(err)).Inc()
	monitor.ScannerConsecutiveFailures.Set(float64(p.failures))

	delay := p.backoff()
	p.log.Warn("scan failed, will retry",
		zap.Int("failures", p.failures),
		zap.Duration("retry_in", delay),
		zap.Uint64("current_block", p.cursor.CurrentBlock()),
		zap.Error(err))

	if p.opts.AlertThreshold > 0 && p.failures >= p.opts.AlertThreshold && !p.alerted {
		p.alerted = true
		monitor.ScannerAlertsTotal.Inc()
		p.log.Error("scanner keeps failing",
			zap.Int("failures", p.failures),
			zap.Uint64("current_block", p.cursor.CurrentBlock()),
			zap.Error(err))
	}
	return delay
}

func (p *PollLoop) onSuccess() {
	if p.alerted {
		p.log.Info("scanner recovered", zap.Int("after_failures", p.failures))
	}
	p.failures = 0
	p.alerted = false
	monitor.ScannerConsecutiveFailures.Set(0)
}

// backoff = min(interval * 2^(failures-1), maxBackoff)
func (p *PollLoop) backoff() time.Duration {
	delay := p.opts.PollingInterval
	for i := 1; i < p.failures; i++ {
		delay *= 2
		if delay >= p.opts.MaxBackoff {
			return p.opts.MaxBackoff
		}
	}
	return delay
}

func errorClass(err error) string {
	code, _ := errno.Decode(err)
	switch code {
	case errno.ErrRangeTooLarge.Code:
		return "range_too_large"
	case errno.ErrNetwork.Code:
		return "network"
	case errno.ErrNotFound.Code, errno.ErrDecryption.Code, errno.ErrPermitRejected.Code:
		return "resolve"
	case errno.ErrPostOrder.Code:
		return "post_order"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "other"
}

func withTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx)
}

func withTimeoutErr(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	_, err := withTimeout(ctx, timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
