package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"orderbook-core/internal/model"
	"orderbook-core/internal/store"
	"orderbook-core/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHead struct {
	mu   sync.Mutex
	head uint64
	errs []error
}

func (f *fakeHead) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return 0, err
	}
	return f.head, nil
}

// fakeChain 每个区块最多一个事件, 事件 id = 区块号
type fakeChain struct {
	eventBlocks map[uint64]bool
	errs        []error
	calls       [][2]uint64
}

func (f *fakeChain) Fetch(_ context.Context, from, to uint64) ([]model.OrderEvent, error) {
	f.calls = append(f.calls, [2]uint64{from, to})
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	var out []model.OrderEvent
	for b := from; b <= to; b++ {
		if f.eventBlocks[b] {
			out = append(out, model.OrderEvent{Kind: model.EventOrderPlaced, OrderID: b, BlockNumber: b})
		}
	}
	return out, nil
}

type recordingSink struct {
	delivered []uint64
	err       error
}

func (s *recordingSink) Deliver(_ context.Context, _, _ uint64, events []model.OrderEvent) error {
	if s.err != nil {
		return s.err
	}
	for _, ev := range events {
		s.delivered = append(s.delivered, ev.OrderID)
	}
	return nil
}

type failingStore struct {
	store.CursorStore
	fail bool
}

func (f *failingStore) Save(ctx context.Context, next uint64) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.CursorStore.Save(ctx, next)
}

func newLoop(t *testing.T, start, window uint64, head ChainHeadReader, fetcher Fetcher, sink EventSink, st CursorStore) *PollLoop {
	t.Helper()
	c, err := ResumeCursor(context.Background(), st, start, window)
	require.NoError(t, err)
	return NewPollLoop(c, head, fetcher, sink, st, Options{
		PollingInterval: time.Second,
		MaxBackoff:      10 * time.Second,
		AlertThreshold:  3,
	})
}

func drain(t *testing.T, p *PollLoop) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		scanned, err := p.Tick(context.Background())
		require.NoError(t, err)
		if !scanned {
			return
		}
	}
	t.Fatal("loop did not catch up")
}

func TestTickScenario(t *testing.T) {
	head := &fakeHead{head: 10650}
	fetcher := &fakeChain{eventBlocks: map[uint64]bool{10600: true, 10650: true}}
	sink := &recordingSink{}
	st := store.NewMemory()

	p := newLoop(t, 10600, 100, head, fetcher, sink, st)

	scanned, err := p.Tick(context.Background())
	require.NoError(t, err)
	assert.True(t, scanned)
	assert.Equal(t, [][2]uint64{{10600, 10650}}, fetcher.calls)
	assert.Equal(t, []uint64{10600, 10650}, sink.delivered)
	assert.Equal(t, uint64(10651), p.Cursor().CurrentBlock())

	next, found, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(10651), next)

	// 链头没动, 下一轮什么也不做
	scanned, err = p.Tick(context.Background())
	require.NoError(t, err)
	assert.False(t, scanned)
	assert.Len(t, fetcher.calls, 1)
}

func TestTickFailureKeepsCursor(t *testing.T) {
	fetcher := &fakeChain{errs: []error{errno.Wrapf(errno.ErrNetwork, "502")}}
	sink := &recordingSink{}
	p := newLoop(t, 100, 10, &fakeHead{head: 200}, fetcher, sink, store.NewMemory())

	_, err := p.Tick(context.Background())
	assert.ErrorIs(t, err, errno.ErrNetwork)
	assert.Equal(t, uint64(100), p.Cursor().CurrentBlock())

	_, err = p.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][2]uint64{{100, 110}, {100, 110}}, fetcher.calls, "same window retried")
}

func TestTickHeadFailure(t *testing.T) {
	head := &fakeHead{head: 200, errs: []error{errno.Wrapf(errno.ErrNetwork, "timeout")}}
	fetcher := &fakeChain{}
	p := newLoop(t, 100, 10, head, fetcher, &recordingSink{}, store.NewMemory())

	_, err := p.Tick(context.Background())
	assert.ErrorIs(t, err, errno.ErrNetwork)
	assert.Empty(t, fetcher.calls)
}

func TestTickSinkFailureRedelivers(t *testing.T) {
	fetcher := &fakeChain{eventBlocks: map[uint64]bool{105: true}}
	sink := &recordingSink{err: errors.New("downstream offline")}
	p := newLoop(t, 100, 10, &fakeHead{head: 110}, fetcher, sink, store.NewMemory())

	_, err := p.Tick(context.Background())
	assert.Error(t, err)
	assert.Equal(t, uint64(100), p.Cursor().CurrentBlock())

	sink.err = nil
	drain(t, p)
	assert.Equal(t, []uint64{105}, sink.delivered)
}

func TestTickShrinksWindowOnRangeTooLarge(t *testing.T) {
	fetcher := &fakeChain{errs: []error{errno.Wrapf(errno.ErrRangeTooLarge, "limit exceeded")}}
	p := newLoop(t, 0, 100, &fakeHead{head: 1000}, fetcher, &recordingSink{}, store.NewMemory())

	_, err := p.Tick(context.Background())
	assert.ErrorIs(t, err, errno.ErrRangeTooLarge)
	assert.Equal(t, uint64(50), p.Cursor().BlockWindow())

	_, err = p.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [2]uint64{0, 50}, fetcher.calls[1])
	assert.Equal(t, uint64(100), p.Cursor().BlockWindow(), "window grows back after success")
}

func TestCrashResumeNoGapNoDuplicate(t *testing.T) {
	events := map[uint64]bool{}
	for b := uint64(0); b <= 500; b += 7 {
		events[b] = true
	}
	st := store.NewMemory()
	sink := &recordingSink{}

	// 第一个进程扫到 250 后 "崩溃"
	p1 := newLoop(t, 0, 30, &fakeHead{head: 250}, &fakeChain{eventBlocks: events}, sink, st)
	drain(t, p1)

	// 第二个进程从持久化的游标继续
	p2 := newLoop(t, 0, 30, &fakeHead{head: 500}, &fakeChain{eventBlocks: events}, sink, st)
	assert.Equal(t, uint64(251), p2.Cursor().CurrentBlock())
	drain(t, p2)

	var want []uint64
	for b := uint64(0); b <= 500; b += 7 {
		want = append(want, b)
	}
	assert.Equal(t, want, sink.delivered)
}

func TestCrashBeforeSaveRedeliversWindow(t *testing.T) {
	events := map[uint64]bool{3: true, 15: true}
	sink := &recordingSink{}
	st := &failingStore{CursorStore: store.NewMemory()}

	p1 := newLoop(t, 0, 9, &fakeHead{head: 20}, &fakeChain{eventBlocks: events}, sink, st)
	_, err := p1.Tick(context.Background())
	require.NoError(t, err)

	// [10, 19] 投递成功但游标没写进去
	st.fail = true
	_, err = p1.Tick(context.Background())
	require.Error(t, err)

	st.fail = false
	p2 := newLoop(t, 0, 9, &fakeHead{head: 20}, &fakeChain{eventBlocks: events}, sink, st)
	assert.Equal(t, uint64(10), p2.Cursor().CurrentBlock())
	drain(t, p2)

	// at-least-once: 15 被投递了两次, 3 没有重复, 没有漏掉任何事件
	assert.Equal(t, []uint64{3, 15, 15}, sink.delivered)
}

func TestResumeCursorUsesLaterOfStartAndPersisted(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	c, err := ResumeCursor(ctx, st, 500, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), c.CurrentBlock())

	require.NoError(t, st.Save(ctx, 800))
	c, err = ResumeCursor(ctx, st, 500, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(800), c.CurrentBlock())

	c, err = ResumeCursor(ctx, st, 900, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), c.CurrentBlock())
}

func TestBackoffAndAlert(t *testing.T) {
	fetcher := &fakeChain{}
	p := newLoop(t, 0, 10, &fakeHead{head: 100}, fetcher, &recordingSink{}, store.NewMemory())

	var delays []time.Duration
	for i := 0; i < 6; i++ {
		delays = append(delays, p.onFailure(errors.New("boom")))
	}
	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second,
	}, delays)
	assert.True(t, p.alerted)

	p.onSuccess()
	assert.Equal(t, 0, p.failures)
	assert.False(t, p.alerted)
	assert.Equal(t, time.Second, p.backoff())
}

func TestRunStopsOnCancel(t *testing.T) {
	fetcher := &fakeChain{eventBlocks: map[uint64]bool{1: true}}
	sink := &recordingSink{}
	p := newLoop(t, 0, 10, &fakeHead{head: 5}, fetcher, sink, store.NewMemory())

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	p.sleep = func(ctx context.Context, d time.Duration) error {
		ticks++
		if ticks == 2 {
			cancel()
		}
		return ctx.Err()
	}

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, []uint64{1}, sink.delivered)
	assert.Equal(t, uint64(6), p.Cursor().CurrentBlock())
}
