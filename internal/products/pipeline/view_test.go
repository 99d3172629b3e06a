package pipeline

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTimer struct {
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// manualClock hands out timers that only fire when the test says so.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
	delays []time.Duration
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{fn: f}
	c.timers = append(c.timers, t)
	c.delays = append(c.delays, d)
	return t
}

func (c *manualClock) fire() int {
	c.mu.Lock()
	timers := append([]*manualTimer(nil), c.timers...)
	c.mu.Unlock()

	fired := 0
	for _, t := range timers {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.fn()
		fired++
	}
	return fired
}

func TestDebouncer_RestartCancelsPrevious(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncerWith(300*time.Millisecond, clock.AfterFunc)

	var calls []string
	d.Schedule(func() { calls = append(calls, "b") })
	d.Schedule(func() { calls = append(calls, "bo") })
	d.Schedule(func() { calls = append(calls, "bol") })

	require.True(t, d.Pending())
	assert.Equal(t, 1, clock.fire())
	assert.Equal(t, []string{"bol"}, calls)
	assert.False(t, d.Pending())
	assert.Equal(t, []time.Duration{300 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond}, clock.delays)
}

func TestDebouncer_CancelAndFlush(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncerWith(0, clock.AfterFunc)

	ran := 0
	d.Schedule(func() { ran++ })
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())
	assert.Equal(t, 0, clock.fire())
	assert.Equal(t, 0, ran)

	d.Schedule(func() { ran++ })
	assert.True(t, d.Flush())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 0, clock.fire(), "flushed callback must not run again")
	assert.False(t, d.Flush())
	assert.Equal(t, []time.Duration{DefaultSearchDebounce, DefaultSearchDebounce}, clock.delays)
}

func TestDebouncer_SupersededExpiredTimerIsIgnored(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncerWith(time.Second, clock.AfterFunc)

	ran := ""
	d.Schedule(func() { ran = "old" })
	stale := clock.timers[0]
	d.Schedule(func() { ran = "new" })

	// The first timer expired before Schedule could stop it.
	stale.fn()
	assert.Equal(t, "", ran)

	clock.fire()
	assert.Equal(t, "new", ran)
}

func TestDebouncer_RealTimer(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	done := make(chan struct{})
	d.Schedule(func() { calls.Add(1) })
	d.Schedule(func() {
		calls.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced callback never fired")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func newTestView(t *testing.T) (*View, *manualClock, *atomic.Int32) {
	t.Helper()
	clock := &manualClock{}
	applied := &atomic.Int32{}
	v := NewView(NewDebouncerWith(DefaultSearchDebounce, clock.AfterFunc), func() { applied.Add(1) })
	v.Load(sampleInventory())
	return v, clock, applied
}

func TestView_FilterChangesResetPage(t *testing.T) {
	changes := map[string]func(v *View){
		"stock":     func(v *View) { v.SetStock(StockLow) },
		"category":  func(v *View) { v.SetCategory(idPtr(1)) },
		"date":      func(v *View) { v.SetDateFilter(DateLast7Days) },
		"quantity":  func(v *View) { v.SetQuantityRange(intPtr(1), nil) },
		"sort":      func(v *View) { v.SetSort(SortName, false) },
		"toggle":    func(v *View) { v.ToggleSort(SortQuantity) },
		"page size": func(v *View) { v.SetPageSize(25) },
	}

	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			v, _, _ := newTestView(t)
			v.SetPage(3)
			require.Equal(t, 3, v.Query().Page)

			change(v)
			assert.Equal(t, 1, v.Query().Page)
		})
	}
}

func TestView_SearchAppliesAfterDebounce(t *testing.T) {
	v, clock, applied := newTestView(t)
	v.SetPage(2)

	v.SetSearch("b")
	v.SetSearch("bo")
	v.SetSearch("bol")

	assert.Equal(t, 1, v.Query().Page)
	assert.Equal(t, "", v.Query().Search, "search must wait for the debounce")
	assert.Equal(t, "bol", v.RawSearch())
	assert.Len(t, v.Snapshot(now).Items, 4)

	clock.fire()

	assert.Equal(t, "bol", v.Query().Search)
	assert.Equal(t, int32(1), applied.Load())
	assert.Equal(t, []string{"Bolt"}, names(v.Snapshot(now).Items))
}

func TestView_ToggleSort(t *testing.T) {
	v, _, _ := newTestView(t)

	v.ToggleSort(SortName)
	q := v.Query()
	assert.Equal(t, SortName, q.Sort)
	assert.False(t, q.Desc)

	v.ToggleSort(SortName)
	assert.True(t, v.Query().Desc)

	v.ToggleSort(SortQuantity)
	assert.False(t, v.Query().Desc)
}

func TestView_LoadReplacesItemsKeepsQuery(t *testing.T) {
	v, _, _ := newTestView(t)
	v.SetStock(StockOut)
	assert.Equal(t, []string{"Nut"}, names(v.Snapshot(now).Items))

	v.Load(sampleInventory()[:1])
	assert.Empty(t, v.Snapshot(now).Items)
	assert.Equal(t, StockOut, v.Query().Stock)
	assert.Equal(t, []string{"Bolt"}, names(v.LowStock()))
}

func TestView_CloseDropsPendingSearch(t *testing.T) {
	v, clock, applied := newTestView(t)
	v.SetSearch("nut")
	v.Close()

	assert.Equal(t, 0, clock.fire())
	assert.Equal(t, int32(0), applied.Load())
}
