package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Checkout counts order placement outcomes for the lifetime of the process.
type Checkout struct {
	Placed          Counter
	Failed          Counter
	StockRejections Counter
	NumberRetries   Counter
	Cancelled       Counter

	placeNanos Counter
}

// ObservePlace records the wall time of one successful placement.
func (c *Checkout) ObservePlace(t *Timer) {
	c.placeNanos.Add(uint64(t.Duration()))
}

type CheckoutSnapshot struct {
	Placed          uint64  `json:"placed"`
	Failed          uint64  `json:"failed"`
	StockRejections uint64  `json:"stockRejections"`
	NumberRetries   uint64  `json:"numberRetries"`
	Cancelled       uint64  `json:"cancelled"`
	AvgPlaceMillis  float64 `json:"avgPlaceMillis"`
}

func (c *Checkout) Snapshot() CheckoutSnapshot {
	s := CheckoutSnapshot{
		Placed:          c.Placed.Load(),
		Failed:          c.Failed.Load(),
		StockRejections: c.StockRejections.Load(),
		NumberRetries:   c.NumberRetries.Load(),
		Cancelled:       c.Cancelled.Load(),
	}
	if s.Placed > 0 {
		s.AvgPlaceMillis = float64(c.placeNanos.Load()) / float64(s.Placed) / float64(time.Millisecond)
	}
	return s
}
