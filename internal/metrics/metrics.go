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

// Registry holds the moderation and catalog counters reported by /healthz.
type Registry struct {
	ItemsCreated   Counter
	ItemsUpdated   Counter
	ItemsDeleted   Counter
	Approvals      Counter
	Rejections     Counter
	SellersDeleted Counter
	CascadedItems  Counter
	CacheHits      Counter
	CacheMisses    Counter
	OrdersComposed Counter
	startedAt      time.Time
}

func NewRegistry() *Registry {
	return &Registry{startedAt: time.Now()}
}

func (r *Registry) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"items_created":   r.ItemsCreated.Load(),
		"items_updated":   r.ItemsUpdated.Load(),
		"items_deleted":   r.ItemsDeleted.Load(),
		"approvals":       r.Approvals.Load(),
		"rejections":      r.Rejections.Load(),
		"sellers_deleted": r.SellersDeleted.Load(),
		"cascaded_items":  r.CascadedItems.Load(),
		"cache_hits":      r.CacheHits.Load(),
		"cache_misses":    r.CacheMisses.Load(),
		"orders_composed": r.OrdersComposed.Load(),
	}
}

func (r *Registry) Uptime() time.Duration {
	return time.Since(r.startedAt)
}
