// Package carousel rotates the banner shown on the home view.
package carousel

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/catalog"
	"github.com/talkincode/storefront/internal/storage"
)

const DefaultInterval = 5 * time.Second

// Carousel advances a banner index on a cron entry. Stop removes the entry,
// so a stopped carousel holds no timer.
type Carousel struct {
	mu       sync.Mutex
	sched    *cron.Cron
	interval time.Duration
	count    func() int
	index    int
	entry    cron.EntryID
	running  bool
}

// New creates a stopped carousel. count reports the current number of
// banners.
func New(sched *cron.Cron, interval time.Duration, count func() int) *Carousel {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Carousel{sched: sched, interval: interval, count: count}
}

// Start schedules rotation. Starting a running carousel is a no-op.
func (c *Carousel) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}
	id, err := c.sched.AddFunc("@every "+c.interval.String(), c.Advance)
	if err != nil {
		return errors.Wrap(err, "schedule carousel")
	}
	c.entry = id
	c.running = true
	zap.L().Debug("carousel started", zap.String("namespace", "carousel"), zap.Duration("interval", c.interval))
	return nil
}

// Stop removes the rotation entry.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.sched.Remove(c.entry)
	c.running = false
	zap.L().Debug("carousel stopped", zap.String("namespace", "carousel"))
}

func (c *Carousel) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Advance moves to the next banner, wrapping around. Nothing rotates while
// there are no banners.
func (c *Carousel) Advance() {
	n := c.count()
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 {
		c.index = 0
		return
	}
	c.index = (c.index + 1) % n
}

// Index is the banner position to display, always below the banner count.
func (c *Carousel) Index() int {
	n := c.count()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index >= n {
		c.index = 0
	}
	return c.index
}

// Select jumps to banner i. Out of range positions are ignored.
func (c *Carousel) Select(i int) bool {
	n := c.count()
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= n {
		return false
	}
	c.index = i
	return true
}

func (c *Carousel) Reset() {
	c.mu.Lock()
	c.index = 0
	c.mu.Unlock()
}

// Follow clamps the index whenever the banner collection changes.
func (c *Carousel) Follow(bus EventBus.Bus) error {
	return bus.Subscribe(catalog.TopicChanged, c.onCatalogChanged)
}

func (c *Carousel) onCatalogChanged(key string) {
	if key != storage.KeyBanners {
		return
	}
	n := c.count()
	c.mu.Lock()
	if c.index >= n {
		c.index = 0
	}
	c.mu.Unlock()
}
