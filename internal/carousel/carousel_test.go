package carousel

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/storefront/internal/catalog"
	"github.com/talkincode/storefront/internal/storage"
)

func counter(n *int32) func() int {
	return func() int { return int(atomic.LoadInt32(n)) }
}

func TestAdvanceWraps(t *testing.T) {
	n := int32(3)
	c := New(cron.New(), time.Second, counter(&n))

	c.Advance()
	assert.Equal(t, 1, c.Index())
	c.Advance()
	c.Advance()
	assert.Equal(t, 0, c.Index())
}

func TestNoBannersNoRotation(t *testing.T) {
	n := int32(0)
	c := New(cron.New(), time.Second, counter(&n))
	c.Advance()
	assert.Equal(t, 0, c.Index())
}

func TestIndexClampsWhenBannersShrink(t *testing.T) {
	n := int32(3)
	c := New(cron.New(), time.Second, counter(&n))
	require.True(t, c.Select(2))

	atomic.StoreInt32(&n, 2)
	assert.Equal(t, 0, c.Index())
	assert.False(t, c.Select(5))
}

func TestFollowCatalogChanges(t *testing.T) {
	n := int32(3)
	bus := EventBus.New()
	c := New(cron.New(), time.Second, counter(&n))
	require.NoError(t, c.Follow(bus))
	c.Select(2)

	atomic.StoreInt32(&n, 1)
	bus.Publish(catalog.TopicChanged, storage.KeyProducts)
	c.mu.Lock()
	assert.Equal(t, 2, c.index)
	c.mu.Unlock()

	bus.Publish(catalog.TopicChanged, storage.KeyBanners)
	c.mu.Lock()
	assert.Equal(t, 0, c.index)
	c.mu.Unlock()
}

func TestStartStop(t *testing.T) {
	n := int32(2)
	sched := cron.New()
	sched.Start()
	defer sched.Stop()

	c := New(sched, time.Second, counter(&n))
	require.NoError(t, c.Start())
	require.NoError(t, c.Start())
	assert.Len(t, sched.Entries(), 1)

	assert.Eventually(t, func() bool { return c.Index() == 1 }, 3*time.Second, 20*time.Millisecond)

	c.Stop()
	assert.False(t, c.Running())
	assert.Empty(t, sched.Entries())
	c.Stop()
}

func TestDefaultInterval(t *testing.T) {
	c := New(cron.New(), 0, func() int { return 0 })
	assert.Equal(t, DefaultInterval, c.interval)
}
