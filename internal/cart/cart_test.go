package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/storefront/internal/domain"
)

var (
	burger = domain.Product{ID: "HB001", Name: "Clásica Suprema", Price: 12.99}
	shake  = domain.Product{ID: "BE001", Name: "Malteada de Vainilla", Price: 6.00}
)

func TestRepeatedAddsCoalesce(t *testing.T) {
	e := New()
	for i := 0; i < 5; i++ {
		e.AddItem(burger)
	}

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "", lines[0].Note)
}

func TestNotedLineIsSeparateSlot(t *testing.T) {
	e := New()
	key := e.AddItem(burger)
	require.True(t, e.SetNote(key, "sin cebolla"))

	second := e.AddItem(burger)

	assert.NotEqual(t, key, second)
	lines := e.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, "sin cebolla", lines[0].Note)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestClearingNoteDoesNotMerge(t *testing.T) {
	e := New()
	first := e.AddItem(burger)
	e.SetNote(first, "extra queso")
	second := e.AddItem(burger)

	e.SetNote(first, "")
	assert.Equal(t, 2, e.Len())

	// both lines are now note-less; the first one in order wins
	assert.Equal(t, first, e.AddItem(burger))
	l, _ := e.Line(first)
	assert.Equal(t, 2, l.Quantity)
	l, _ = e.Line(second)
	assert.Equal(t, 1, l.Quantity)
}

func TestSetQuantityClampsAtOne(t *testing.T) {
	e := New()
	key := e.AddItem(shake)

	e.SetQuantity(key, 3)
	l, _ := e.Line(key)
	assert.Equal(t, 4, l.Quantity)

	e.SetQuantity(key, -10)
	l, _ = e.Line(key)
	assert.Equal(t, 1, l.Quantity)

	e.SetQuantity(key, -1)
	l, _ = e.Line(key)
	assert.Equal(t, 1, l.Quantity)

	assert.False(t, e.SetQuantity(999, 1))
}

func TestRemoveThenAddStartsFresh(t *testing.T) {
	e := New()
	key := e.AddItem(burger)
	e.SetQuantity(key, 4)

	require.True(t, e.RemoveItem(key))
	assert.Zero(t, e.Len())

	key = e.AddItem(burger)
	l, ok := e.Line(key)
	require.True(t, ok)
	assert.Equal(t, 1, l.Quantity)
	assert.False(t, e.RemoveItem(12345))
}

func TestTotal(t *testing.T) {
	e := New()
	e.AddItem(burger)
	key := e.AddItem(shake)
	e.SetQuantity(key, 2)

	assert.InDelta(t, 30.99, e.Total(), 0.001)
	assert.Equal(t, 4, e.Count())
}

func TestInsertionOrderPreserved(t *testing.T) {
	e := New()
	e.AddItem(shake)
	e.AddItem(burger)
	e.AddItem(shake)

	lines := e.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "BE001", lines[0].ProductRef)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "HB001", lines[1].ProductRef)
}

func TestClear(t *testing.T) {
	e := New()
	e.AddItem(burger)
	e.Clear()

	assert.Empty(t, e.Lines())
	assert.Zero(t, e.Total())
}

func TestSameSlot(t *testing.T) {
	a := domain.CartLine{ProductRef: "x"}
	assert.True(t, SameSlot(a, domain.CartLine{ProductRef: "x"}))
	assert.False(t, SameSlot(a, domain.CartLine{ProductRef: "y"}))
	assert.False(t, SameSlot(a, domain.CartLine{ProductRef: "x", Note: "n"}))
	assert.False(t, SameSlot(domain.CartLine{ProductRef: "x", Note: "n"}, domain.CartLine{ProductRef: "x", Note: "n"}))
}

func TestConsumeClearsOnlyOnSuccess(t *testing.T) {
	e := New()
	e.AddItem(burger)

	err := e.Consume(func(lines []domain.CartLine) error {
		require.Len(t, lines, 1)
		return errors.New("send failed")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, e.Len())

	var seen []domain.CartLine
	require.NoError(t, e.Consume(func(lines []domain.CartLine) error {
		seen = lines
		return nil
	}))
	assert.Len(t, seen, 1)
	assert.Equal(t, 0, e.Len())
}

func TestConsumeKeepsItemsAddedMeanwhile(t *testing.T) {
	e := New()
	e.AddItem(burger)

	added := make(chan struct{})
	var seen []domain.CartLine
	require.NoError(t, e.Consume(func(lines []domain.CartLine) error {
		seen = lines
		go func() {
			e.AddItem(shake)
			close(added)
		}()
		time.Sleep(50 * time.Millisecond)
		return nil
	}))
	<-added

	require.Len(t, seen, 1)
	assert.Equal(t, burger.ID, seen[0].ProductRef)
	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, shake.ID, lines[0].ProductRef)
}
