// Package cart aggregates catalog items into order lines for the session.
package cart

import (
	"sync"

	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
)

// SameSlot reports whether a and b coalesce into one cart line. Only lines
// for the same item that both carry no note coalesce; a line with a note is
// always its own slot. Editing a note later does not re-merge lines.
func SameSlot(a, b domain.CartLine) bool {
	return a.ProductRef == b.ProductRef && a.Note == "" && b.Note == ""
}

// Engine holds the ephemeral cart. Lines keep first-insertion order.
type Engine struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	nextKey int64
}

func New() *Engine {
	return &Engine{}
}

// AddItem adds one unit of item, incrementing the matching note-less line
// or appending a new line. The key of the affected line is returned.
func (e *Engine) AddItem(item domain.Product) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	candidate := domain.CartLine{ProductRef: item.ID}
	for i := range e.lines {
		if SameSlot(e.lines[i], candidate) {
			e.lines[i].Quantity++
			return e.lines[i].Key
		}
	}
	e.nextKey++
	e.lines = append(e.lines, domain.CartLine{
		Key:        e.nextKey,
		ProductRef: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		ImageUrl:   item.ImageUrl,
		Quantity:   1,
	})
	zap.L().Debug("cart line added", zap.String("namespace", "cart"),
		zap.String("product", item.ID), zap.Int64("key", e.nextKey))
	return e.nextKey
}

func (e *Engine) index(key int64) int {
	for i := range e.lines {
		if e.lines[i].Key == key {
			return i
		}
	}
	return -1
}

// SetQuantity adds delta to the line quantity, clamping at 1. Unknown keys
// report false.
func (e *Engine) SetQuantity(key int64, delta int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.index(key)
	if i < 0 {
		return false
	}
	q := e.lines[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	e.lines[i].Quantity = q
	return true
}

func (e *Engine) RemoveItem(key int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.index(key)
	if i < 0 {
		return false
	}
	e.lines = append(e.lines[:i:i], e.lines[i+1:]...)
	return true
}

// SetNote replaces the note of a line in place.
func (e *Engine) SetNote(key int64, text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.index(key)
	if i < 0 {
		return false
	}
	e.lines[i].Note = text
	return true
}

// Total is the unrounded sum of price times quantity.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Total(e.lines)
}

func Total(lines []domain.CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// Count is the number of units in the cart.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, l := range e.lines {
		n += l.Quantity
	}
	return n
}

func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.CartLine(nil), e.lines...)
}

func (e *Engine) Line(key int64) (domain.CartLine, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.index(key); i >= 0 {
		return e.lines[i], true
	}
	return domain.CartLine{}, false
}

func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// Consume hands the current lines to fn and empties the cart when fn
// succeeds. Lines cannot be added in between; fn must not call back into e.
func (e *Engine) Consume(fn func(lines []domain.CartLine) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(append([]domain.CartLine(nil), e.lines...)); err != nil {
		return err
	}
	e.lines = nil
	return nil
}

func (e *Engine) Clear() {
	e.mu.Lock()
	e.lines = nil
	e.mu.Unlock()
}
