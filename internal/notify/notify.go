// Package notify holds the single transient notification shown to the user.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

const DefaultDismiss = 4 * time.Second

type Notification struct {
	ID      uint64    `json:"id"`
	Message string    `json:"message"`
	Kind    Kind      `json:"kind"`
	Shown   time.Time `json:"shown"`
}

// Notifier keeps at most one notification. A new one replaces the old one
// and restarts the dismiss timer.
type Notifier struct {
	mu      sync.Mutex
	dismiss time.Duration
	current *Notification
	timer   *time.Timer
	seq     uint64
	closed  bool
}

func New(dismiss time.Duration) *Notifier {
	if dismiss <= 0 {
		dismiss = DefaultDismiss
	}
	return &Notifier{dismiss: dismiss}
}

// Show replaces the current notification.
func (n *Notifier) Show(kind Kind, message string) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	note := Notification{ID: n.seq, Message: message, Kind: kind, Shown: time.Now()}
	if n.closed {
		return note
	}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.current = &note
	id := note.ID
	n.timer = time.AfterFunc(n.dismiss, func() { n.expire(id) })
	if kind == KindError {
		zap.L().Debug("notify error", zap.String("namespace", "notify"), zap.String("message", message))
	}
	return note
}

func (n *Notifier) Success(message string) Notification { return n.Show(KindSuccess, message) }
func (n *Notifier) Error(message string) Notification   { return n.Show(KindError, message) }
func (n *Notifier) Info(message string) Notification    { return n.Show(KindInfo, message) }

// expire clears notification id if it is still the current one. A timer
// that lost the race with Show must not clear its successor.
func (n *Notifier) expire(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil && n.current.ID == id {
		n.current = nil
		n.timer = nil
	}
}

func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clear()
}

func (n *Notifier) clear() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

// Close stops the pending timer. Later notifications are not displayed.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clear()
	n.closed = true
}
