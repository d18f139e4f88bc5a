package whatsapp

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
)

const defaultHistory = 50

// Dispatch is an order message handed to the messaging app through a deep
// link.
type Dispatch struct {
	Folio   string    `json:"folio"`
	JID     string    `json:"jid"`
	URL     string    `json:"url"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

// Service hands messages to the messaging app. Nothing is sent from the
// server: the browser follows the returned link. The service keeps a short
// in-memory history of what was handed out.
type Service struct {
	host    string
	history []Dispatch
	limit   int
	mux     sync.RWMutex
}

func New(host string) *Service {
	if host == "" {
		host = DefaultHost
	}
	return &Service{host: host, limit: defaultHistory}
}

func (s *Service) Host() string {
	return s.host
}

// SendText prepares a message for phone and returns its dispatch record.
func (s *Service) SendText(ctx context.Context, folio, phone, text string) (Dispatch, error) {
	if s == nil {
		return Dispatch{}, errors.New("whatsapp service not initialized")
	}
	if err := ctx.Err(); err != nil {
		return Dispatch{}, err
	}
	digits := NormalizePhone(phone)
	if digits == "" {
		zap.L().Warn("whatsapp: business number is empty", zap.String("namespace", "checkout"), zap.String("folio", folio))
		return Dispatch{}, errors.Wrap(domain.ErrValidation, "whatsapp number not configured")
	}
	d := Dispatch{
		Folio:   folio,
		JID:     JID(digits),
		URL:     DeepLink(s.host, digits, text),
		Text:    text,
		Created: time.Now(),
	}
	s.mux.Lock()
	s.history = append(s.history, d)
	if over := len(s.history) - s.limit; over > 0 {
		s.history = append([]Dispatch(nil), s.history[over:]...)
	}
	s.mux.Unlock()
	zap.L().Info("whatsapp: order handed off", zap.String("namespace", "checkout"),
		zap.String("folio", folio), zap.String("jid", d.JID), zap.Int("text_len", len(text)))
	return d, nil
}

// History returns the recent dispatches, newest first.
func (s *Service) History() []Dispatch {
	s.mux.RLock()
	defer s.mux.RUnlock()
	out := make([]Dispatch, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		out = append(out, s.history[i])
	}
	return out
}
