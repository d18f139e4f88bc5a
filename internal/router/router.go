// Package router tracks which screen of the application is shown and gates
// the admin screen behind the single admin credential.
package router

import (
	"crypto/subtle"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
)

type View int

const (
	ViewHome View = iota
	ViewCart
	ViewLogin
	ViewAdmin
)

// ParseView resolves a view name. Unknown names are rejected.
func ParseView(name string) (View, bool) {
	switch name {
	case "home":
		return ViewHome, true
	case "cart":
		return ViewCart, true
	case "login":
		return ViewLogin, true
	case "admin":
		return ViewAdmin, true
	default:
		return ViewHome, false
	}
}

func (v View) String() string {
	switch v {
	case ViewCart:
		return "cart"
	case ViewLogin:
		return "login"
	case ViewAdmin:
		return "admin"
	default:
		return "home"
	}
}

func (v View) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// Credentials is the single admin account.
type Credentials struct {
	Username string
	Password string
}

// Router is the view state machine. Requesting admin while signed out
// keeps the request but renders the login screen.
type Router struct {
	mu            sync.RWMutex
	creds         Credentials
	current       View
	authenticated bool
	listeners     []func(from, to View)
}

func New(creds Credentials) *Router {
	return &Router{creds: creds, current: ViewHome}
}

// OnChange registers fn to run whenever the rendered view changes. fn runs
// without the router lock held.
func (r *Router) OnChange(fn func(from, to View)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// update applies mutate under the lock and notifies listeners when the
// rendered view changed.
func (r *Router) update(mutate func()) {
	r.mu.Lock()
	from := r.rendered()
	mutate()
	to := r.rendered()
	listeners := append([]func(from, to View){}, r.listeners...)
	r.mu.Unlock()
	if from != to {
		for _, fn := range listeners {
			fn(from, to)
		}
	}
}

// Navigate records v as the requested view.
func (r *Router) Navigate(v View) {
	r.update(func() { r.current = v })
}

// Current is the requested view.
func (r *Router) Current() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Rendered is the view actually shown.
func (r *Router) Rendered() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rendered()
}

func (r *Router) rendered() View {
	if r.current == ViewAdmin && !r.authenticated {
		return ViewLogin
	}
	return r.current
}

func (r *Router) Authenticated() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.authenticated
}

// Login checks the credential. On success the session is authenticated and
// moves to the admin view; on failure nothing changes.
func (r *Router) Login(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(r.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(r.creds.Password)) == 1
	if !userOK || !passOK {
		zap.L().Warn("admin login rejected", zap.String("namespace", "admin"), zap.String("username", username))
		return errors.WithStack(domain.ErrInvalidCredentials)
	}
	r.update(func() {
		r.authenticated = true
		r.current = ViewAdmin
	})
	zap.L().Info("admin logged in", zap.String("namespace", "admin"), zap.String("username", username))
	return nil
}

// Logout clears authentication and returns home.
func (r *Router) Logout() {
	r.update(func() {
		r.authenticated = false
		r.current = ViewHome
	})
}

// State is a snapshot for clients.
type State struct {
	View          View `json:"view"`
	Rendered      View `json:"rendered"`
	Authenticated bool `json:"authenticated"`
}

func (r *Router) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return State{View: r.current, Rendered: r.rendered(), Authenticated: r.authenticated}
}
