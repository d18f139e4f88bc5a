package app

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/talkincode/storefront/config"
	"github.com/talkincode/storefront/internal/admin"
	"github.com/talkincode/storefront/internal/carousel"
	"github.com/talkincode/storefront/internal/cart"
	"github.com/talkincode/storefront/internal/catalog"
	"github.com/talkincode/storefront/internal/notify"
	"github.com/talkincode/storefront/internal/order"
	"github.com/talkincode/storefront/internal/router"
	"github.com/talkincode/storefront/internal/storefront"
	"github.com/talkincode/storefront/internal/whatsapp"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CatalogProvider provides the catalog store
type CatalogProvider interface {
	Catalog() *catalog.Store
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// SessionProvider provides the per-session state of the storefront
type SessionProvider interface {
	Router() *router.Router
	Cart() *cart.Engine
	Notifier() *notify.Notifier
	Carousel() *carousel.Carousel
	Admin() *admin.Controller
}

// MessengerProvider provides the order messaging service
type MessengerProvider interface {
	Messenger() *whatsapp.Service
}

// AppContext combines all provider interfaces for full application context.
// Handlers depend on this interface, never on *Application.
type AppContext interface {
	ConfigProvider
	CatalogProvider
	SchedulerProvider
	SessionProvider
	MessengerProvider

	// Page renders the home view for a category and search text
	Page(category, search string) storefront.Page
	// AddToCart adds a product or purchasable promotion by id
	AddToCart(id string) (int64, error)
	// Checkout sends the cart as an order to the business number
	Checkout(ctx context.Context, address string) (order.Result, error)
	// Login authenticates the admin and opens the panel
	Login(username, password string) error
	// Logout closes the admin session and returns home
	Logout()

	InitDb() error
	DropAll() error
}
