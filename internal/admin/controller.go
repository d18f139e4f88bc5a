// Package admin drives the administration panel: the edit forms, delete
// confirmations and AI assisted suggestions, all applied to the catalog.
package admin

import (
	"context"
	"encoding/json"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/talkincode/storefront/internal/ai"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/notify"
)

// Catalog is the part of the catalog store the panel mutates.
type Catalog interface {
	Products() []domain.Product
	Categories() []domain.Category
	Banners() []domain.Banner
	Settings() domain.Settings
	Product(id string) (domain.Product, bool)
	Category(id string) (domain.Category, bool)
	Banner(id string) (domain.Banner, bool)
	AddProduct(data domain.Product) domain.Product
	UpdateProduct(id string, data domain.Product) bool
	DeleteProduct(id string)
	AddCategory(data domain.Category) (domain.Category, error)
	UpdateCategory(id string, data domain.Category) error
	CheckCategoryDeletable(id string) error
	DeleteCategory(id string) error
	AddBanner(data domain.Banner) domain.Banner
	UpdateBanner(id string, data domain.Banner) bool
	DeleteBanner(id string)
	ReplaceSettings(data domain.Settings)
}

// Generator is the AI backend.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateStructured(ctx context.Context, prompt string, schema *ai.Schema, out interface{}) error
}

// Notifier shows transient messages to the admin.
type Notifier interface {
	Show(kind notify.Kind, message string) notify.Notification
}

type Tab int

const (
	TabProducts Tab = iota
	TabCategories
	TabBanners
	TabSettings
)

func ParseTab(name string) (Tab, bool) {
	switch name {
	case "products":
		return TabProducts, true
	case "categories":
		return TabCategories, true
	case "banners":
		return TabBanners, true
	case "settings":
		return TabSettings, true
	default:
		return TabProducts, false
	}
}

func (t Tab) String() string {
	switch t {
	case TabCategories:
		return "categories"
	case TabBanners:
		return "banners"
	case TabSettings:
		return "settings"
	default:
		return "products"
	}
}

func (t Tab) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Controller is the state of one admin panel session. Mount and Unmount
// bracket the panel's lifetime; AI results that arrive after the panel was
// unmounted are dropped.
type Controller struct {
	mu       sync.Mutex
	store    Catalog
	gen      Generator
	notifier Notifier
	aiSlot   *semaphore.Weighted

	mounted    bool
	generation uint64
	tab        Tab

	productForm     ProductForm
	editingProduct  string
	categoryForm    CategoryForm
	editingCategory string
	bannerForm      BannerForm
	editingBanner   string
	settingsForm    domain.Settings

	suggestion *Suggestion
	pending    *PendingDelete
}

func New(store Catalog, gen Generator, notifier Notifier) *Controller {
	c := &Controller{
		store:    store,
		gen:      gen,
		notifier: notifier,
		aiSlot:   semaphore.NewWeighted(1),
	}
	c.resetForms()
	return c
}

func (c *Controller) notify(kind notify.Kind, message string) {
	if c.notifier != nil {
		c.notifier.Show(kind, message)
	}
}

// Mount opens a fresh panel: forms are reset and the products tab shown.
func (c *Controller) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.mounted = true
	c.tab = TabProducts
	c.resetForms()
}

// Unmount tears the panel down. Requests still in flight keep running but
// their results are discarded.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.mounted = false
	c.suggestion = nil
	c.pending = nil
}

func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// resetForms must be called with the lock held.
func (c *Controller) resetForms() {
	c.productForm = c.emptyProductForm()
	c.editingProduct = ""
	c.categoryForm = emptyCategoryForm()
	c.editingCategory = ""
	c.bannerForm = emptyBannerForm()
	c.editingBanner = ""
	c.settingsForm = c.store.Settings()
	c.suggestion = nil
	c.pending = nil
}

func (c *Controller) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

func (c *Controller) SetTab(t Tab) {
	c.mu.Lock()
	c.tab = t
	c.mu.Unlock()
}

// Busy reports whether an AI request is in flight.
func (c *Controller) Busy() bool {
	if c.aiSlot.TryAcquire(1) {
		c.aiSlot.Release(1)
		return false
	}
	return true
}

// State is a snapshot of the panel for clients.
type State struct {
	Mounted         bool            `json:"mounted"`
	Tab             Tab             `json:"tab"`
	Busy            bool            `json:"busy"`
	ProductForm     ProductForm     `json:"productForm"`
	EditingProduct  string          `json:"editingProduct"`
	CategoryForm    CategoryForm    `json:"categoryForm"`
	EditingCategory string          `json:"editingCategory"`
	BannerForm      BannerForm      `json:"bannerForm"`
	EditingBanner   string          `json:"editingBanner"`
	SettingsForm    domain.Settings `json:"settingsForm"`
	Suggestion      *Suggestion     `json:"suggestion,omitempty"`
	PendingDelete   *PendingDelete  `json:"pendingDelete,omitempty"`
}

func (c *Controller) State() State {
	busy := c.Busy()
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		Mounted:         c.mounted,
		Tab:             c.tab,
		Busy:            busy,
		ProductForm:     c.productForm,
		EditingProduct:  c.editingProduct,
		CategoryForm:    c.categoryForm,
		EditingCategory: c.editingCategory,
		BannerForm:      c.bannerForm,
		EditingBanner:   c.editingBanner,
		SettingsForm:    c.settingsForm,
	}
	if c.suggestion != nil {
		s := *c.suggestion
		st.Suggestion = &s
	}
	if c.pending != nil {
		p := *c.pending
		st.PendingDelete = &p
	}
	return st
}
