// Package catalog owns the four durable collections of the storefront:
// products, categories, banners and the business settings.
package catalog

import (
	"strconv"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/storage"
)

// TopicChanged is published on the bus after every successful mutation.
// The argument is the storage key of the collection that changed.
const TopicChanged = "catalog:changed"

// Persister is the durable side of the store. *storage.Store satisfies it.
type Persister interface {
	Load(key string, v interface{}) (bool, error)
	Save(key string, v interface{}) error
}

var _ Persister = (*storage.Store)(nil)

type Store struct {
	mu         sync.RWMutex
	persistMu  sync.Mutex
	versions   map[string]uint64 // guarded by mu
	saved      map[string]uint64 // guarded by persistMu
	persister  Persister
	bus        EventBus.Bus
	node       *snowflake.Node
	fold       cases.Caser
	products   []domain.Product
	categories []domain.Category
	banners    []domain.Banner
	settings   domain.Settings
}

// New loads every collection through p, falling back to the seed data for
// collections that are absent or unreadable. p and bus may be nil.
func New(p Persister, bus EventBus.Bus) (*Store, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, errors.Wrap(err, "create id generator")
	}
	s := &Store{
		persister: p,
		bus:       bus,
		node:      node,
		fold:      cases.Fold(),
		versions:  make(map[string]uint64),
		saved:     make(map[string]uint64),
	}
	s.Reload()
	return s, nil
}

// Reload replaces the in-memory collections with what storage holds.
func (s *Store) Reload() {
	var (
		products   []domain.Product
		categories []domain.Category
		banners    []domain.Banner
		settings   domain.Settings
	)
	if !s.load(storage.KeyProducts, &products) {
		products = SeedProducts()
	}
	if !s.load(storage.KeyCategories, &categories) {
		categories = SeedCategories()
	}
	if !s.load(storage.KeyBanners, &banners) {
		banners = SeedBanners()
	}
	if !s.load(storage.KeySettings, &settings) {
		settings = SeedSettings()
	}
	if !hasPromotions(categories) {
		categories = append([]domain.Category{promotionsSeed()}, categories...)
	}

	s.mu.Lock()
	s.products = products
	s.categories = categories
	s.banners = banners
	s.settings = settings
	s.mu.Unlock()
}

// load reports whether key held a readable document, decoded into dst.
func (s *Store) load(key string, dst interface{}) bool {
	if s.persister == nil {
		return false
	}
	found, err := s.persister.Load(key, dst)
	if err != nil {
		zap.L().Warn("stored collection unreadable, using seed data",
			zap.String("namespace", "catalog"),
			zap.String("key", key),
			zap.Error(errors.Wrap(domain.ErrStorageRead, err.Error())))
		return false
	}
	if !found {
		zap.L().Debug("collection not stored, using seed data",
			zap.String("namespace", "catalog"), zap.String("key", key))
	}
	return found
}

func hasPromotions(categories []domain.Category) bool {
	for _, c := range categories {
		if c.Protected() {
			return true
		}
	}
	return false
}

// bump numbers a new snapshot of key. Callers hold mu.
func (s *Store) bump(key string) uint64 {
	s.versions[key]++
	return s.versions[key]
}

// persist writes snapshot ver of a collection. A snapshot older than the
// last one written is skipped, so concurrent mutations cannot leave an
// outdated document behind. Failures are logged only; the in-memory state
// stays authoritative for the running process.
func (s *Store) persist(key string, v interface{}, ver uint64) {
	if s.persister != nil {
		s.persistMu.Lock()
		if ver > s.saved[key] {
			if err := s.persister.Save(key, v); err != nil {
				zap.L().Error("persist collection failed",
					zap.String("namespace", "catalog"),
					zap.String("key", key),
					zap.Error(err))
			}
			s.saved[key] = ver
		}
		s.persistMu.Unlock()
	}
	if s.bus != nil {
		s.bus.Publish(TopicChanged, key)
	}
}

func (s *Store) newID(prefix string) string {
	return prefix + strconv.FormatInt(s.node.Generate().Int64(), 10)
}

func (s *Store) sameName(a, b string) bool {
	return s.fold.String(a) == s.fold.String(b)
}

// Products returns a copy of the product list, newest first.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...)
}

func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...)
}

func (s *Store) Banners() []domain.Banner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Banner(nil), s.banners...)
}

func (s *Store) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) Product(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *Store) Category(id string) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

func (s *Store) Banner(id string) (domain.Banner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.banners {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Banner{}, false
}

// Item resolves a purchasable item by id: a product, or a promotion banner
// with a price.
func (s *Store) Item(id string) (domain.Product, bool) {
	if p, ok := s.Product(id); ok {
		return p, true
	}
	if b, ok := s.Banner(id); ok && b.Purchasable() {
		return b.AsProduct(), true
	}
	return domain.Product{}, false
}

// AddProduct assigns a fresh id and prepends the product.
func (s *Store) AddProduct(data domain.Product) domain.Product {
	data.ID = s.newID("PROD-")
	s.mu.Lock()
	s.products = append([]domain.Product{data}, s.products...)
	snapshot := append([]domain.Product(nil), s.products...)
	ver := s.bump(storage.KeyProducts)
	s.mu.Unlock()
	s.persist(storage.KeyProducts, snapshot, ver)
	return data
}

// UpdateProduct replaces the product with the given id. It reports false,
// and changes nothing, when the id is unknown.
func (s *Store) UpdateProduct(id string, data domain.Product) bool {
	data.ID = id
	s.mu.Lock()
	idx := -1
	for i := range s.products {
		if s.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.products[idx] = data
	snapshot := append([]domain.Product(nil), s.products...)
	ver := s.bump(storage.KeyProducts)
	s.mu.Unlock()
	s.persist(storage.KeyProducts, snapshot, ver)
	return true
}

func (s *Store) DeleteProduct(id string) {
	s.mu.Lock()
	kept := s.products[:0:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	snapshot := append([]domain.Product(nil), kept...)
	ver := s.bump(storage.KeyProducts)
	s.mu.Unlock()
	s.persist(storage.KeyProducts, snapshot, ver)
}

// nameTaken must be called with the lock held.
func (s *Store) nameTaken(name, exceptID string) bool {
	for _, c := range s.categories {
		if c.ID != exceptID && s.sameName(c.Name, name) {
			return true
		}
	}
	return false
}

// AddCategory appends a category with a fresh id. Names are unique
// regardless of case.
func (s *Store) AddCategory(data domain.Category) (domain.Category, error) {
	s.mu.Lock()
	if s.nameTaken(data.Name, "") {
		s.mu.Unlock()
		return domain.Category{}, errors.Wrapf(domain.ErrDuplicateName, "category %q", data.Name)
	}
	data.ID = s.newID("cat-")
	s.categories = append(s.categories, data)
	snapshot := append([]domain.Category(nil), s.categories...)
	ver := s.bump(storage.KeyCategories)
	s.mu.Unlock()
	s.persist(storage.KeyCategories, snapshot, ver)
	return data, nil
}

// UpdateCategory replaces the category with the given id. The promotions
// category keeps its name and icon.
func (s *Store) UpdateCategory(id string, data domain.Category) error {
	data.ID = id
	s.mu.Lock()
	idx := -1
	for i := range s.categories {
		if s.categories[i].ID == id {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		s.mu.Unlock()
		return errors.Wrapf(domain.ErrNotFound, "category %s", id)
	case s.categories[idx].Protected():
		s.mu.Unlock()
		return errors.Wrapf(domain.ErrProtectedCategory, "category %s", id)
	case s.nameTaken(data.Name, id):
		s.mu.Unlock()
		return errors.Wrapf(domain.ErrDuplicateName, "category %q", data.Name)
	}
	s.categories[idx] = data
	snapshot := append([]domain.Category(nil), s.categories...)
	ver := s.bump(storage.KeyCategories)
	s.mu.Unlock()
	s.persist(storage.KeyCategories, snapshot, ver)
	return nil
}

// CheckCategoryDeletable reports why a category cannot be deleted, if it
// cannot.
func (s *Store) CheckCategoryDeletable(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := s.deletableIndex(id)
	return err
}

func (s *Store) deletableIndex(id string) (int, error) {
	idx := -1
	for i := range s.categories {
		if s.categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return -1, errors.Wrapf(domain.ErrNotFound, "category %s", id)
	}
	cat := s.categories[idx]
	if cat.Protected() {
		return -1, errors.Wrapf(domain.ErrProtectedCategory, "category %s", cat.Name)
	}
	for _, p := range s.products {
		if p.Category == cat.Name {
			return -1, errors.Wrapf(domain.ErrCategoryInUse, "category %s", cat.Name)
		}
	}
	return idx, nil
}

func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	idx, err := s.deletableIndex(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.categories = append(s.categories[:idx:idx], s.categories[idx+1:]...)
	snapshot := append([]domain.Category(nil), s.categories...)
	ver := s.bump(storage.KeyCategories)
	s.mu.Unlock()
	s.persist(storage.KeyCategories, snapshot, ver)
	return nil
}

// AddBanner appends a banner with a fresh id.
func (s *Store) AddBanner(data domain.Banner) domain.Banner {
	data.ID = s.newID("PROMO-")
	s.mu.Lock()
	s.banners = append(s.banners, data)
	snapshot := append([]domain.Banner(nil), s.banners...)
	ver := s.bump(storage.KeyBanners)
	s.mu.Unlock()
	s.persist(storage.KeyBanners, snapshot, ver)
	return data
}

func (s *Store) UpdateBanner(id string, data domain.Banner) bool {
	data.ID = id
	s.mu.Lock()
	idx := -1
	for i := range s.banners {
		if s.banners[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.banners[idx] = data
	snapshot := append([]domain.Banner(nil), s.banners...)
	ver := s.bump(storage.KeyBanners)
	s.mu.Unlock()
	s.persist(storage.KeyBanners, snapshot, ver)
	return true
}

func (s *Store) DeleteBanner(id string) {
	s.mu.Lock()
	kept := s.banners[:0:0]
	for _, b := range s.banners {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	s.banners = kept
	snapshot := append([]domain.Banner(nil), kept...)
	ver := s.bump(storage.KeyBanners)
	s.mu.Unlock()
	s.persist(storage.KeyBanners, snapshot, ver)
}

// ReplaceSettings overwrites the settings record as a whole.
func (s *Store) ReplaceSettings(data domain.Settings) {
	s.mu.Lock()
	s.settings = data
	ver := s.bump(storage.KeySettings)
	s.mu.Unlock()
	s.persist(storage.KeySettings, data, ver)
}
