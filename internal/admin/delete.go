package admin

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/notify"
)

type Kind string

const (
	KindProduct  Kind = "product"
	KindCategory Kind = "category"
	KindBanner   Kind = "banner"
)

// PendingDelete is a deletion waiting for confirmation.
type PendingDelete struct {
	Kind  Kind   `json:"kind"`
	ID    string `json:"id"`
	Label string `json:"label"`
}

// RequestDelete asks for confirmation before deleting. Categories that
// cannot be deleted are refused right away.
func (c *Controller) RequestDelete(kind Kind, id string) (PendingDelete, error) {
	p := PendingDelete{Kind: kind, ID: id}
	switch kind {
	case KindProduct:
		prod, ok := c.store.Product(id)
		if !ok {
			return PendingDelete{}, errors.Wrapf(domain.ErrNotFound, "product %s", id)
		}
		p.Label = prod.Name
	case KindBanner:
		b, ok := c.store.Banner(id)
		if !ok {
			return PendingDelete{}, errors.Wrapf(domain.ErrNotFound, "banner %s", id)
		}
		p.Label = b.Title
	case KindCategory:
		cat, ok := c.store.Category(id)
		if !ok {
			return PendingDelete{}, errors.Wrapf(domain.ErrNotFound, "category %s", id)
		}
		if err := c.store.CheckCategoryDeletable(id); err != nil {
			return PendingDelete{}, c.reject(err, categoryMessage(err))
		}
		p.Label = cat.Name
	default:
		return PendingDelete{}, invalid("unknown item kind " + string(kind))
	}
	c.mu.Lock()
	c.pending = &p
	c.mu.Unlock()
	return p, nil
}

func (c *Controller) PendingDelete() (PendingDelete, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return PendingDelete{}, false
	}
	return *c.pending, true
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// ConfirmDelete executes the pending deletion. Category rules are checked
// again since the catalog may have changed in between.
func (c *Controller) ConfirmDelete() (PendingDelete, error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	if pending == nil {
		return PendingDelete{}, errors.Wrap(domain.ErrNotFound, "no deletion pending")
	}

	switch pending.Kind {
	case KindProduct:
		c.store.DeleteProduct(pending.ID)
	case KindBanner:
		c.store.DeleteBanner(pending.ID)
	case KindCategory:
		if err := c.store.DeleteCategory(pending.ID); err != nil {
			return PendingDelete{}, c.reject(err, categoryMessage(err))
		}
	}
	c.mu.Lock()
	if pending.Kind == KindProduct && c.editingProduct == pending.ID {
		c.editingProduct = ""
	}
	if pending.Kind == KindBanner && c.editingBanner == pending.ID {
		c.editingBanner = ""
	}
	if pending.Kind == KindCategory && c.editingCategory == pending.ID {
		c.editingCategory = ""
	}
	c.mu.Unlock()
	zap.L().Info("catalog item deleted", zap.String("namespace", "admin"),
		zap.String("kind", string(pending.Kind)), zap.String("id", pending.ID))
	c.notify(notify.KindInfo, "Elemento eliminado.")
	return *pending, nil
}
