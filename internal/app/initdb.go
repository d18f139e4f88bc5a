package app

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/catalog"
	"github.com/talkincode/storefront/internal/storage"
	"github.com/talkincode/storefront/internal/whatsapp"
)

// checkSettings warns about business settings that make checkout impossible.
func (a *Application) checkSettings() {
	s := a.catalog.Settings()
	if whatsapp.NormalizePhone(s.WhatsappNumber) == "" {
		zap.L().Warn("business whatsapp number is empty, orders cannot be sent",
			zap.String("namespace", "catalog"))
	}
	zap.L().Info("catalog loaded",
		zap.String("namespace", "catalog"),
		zap.String("business", s.BusinessName),
		zap.Int("products", len(a.catalog.Products())),
		zap.Int("categories", len(a.catalog.Categories())),
		zap.Int("banners", len(a.catalog.Banners())))
}

// DropAll removes every stored collection. The running catalog keeps its
// in-memory state until the next reload.
func (a *Application) DropAll() error {
	if err := a.store.DropAll(); err != nil {
		return errors.Wrap(err, "drop stored collections")
	}
	zap.L().Warn("stored collections dropped", zap.String("namespace", "storage"))
	return nil
}

// InitDb drops all stored collections and reloads the seed catalog.
func (a *Application) InitDb() error {
	if err := a.DropAll(); err != nil {
		return err
	}
	a.catalog.Reload()
	a.cart.Clear()
	a.carousel.Reset()
	a.bus.Publish(catalog.TopicChanged, storage.KeyBanners)
	a.checkSettings()
	return nil
}
