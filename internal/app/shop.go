package app

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/order"
	"github.com/talkincode/storefront/internal/router"
	"github.com/talkincode/storefront/internal/storefront"
)

// Page renders the home view. An unknown or empty category shows everything.
func (a *Application) Page(category, search string) storefront.Page {
	banners := a.catalog.Banners()
	items := storefront.DisplayItems(a.catalog.Products(), banners)
	if category == "" || category == storefront.AllCategoryID {
		category = domain.AllCategories
	}
	return storefront.Page{
		Settings:   a.catalog.Settings(),
		Categories: storefront.DisplayCategories(a.catalog.Categories(), items),
		Items:      storefront.Filter(items, category, search),
		Banners:    banners,
		Banner:     a.carousel.Index(),
		CartCount:  storefront.CartBadge(a.cart.Lines()),
		Category:   category,
		Search:     search,
	}
}

// AddToCart adds one unit of a product or purchasable promotion.
func (a *Application) AddToCart(id string) (int64, error) {
	item, ok := a.catalog.Item(id)
	if !ok {
		return 0, errors.Wrapf(domain.ErrNotFound, "item %s", id)
	}
	key := a.cart.AddItem(item)
	a.notifier.Success(item.Name + " añadido al carrito!")
	zap.L().Debug("cart item added", zap.String("namespace", "cart"),
		zap.String("id", id), zap.Int64("key", key))
	return key, nil
}

// Checkout renders the order and hands it to the messaging service. The
// cart is cleared and the view returns home only when that succeeds.
func (a *Application) Checkout(ctx context.Context, address string) (order.Result, error) {
	var res order.Result
	err := a.cart.Consume(func(lines []domain.CartLine) error {
		built, err := a.orders.Build(lines, a.catalog.Settings(), address, a.now())
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrMissingAddress):
				a.notifier.Error("Por favor, ingresa tu dirección para la entrega.")
			case errors.Is(err, domain.ErrEmptyCart):
				a.notifier.Error("Tu carrito está vacío.")
			default:
				a.notifier.Error("No se pudo generar el pedido.")
			}
			zap.L().Info("checkout rejected", zap.String("namespace", "checkout"), zap.Error(err))
			return err
		}

		d, err := a.messenger.SendText(ctx, built.Folio, a.catalog.Settings().WhatsappNumber, built.Message)
		if err != nil {
			a.notifier.Error("No se pudo generar el pedido.")
			zap.L().Error("checkout dispatch failed", zap.String("namespace", "checkout"),
				zap.String("folio", built.Folio), zap.Error(err))
			return err
		}
		built.URL = d.URL
		res = built
		return nil
	})
	if err != nil {
		return order.Result{}, err
	}

	a.router.Navigate(router.ViewHome)
	a.notifier.Success("¡Pedido enviado! Redirigiendo a WhatsApp...")
	return res, nil
}

func (a *Application) Login(username, password string) error {
	return a.router.Login(username, password)
}

// Logout ends the admin session and returns home.
func (a *Application) Logout() {
	a.router.Logout()
}
