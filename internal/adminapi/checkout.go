package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/webserver"
	"github.com/talkincode/storefront/internal/whatsapp"
)

type checkoutPayload struct {
	Address string `json:"address" validate:"max=500"`
}

func registerCheckoutRoutes() {
	webserver.ApiPOST("/checkout", postCheckout)
	webserver.ApiGET("/admin/orders", listOrders, requireAdmin)
}

// postCheckout turns the cart into an order message and returns the
// click-to-chat link the browser should open.
// Request JSON: { "address": "Calle 1, Centro" }
func postCheckout(c echo.Context) error {
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	res, err := GetAppContext(c).Checkout(c.Request().Context(), payload.Address)
	if err != nil {
		return failErr(c, err)
	}
	zap.L().Info("adminapi: order created", zap.String("namespace", "checkout"), zap.String("folio", res.Folio))
	return ok(c, res)
}

// listOrders returns the recent order hand-offs, newest first.
func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	history := GetAppContext(c).Messenger().History()
	if history == nil {
		history = []whatsapp.Dispatch{}
	}
	return paged(c, pageOf(history, page, pageSize), int64(len(history)), page, pageSize)
}
