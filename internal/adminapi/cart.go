package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
)

type cartItemPayload struct {
	ID string `json:"id" validate:"required,max=100"`
}

type cartQuantityPayload struct {
	Delta int `json:"delta" validate:"required,min=-100,max=100"`
}

type cartNotePayload struct {
	Note string `json:"note" validate:"max=500"`
}

type cartView struct {
	Lines []domain.CartLine `json:"lines"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/items", addCartItem)
	webserver.ApiPUT("/cart/items/:key/quantity", updateCartQuantity)
	webserver.ApiPUT("/cart/items/:key/note", updateCartNote)
	webserver.ApiDELETE("/cart/items/:key", removeCartItem)
	webserver.ApiDELETE("/cart", clearCart)
}

func cartState(c echo.Context) cartView {
	engine := GetAppContext(c).Cart()
	lines := engine.Lines()
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return cartView{Lines: lines, Total: engine.Total(), Count: engine.Count()}
}

func getCart(c echo.Context) error {
	return ok(c, cartState(c))
}

func addCartItem(c echo.Context) error {
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if _, err := GetAppContext(c).AddToCart(payload.ID); err != nil {
		return failErr(c, err)
	}
	return ok(c, cartState(c))
}

func updateCartQuantity(c echo.Context) error {
	key, err := parseKeyParam(c, "key")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_KEY", "Invalid cart line key", nil)
	}
	var payload cartQuantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !GetAppContext(c).Cart().SetQuantity(key, payload.Delta) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Cart line not found", nil)
	}
	return ok(c, cartState(c))
}

func updateCartNote(c echo.Context) error {
	key, err := parseKeyParam(c, "key")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_KEY", "Invalid cart line key", nil)
	}
	var payload cartNotePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse note", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !GetAppContext(c).Cart().SetNote(key, payload.Note) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Cart line not found", nil)
	}
	return ok(c, cartState(c))
}

func removeCartItem(c echo.Context) error {
	key, err := parseKeyParam(c, "key")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_KEY", "Invalid cart line key", nil)
	}
	if !GetAppContext(c).Cart().RemoveItem(key) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Cart line not found", nil)
	}
	return ok(c, cartState(c))
}

func clearCart(c echo.Context) error {
	GetAppContext(c).Cart().Clear()
	return ok(c, cartState(c))
}
