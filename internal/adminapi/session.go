package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/router"
	"github.com/talkincode/storefront/internal/webserver"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=100"`
}

func registerSessionRoutes() {
	webserver.ApiGET("/view", getView)
	webserver.ApiPOST("/view/:name", postView)
	webserver.ApiPOST("/login", postLogin)
	webserver.ApiPOST("/logout", postLogout)
	webserver.ApiGET("/notification", getNotification)
	webserver.ApiDELETE("/notification", dismissNotification)
}

func getView(c echo.Context) error {
	return ok(c, GetAppContext(c).Router().State())
}

func postView(c echo.Context) error {
	v, found := router.ParseView(c.Param("name"))
	if !found {
		return fail(c, http.StatusBadRequest, "INVALID_VIEW", "Unknown view", c.Param("name"))
	}
	r := GetAppContext(c).Router()
	r.Navigate(v)
	return ok(c, r.State())
}

func postLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	appCtx := GetAppContext(c)
	if err := appCtx.Login(payload.Username, payload.Password); err != nil {
		return failErr(c, err)
	}
	return ok(c, appCtx.Router().State())
}

func postLogout(c echo.Context) error {
	appCtx := GetAppContext(c)
	appCtx.Logout()
	return ok(c, appCtx.Router().State())
}

func getNotification(c echo.Context) error {
	n, found := GetAppContext(c).Notifier().Current()
	if !found {
		return ok(c, nil)
	}
	return ok(c, n)
}

func dismissNotification(c echo.Context) error {
	GetAppContext(c).Notifier().Dismiss()
	return ok(c, nil)
}
