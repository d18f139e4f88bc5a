package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/admin"
	"github.com/talkincode/storefront/internal/webserver"
)

// registerPanelRoutes exposes the admin panel session: tab, draft forms,
// edit targets and the two-step delete.
func registerPanelRoutes() {
	webserver.ApiGET("/admin/panel", getPanel, requireAdmin)
	webserver.ApiPUT("/admin/panel/tab/:name", putPanelTab, requireAdmin)
	webserver.ApiPUT("/admin/panel/forms/:name", putPanelForm, requireAdmin)
	webserver.ApiPOST("/admin/panel/forms/:name/submit", submitPanelForm, requireAdmin)
	webserver.ApiPOST("/admin/panel/forms/:name/cancel", cancelPanelForm, requireAdmin)
	webserver.ApiPOST("/admin/panel/edit/:kind/:id", editPanelItem, requireAdmin)
	webserver.ApiPOST("/admin/panel/delete/confirm", confirmPanelDelete, requireAdmin)
	webserver.ApiPOST("/admin/panel/delete/:kind/:id", requestPanelDelete, requireAdmin)
	webserver.ApiDELETE("/admin/panel/delete", cancelPanelDelete, requireAdmin)
}

func getPanel(c echo.Context) error {
	return ok(c, GetAppContext(c).Admin().State())
}

func putPanelTab(c echo.Context) error {
	tab, found := admin.ParseTab(c.Param("name"))
	if !found {
		return fail(c, http.StatusBadRequest, "INVALID_TAB", "Unknown tab", c.Param("name"))
	}
	ctrl := GetAppContext(c).Admin()
	ctrl.SetTab(tab)
	return ok(c, ctrl.State())
}

// bindValid binds and validates payload. When it reports false the error
// response is already written and err is the handler's result.
func bindValid(c echo.Context, payload interface{}) (bool, error) {
	if err := c.Bind(payload); err != nil {
		return false, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse form", err.Error())
	}
	if err := c.Validate(payload); err != nil {
		return false, handleValidationError(c, err)
	}
	return true, nil
}

// putPanelForm stores a draft without submitting it.
func putPanelForm(c echo.Context) error {
	ctrl := GetAppContext(c).Admin()
	switch c.Param("name") {
	case "product":
		var p productPayload
		if valid, err := bindValid(c, &p); !valid {
			return err
		}
		ctrl.SetProductForm(p.form())
	case "category":
		var p categoryPayload
		if valid, err := bindValid(c, &p); !valid {
			return err
		}
		ctrl.SetCategoryForm(p.form())
	case "banner":
		var p bannerPayload
		if valid, err := bindValid(c, &p); !valid {
			return err
		}
		ctrl.SetBannerForm(p.form())
	case "settings":
		var p settingsPayload
		if valid, err := bindValid(c, &p); !valid {
			return err
		}
		ctrl.SetSettingsForm(p.settings())
	default:
		return fail(c, http.StatusNotFound, "UNKNOWN_FORM", "Unknown form", c.Param("name"))
	}
	return ok(c, ctrl.State())
}

func submitPanelForm(c echo.Context) error {
	ctrl := GetAppContext(c).Admin()
	var (
		saved interface{}
		err   error
	)
	switch c.Param("name") {
	case "product":
		saved, err = ctrl.SubmitProduct()
	case "category":
		saved, err = ctrl.SubmitCategory()
	case "banner":
		saved, err = ctrl.SubmitBanner()
	case "settings":
		saved, err = ctrl.SubmitSettings()
	default:
		return fail(c, http.StatusNotFound, "UNKNOWN_FORM", "Unknown form", c.Param("name"))
	}
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, saved)
}

func cancelPanelForm(c echo.Context) error {
	ctrl := GetAppContext(c).Admin()
	switch c.Param("name") {
	case "product":
		ctrl.CancelProductEdit()
	case "category":
		ctrl.CancelCategoryEdit()
	case "banner":
		ctrl.CancelBannerEdit()
	default:
		return fail(c, http.StatusNotFound, "UNKNOWN_FORM", "Unknown form", c.Param("name"))
	}
	return ok(c, ctrl.State())
}

func editPanelItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID", nil)
	}
	ctrl := GetAppContext(c).Admin()
	switch admin.Kind(c.Param("kind")) {
	case admin.KindProduct:
		err = ctrl.EditProduct(id)
	case admin.KindCategory:
		err = ctrl.EditCategory(id)
	case admin.KindBanner:
		err = ctrl.EditBanner(id)
	default:
		return fail(c, http.StatusBadRequest, "INVALID_KIND", "Unknown item kind", c.Param("kind"))
	}
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, ctrl.State())
}

func requestPanelDelete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID", nil)
	}
	pending, err := GetAppContext(c).Admin().RequestDelete(admin.Kind(c.Param("kind")), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, pending)
}

func confirmPanelDelete(c echo.Context) error {
	deleted, err := GetAppContext(c).Admin().ConfirmDelete()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, deleted)
}

func cancelPanelDelete(c echo.Context) error {
	ctrl := GetAppContext(c).Admin()
	ctrl.CancelDelete()
	return ok(c, ctrl.State())
}
