package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
)

func registerStorefrontRoutes() {
	webserver.ApiGET("/storefront", getStorefront)
	webserver.ApiGET("/items/:id", getItem)
	webserver.ApiGET("/banners/current", getCurrentBanner)
	webserver.ApiPUT("/banners/current/:index", selectBanner)
	webserver.ApiGET("/icons", listIcons)
}

// getStorefront renders the home view
// @Summary storefront home
// @Tags Storefront
// @Param category query string false "Category name or 'all'"
// @Param q query string false "Search text"
// @Success 200 {object} Response
// @Router /api/v1/storefront [get]
func getStorefront(c echo.Context) error {
	page := GetAppContext(c).Page(
		strings.TrimSpace(c.QueryParam("category")),
		c.QueryParam("q"),
	)
	return ok(c, page)
}

func getItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	item, found := GetAppContext(c).Catalog().Item(id)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Item not found", nil)
	}
	return ok(c, item)
}

type currentBanner struct {
	Index  int           `json:"index"`
	Count  int           `json:"count"`
	Banner domain.Banner `json:"banner"`
}

func getCurrentBanner(c echo.Context) error {
	appCtx := GetAppContext(c)
	banners := appCtx.Catalog().Banners()
	if len(banners) == 0 {
		return fail(c, http.StatusNotFound, "NO_BANNERS", "No banners configured", nil)
	}
	idx := appCtx.Carousel().Index()
	if idx >= len(banners) {
		idx = 0
	}
	return ok(c, currentBanner{Index: idx, Count: len(banners), Banner: banners[idx]})
}

func selectBanner(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_INDEX", "Invalid banner index", nil)
	}
	if !GetAppContext(c).Carousel().Select(idx) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Banner index out of range", nil)
	}
	return getCurrentBanner(c)
}

type iconInfo struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
}

// listIcons returns the icons a category may use.
func listIcons(c echo.Context) error {
	icons := domain.SelectableIcons()
	out := make([]iconInfo, 0, len(icons))
	for _, i := range icons {
		out = append(out, iconInfo{Name: i.String(), Glyph: i.Glyph().String()})
	}
	return ok(c, out)
}
