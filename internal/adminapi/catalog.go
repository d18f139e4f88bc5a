package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/admin"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
)

// Price fields take a number or the raw text typed into the form.
type productPayload struct {
	Name        string      `json:"name" validate:"max=200"`
	Description string      `json:"description" validate:"max=1000"`
	Price       interface{} `json:"price"`
	Category    string      `json:"category" validate:"max=100"`
	ImageUrl    string      `json:"imageUrl" validate:"max=2048"`
}

type categoryPayload struct {
	Name string `json:"name" validate:"max=100"`
	Icon string `json:"icon" validate:"omitempty,oneof=Star Utensils Cake CupSoda Pizza Salad Coffee Sandwich"`
}

type bannerPayload struct {
	Title       string      `json:"title" validate:"max=200"`
	Subtitle    string      `json:"subtitle" validate:"max=300"`
	ImageUrl    string      `json:"imageUrl" validate:"max=2048"`
	IsPromotion bool        `json:"isPromotion"`
	Price       interface{} `json:"price"`
	Description string      `json:"description" validate:"max=1000"`
}

type settingsPayload struct {
	BusinessName   string `json:"businessName" validate:"max=200"`
	LogoUrl        string `json:"logoUrl" validate:"max=2048"`
	Slogan         string `json:"slogan" validate:"max=300"`
	WhatsappNumber string `json:"whatsappNumber" validate:"max=32"`
}

func (p productPayload) form() admin.ProductForm {
	return admin.ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    strings.TrimSpace(p.Category),
		ImageUrl:    strings.TrimSpace(p.ImageUrl),
	}
}

func (p categoryPayload) form() admin.CategoryForm {
	icon := p.Icon
	if icon == "" {
		icon = domain.IconUtensils.String()
	}
	return admin.CategoryForm{Name: p.Name, Icon: icon}
}

func (p bannerPayload) form() admin.BannerForm {
	return admin.BannerForm{
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		ImageUrl:    strings.TrimSpace(p.ImageUrl),
		IsPromotion: p.IsPromotion,
		Price:       p.Price,
		Description: p.Description,
	}
}

func (p settingsPayload) settings() domain.Settings {
	return domain.Settings{
		BusinessName:   p.BusinessName,
		LogoUrl:        strings.TrimSpace(p.LogoUrl),
		Slogan:         p.Slogan,
		WhatsappNumber: p.WhatsappNumber,
	}
}

// registerCatalogRoutes registers the admin catalog CRUD routes. Writes go
// through the admin panel controller so validation and notifications match
// the form flow.
func registerCatalogRoutes() {
	webserver.ApiGET("/admin/products", listProducts, requireAdmin)
	webserver.ApiPOST("/admin/products", createProduct, requireAdmin)
	webserver.ApiPUT("/admin/products/:id", updateProduct, requireAdmin)
	webserver.ApiDELETE("/admin/products/:id", deleteItem(admin.KindProduct), requireAdmin)

	webserver.ApiGET("/admin/categories", listCategories, requireAdmin)
	webserver.ApiPOST("/admin/categories", createCategory, requireAdmin)
	webserver.ApiPUT("/admin/categories/:id", updateCategory, requireAdmin)
	webserver.ApiDELETE("/admin/categories/:id", deleteItem(admin.KindCategory), requireAdmin)

	webserver.ApiGET("/admin/banners", listBanners, requireAdmin)
	webserver.ApiPOST("/admin/banners", createBanner, requireAdmin)
	webserver.ApiPUT("/admin/banners/:id", updateBanner, requireAdmin)
	webserver.ApiDELETE("/admin/banners/:id", deleteItem(admin.KindBanner), requireAdmin)

	webserver.ApiGET("/admin/settings", getSettings, requireAdmin)
	webserver.ApiPUT("/admin/settings", updateSettings, requireAdmin)
}

// listProducts returns the product list, newest first
// @Summary list products
// @Tags Catalog
// @Param page query int false "Page number"
// @Param perPage query int false "Items per page"
// @Param q query string false "Name filter"
// @Param category query string false "Category name"
// @Success 200 {object} ListResponse
// @Router /api/v1/admin/products [get]
func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	category := strings.TrimSpace(c.QueryParam("category"))

	all := GetAppContext(c).Catalog().Products()
	rows := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		rows = append(rows, p)
	}
	return paged(c, pageOf(rows, page, pageSize), int64(len(rows)), page, pageSize)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	ctrl := GetAppContext(c).Admin()
	ctrl.CancelProductEdit()
	ctrl.SetProductForm(payload.form())
	p, err := ctrl.SubmitProduct()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	ctrl := GetAppContext(c).Admin()
	if err := ctrl.EditProduct(id); err != nil {
		return failErr(c, err)
	}
	ctrl.SetProductForm(payload.form())
	p, err := ctrl.SubmitProduct()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, p)
}

func listCategories(c echo.Context) error {
	return ok(c, GetAppContext(c).Catalog().Categories())
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	ctrl := GetAppContext(c).Admin()
	ctrl.CancelCategoryEdit()
	ctrl.SetCategoryForm(payload.form())
	cat, err := ctrl.SubmitCategory()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, cat)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	ctrl := GetAppContext(c).Admin()
	if err := ctrl.EditCategory(id); err != nil {
		return failErr(c, err)
	}
	ctrl.SetCategoryForm(payload.form())
	cat, err := ctrl.SubmitCategory()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, cat)
}

func listBanners(c echo.Context) error {
	return ok(c, GetAppContext(c).Catalog().Banners())
}

func createBanner(c echo.Context) error {
	var payload bannerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse banner", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	ctrl := GetAppContext(c).Admin()
	ctrl.CancelBannerEdit()
	ctrl.SetBannerForm(payload.form())
	b, err := ctrl.SubmitBanner()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, b)
}

func updateBanner(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid banner ID", nil)
	}
	var payload bannerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse banner", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	ctrl := GetAppContext(c).Admin()
	if err := ctrl.EditBanner(id); err != nil {
		return failErr(c, err)
	}
	ctrl.SetBannerForm(payload.form())
	b, err := ctrl.SubmitBanner()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, b)
}

// deleteItem deletes without a separate confirmation step; the API client
// is expected to have asked already.
func deleteItem(kind admin.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID", nil)
		}
		ctrl := GetAppContext(c).Admin()
		if _, err := ctrl.RequestDelete(kind, id); err != nil {
			return failErr(c, err)
		}
		deleted, err := ctrl.ConfirmDelete()
		if err != nil {
			return failErr(c, err)
		}
		return ok(c, deleted)
	}
}

func getSettings(c echo.Context) error {
	return ok(c, GetAppContext(c).Catalog().Settings())
}

func updateSettings(c echo.Context) error {
	var payload settingsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	ctrl := GetAppContext(c).Admin()
	ctrl.SetSettingsForm(payload.settings())
	s, err := ctrl.SubmitSettings()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, s)
}
