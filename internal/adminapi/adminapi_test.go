package adminapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/talkincode/storefront/config"
	"github.com/talkincode/storefront/internal/app"
	"github.com/talkincode/storefront/internal/webserver"
)

type apiEnv struct {
	app  *app.Application
	root *echo.Echo
}

func setupAPI(t *testing.T, mutate func(cfg *config.AppConfig)) *apiEnv {
	t.Helper()
	cfg := new(config.AppConfig)
	*cfg = *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	a := app.NewApplication(cfg)
	require.NoError(t, a.Init(cfg))
	t.Cleanup(a.Release)

	webserver.Init(cfg, a)
	Init()
	return &apiEnv{app: a, root: webserver.Root()}
}

func (e *apiEnv) do(t *testing.T, method, path, body string) (int, gjson.Result) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, webserver.ApiPrefix+path, nil)
	} else {
		req = httptest.NewRequest(method, webserver.ApiPrefix+path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.root.ServeHTTP(rec, req)
	require.True(t, gjson.Valid(rec.Body.String()), rec.Body.String())
	return rec.Code, gjson.Parse(rec.Body.String())
}

func (e *apiEnv) login(t *testing.T) {
	t.Helper()
	status, _ := e.do(t, http.MethodPost, "/login", `{"username":"merida13","password":"darwin13"}`)
	require.Equal(t, http.StatusOK, status)
}

func TestStorefrontListing(t *testing.T) {
	env := setupAPI(t, nil)

	status, body := env.do(t, http.MethodGet, "/storefront", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body.Get("data.items").Array(), 4)
	assert.Equal(t, "Todos", body.Get("data.categories.0.name").String())
	assert.Equal(t, "Home", body.Get("data.categories.0.icon").String())

	_, body = env.do(t, http.MethodGet, "/storefront?category=Bebidas", "")
	assert.Equal(t, "Malteada de Vainilla", body.Get("data.items.0.name").String())

	status, body = env.do(t, http.MethodGet, "/banners/current", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(0), body.Get("data.index").Int())
	assert.Equal(t, "¡Combo del Día!", body.Get("data.banner.title").String())

	status, _ = env.do(t, http.MethodPut, "/banners/current/3", "")
	assert.Equal(t, http.StatusNotFound, status)

	_, body = env.do(t, http.MethodGet, "/icons", "")
	assert.Len(t, body.Get("data").Array(), 8)
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	env := setupAPI(t, nil)

	status, body := env.do(t, http.MethodGet, "/admin/products", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body.Get("error").String())

	status, body = env.do(t, http.MethodPost, "/login", `{"username":"merida13","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Get("error").String())

	status, body = env.do(t, http.MethodPost, "/login", `{"username":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "required", body.Get("details.Username").String())

	env.login(t)
	status, body = env.do(t, http.MethodGet, "/admin/products", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(3), body.Get("meta.total").Int())

	_, body = env.do(t, http.MethodPost, "/logout", "")
	assert.Equal(t, "home", body.Get("data.rendered").String())
	status, _ = env.do(t, http.MethodGet, "/admin/products", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestViewNavigation(t *testing.T) {
	env := setupAPI(t, nil)

	_, body := env.do(t, http.MethodPost, "/view/admin", "")
	assert.Equal(t, "admin", body.Get("data.view").String())
	assert.Equal(t, "login", body.Get("data.rendered").String())

	status, body := env.do(t, http.MethodPost, "/view/checkout", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_VIEW", body.Get("error").String())
}

func TestCategoryRules(t *testing.T) {
	env := setupAPI(t, nil)
	env.login(t)

	status, body := env.do(t, http.MethodPost, "/admin/categories", `{"name":"bebidas","icon":"Coffee"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NAME_EXISTS", body.Get("error").String())

	status, body = env.do(t, http.MethodPost, "/admin/categories", `{"name":"Pizzas","icon":"Home"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "oneof", body.Get("details.Icon").String())

	status, body = env.do(t, http.MethodDelete, "/admin/categories/cat-promo", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CATEGORY_PROTECTED", body.Get("error").String())

	status, body = env.do(t, http.MethodDelete, "/admin/categories/cat-hamburguesas", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CATEGORY_IN_USE", body.Get("error").String())

	status, _ = env.do(t, http.MethodDelete, "/admin/categories/cat-postres", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, env.app.Catalog().Categories(), 3)

	status, _ = env.do(t, http.MethodDelete, "/admin/categories/cat-postres", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProductCrud(t *testing.T) {
	env := setupAPI(t, nil)
	env.login(t)

	status, body := env.do(t, http.MethodPost, "/admin/products", `{"name":"Papas","price":"3.5","category":"Hamburguesas"}`)
	require.Equal(t, http.StatusOK, status)
	id := body.Get("data.id").String()
	assert.True(t, strings.HasPrefix(id, "PROD-"))
	assert.Equal(t, 3.5, body.Get("data.price").Float())

	status, body = env.do(t, http.MethodPut, "/admin/products/"+id, `{"name":"Papas Grandes","price":4,"category":"Hamburguesas"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Papas Grandes", body.Get("data.name").String())

	status, body = env.do(t, http.MethodPost, "/admin/products", `{"name":"  ","price":1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Get("error").String())

	status, _ = env.do(t, http.MethodPut, "/admin/products/missing", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodDelete, "/admin/products/"+id, "")
	assert.Equal(t, http.StatusOK, status)
	_, found := env.app.Catalog().Product(id)
	assert.False(t, found)
}

func TestPanelDeleteFlow(t *testing.T) {
	env := setupAPI(t, nil)
	env.login(t)

	_, body := env.do(t, http.MethodPost, "/admin/panel/delete/banner/PROMO-1687530000", "")
	assert.Equal(t, "¡Combo del Día!", body.Get("data.label").String())

	_, body = env.do(t, http.MethodGet, "/admin/panel", "")
	assert.Equal(t, "PROMO-1687530000", body.Get("data.pendingDelete.id").String())

	status, _ := env.do(t, http.MethodPost, "/admin/panel/delete/confirm", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, env.app.Catalog().Banners())

	status, _ = env.do(t, http.MethodPost, "/admin/panel/delete/confirm", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCartAndCheckout(t *testing.T) {
	env := setupAPI(t, nil)

	status, body := env.do(t, http.MethodPost, "/cart/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Get("error").String())

	status, _ = env.do(t, http.MethodPost, "/cart/items", `{"id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, status)

	env.do(t, http.MethodPost, "/cart/items", `{"id":"HB001"}`)
	_, body = env.do(t, http.MethodPost, "/cart/items", `{"id":"HB001"}`)
	assert.Equal(t, int64(2), body.Get("data.count").Int())
	key := body.Get("data.lines.0.key").String()

	_, body = env.do(t, http.MethodPut, "/cart/items/"+key+"/quantity", `{"delta":-5}`)
	assert.Equal(t, int64(1), body.Get("data.lines.0.quantity").Int())

	_, body = env.do(t, http.MethodPut, "/cart/items/"+key+"/note", `{"note":"sin cebolla"}`)
	assert.Equal(t, "sin cebolla", body.Get("data.lines.0.note").String())

	status, body = env.do(t, http.MethodPost, "/checkout", `{"address":"  "}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_ADDRESS", body.Get("error").String())

	status, body = env.do(t, http.MethodPost, "/checkout", `{"address":"Calle 1"}`)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(body.Get("data.url").String(), "https://wa.me/1234567890?text="))
	assert.Contains(t, body.Get("data.message").String(), "_Modificación:_ sin cebolla")

	_, body = env.do(t, http.MethodGet, "/cart", "")
	assert.Equal(t, int64(0), body.Get("data.count").Int())

	_, body = env.do(t, http.MethodGet, "/notification", "")
	assert.Equal(t, "¡Pedido enviado! Redirigiendo a WhatsApp...", body.Get("data.message").String())

	env.login(t)
	_, body = env.do(t, http.MethodGet, "/admin/orders", "")
	assert.Equal(t, int64(1), body.Get("meta.total").Int())
	assert.Equal(t, "1234567890@s.whatsapp.net", body.Get("data.0.jid").String())
}

func TestAIPromotion(t *testing.T) {
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"title\":\"Combo Amigos\",\"subtitle\":\"2 x 1\",\"description\":\"Para compartir\",\"price\":24.5}"}]}}]}`))
	}))
	defer gemini.Close()

	env := setupAPI(t, func(cfg *config.AppConfig) {
		cfg.AI.Endpoint = gemini.URL
		cfg.AI.APIKey = "test-key"
	})

	status, _ := env.do(t, http.MethodPost, "/admin/ai/promotion", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	env.login(t)
	status, body := env.do(t, http.MethodPost, "/admin/ai/promotion", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Combo Amigos", body.Get("data.title").String())

	_, body = env.do(t, http.MethodGet, "/admin/panel", "")
	assert.Equal(t, "Idea para Promoción", body.Get("data.suggestion.title").String())

	status, body = env.do(t, http.MethodPost, "/admin/ai/promotion/apply", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, body.Get("data.isPromotion").Bool())
	assert.Equal(t, 24.5, body.Get("data.price").Float())

	_, body = env.do(t, http.MethodGet, "/admin/panel", "")
	assert.Equal(t, "banners", body.Get("data.tab").String())
}

func TestAIFailureMapsToBadGateway(t *testing.T) {
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer gemini.Close()

	env := setupAPI(t, func(cfg *config.AppConfig) {
		cfg.AI.Endpoint = gemini.URL
		cfg.AI.APIKey = "test-key"
	})
	env.login(t)

	status, body := env.do(t, http.MethodPost, "/admin/ai/description", `{"name":"Queso Lover"}`)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "AI_ERROR", body.Get("error").String())
}

func TestSystemReset(t *testing.T) {
	env := setupAPI(t, nil)
	env.login(t)
	env.app.Catalog().DeleteProduct("HB001")

	status, body := env.do(t, http.MethodPost, "/admin/system/reset", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(3), body.Get("data.products").Int())

	_, body = env.do(t, http.MethodGet, "/admin/system/jobs", "")
	assert.NotEmpty(t, body.Get("data").Array())
}

func TestAIFailureLeavesFormsUnchanged(t *testing.T) {
	env := setupAPI(t, nil)
	env.login(t)

	_, before := env.do(t, http.MethodGet, "/admin/panel", "")

	status, _ := env.do(t, http.MethodPost, "/admin/ai/description", `{"name":"Nuevo Nombre","category":"Bebidas"}`)
	require.Equal(t, http.StatusBadGateway, status)
	status, _ = env.do(t, http.MethodPost, "/admin/ai/slogans", `{"businessName":"Otro"}`)
	require.Equal(t, http.StatusBadGateway, status)

	_, after := env.do(t, http.MethodGet, "/admin/panel", "")
	assert.Equal(t, before.Get("data.productForm").Raw, after.Get("data.productForm").Raw)
	assert.Equal(t, before.Get("data.settingsForm").Raw, after.Get("data.settingsForm").Raw)
	assert.Equal(t, "Mi Negocio", after.Get("data.settingsForm.businessName").String())
}

func TestAIDescriptionAppliesNameOnSuccess(t *testing.T) {
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Cremosa y fría."}]}}]}`))
	}))
	defer gemini.Close()

	env := setupAPI(t, func(cfg *config.AppConfig) {
		cfg.AI.Endpoint = gemini.URL
		cfg.AI.APIKey = "test-key"
	})
	env.login(t)

	status, body := env.do(t, http.MethodPost, "/admin/ai/description", `{"name":"Malteada Fresa","category":"Bebidas"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Cremosa y fría.", body.Get("data.description").String())

	_, body = env.do(t, http.MethodGet, "/admin/panel", "")
	assert.Equal(t, "Malteada Fresa", body.Get("data.productForm.name").String())
	assert.Equal(t, "Bebidas", body.Get("data.productForm.category").String())
	assert.Equal(t, "Cremosa y fría.", body.Get("data.productForm.description").String())

	status, _ = env.do(t, http.MethodPost, "/admin/ai/slogans", `{"businessName":"La Esquina"}`)
	require.Equal(t, http.StatusOK, status)
	_, body = env.do(t, http.MethodGet, "/admin/panel", "")
	assert.Equal(t, "La Esquina", body.Get("data.settingsForm.businessName").String())
}
