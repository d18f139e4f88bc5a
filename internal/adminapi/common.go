// Package adminapi exposes the storefront and its admin panel as a JSON API.
package adminapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talkincode/storefront/internal/admin"
	"github.com/talkincode/storefront/internal/app"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
)

// Response is the success envelope.
type Response struct {
	Data interface{} `json:"data"`
}

// ListResponse is the envelope of paged lists.
type ListResponse struct {
	Data interface{} `json:"data"`
	Meta Meta        `json:"meta"`
}

type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Init registers every API route on the global web server.
func Init() {
	registerStorefrontRoutes()
	registerCartRoutes()
	registerCheckoutRoutes()
	registerSessionRoutes()
	registerCatalogRoutes()
	registerPanelRoutes()
	registerAIRoutes()
	registerSystemRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, ListResponse{
		Data: data,
		Meta: Meta{Total: total, Page: page, PageSize: pageSize},
	})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Error: code, Message: message, Details: details})
}

// GetAppContext returns the application attached by the web server.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page, pageSize = 1, 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	raw := c.QueryParam("perPage")
	if raw == "" {
		raw = c.QueryParam("pageSize")
	}
	if ps, err := strconv.Atoi(raw); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// pageOf slices items for the requested page.
func pageOf[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func parseIDParam(c echo.Context, name string) (string, error) {
	id := strings.TrimSpace(c.Param(name))
	if id == "" {
		return "", errors.Errorf("missing %s", name)
	}
	return id, nil
}

func parseKeyParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func handleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", fields)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", err.Error())
}

// failErr maps a domain error to its HTTP status and error code.
func failErr(c echo.Context, err error) error {
	status, code, msg := http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error"
	switch {
	case errors.Is(err, domain.ErrDuplicateName):
		status, code, msg = http.StatusConflict, "NAME_EXISTS", "A category with that name already exists"
	case errors.Is(err, domain.ErrProtectedCategory):
		status, code, msg = http.StatusConflict, "CATEGORY_PROTECTED", "The promotions category cannot be changed"
	case errors.Is(err, domain.ErrCategoryInUse):
		status, code, msg = http.StatusConflict, "CATEGORY_IN_USE", "Category has products and cannot be deleted"
	case errors.Is(err, domain.ErrMissingAddress):
		status, code, msg = http.StatusBadRequest, "MISSING_ADDRESS", "Delivery address is required"
	case errors.Is(err, domain.ErrEmptyCart):
		status, code, msg = http.StatusBadRequest, "EMPTY_CART", "Cart is empty"
	case errors.Is(err, domain.ErrValidation):
		status, code, msg = http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input"
	case errors.Is(err, domain.ErrAIBusy):
		status, code, msg = http.StatusTooManyRequests, "AI_BUSY", "An AI request is already running"
	case errors.Is(err, domain.ErrAIResponseMalformed),
		errors.Is(err, domain.ErrAIEmptyResponse),
		errors.Is(err, domain.ErrAITransport):
		status, code, msg = http.StatusBadGateway, "AI_ERROR", "AI service failed"
	case errors.Is(err, context.DeadlineExceeded):
		status, code, msg = http.StatusGatewayTimeout, "AI_TIMEOUT", "AI service timed out"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, code, msg = http.StatusUnauthorized, "INVALID_CREDENTIALS", "Usuario o contraseña incorrectos."
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = http.StatusNotFound, "NOT_FOUND", "Not found"
	case errors.Is(err, admin.ErrNotMounted), errors.Is(err, admin.ErrStale):
		status, code, msg = http.StatusConflict, "PANEL_CLOSED", "Admin panel is not open"
	}
	return fail(c, status, code, msg, err.Error())
}

// requireAdmin rejects requests unless the session is authenticated.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !GetAppContext(c).Router().Authenticated() {
			return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Admin login required", nil)
		}
		return next(c)
	}
}
