package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/webserver"
)

type descriptionPayload struct {
	Name     string `json:"name" validate:"max=200"`
	Category string `json:"category" validate:"max=100"`
}

type sloganPayload struct {
	BusinessName string `json:"businessName" validate:"max=200"`
}

func registerAIRoutes() {
	webserver.ApiPOST("/admin/ai/description", postAIDescription, requireAdmin)
	webserver.ApiPOST("/admin/ai/slogans", postAISlogans, requireAdmin)
	webserver.ApiPOST("/admin/ai/slogans/:index/apply", applyAISlogan, requireAdmin)
	webserver.ApiPOST("/admin/ai/promotion", postAIPromotion, requireAdmin)
	webserver.ApiPOST("/admin/ai/promotion/apply", applyAIPromotion, requireAdmin)
	webserver.ApiDELETE("/admin/ai/suggestion", dismissAISuggestion, requireAdmin)
}

// postAIDescription fills the product form description. A name or category
// in the body replaces the one in the form once the suggestion succeeds.
func postAIDescription(c echo.Context) error {
	var payload descriptionPayload
	if valid, err := bindValid(c, &payload); !valid {
		return err
	}
	text, err := GetAppContext(c).Admin().GenerateDescriptionFor(c.Request().Context(), payload.Name, payload.Category)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"description": text})
}

func postAISlogans(c echo.Context) error {
	var payload sloganPayload
	if valid, err := bindValid(c, &payload); !valid {
		return err
	}
	slogans, err := GetAppContext(c).Admin().GenerateSlogansFor(c.Request().Context(), payload.BusinessName)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"slogans": slogans})
}

func applyAISlogan(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_INDEX", "Invalid slogan index", nil)
	}
	settings, err := GetAppContext(c).Admin().ApplySlogan(idx)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, settings)
}

// postAIPromotion asks for a promotion idea. The banner form is only filled
// by the apply endpoint.
func postAIPromotion(c echo.Context) error {
	promo, err := GetAppContext(c).Admin().GeneratePromotion(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, promo)
}

func applyAIPromotion(c echo.Context) error {
	form, err := GetAppContext(c).Admin().ApplyPromotion()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, form)
}

func dismissAISuggestion(c echo.Context) error {
	ctrl := GetAppContext(c).Admin()
	ctrl.DismissSuggestion()
	return ok(c, ctrl.State())
}
