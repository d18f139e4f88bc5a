package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/webserver"
)

type jobInfo struct {
	ID   int       `json:"id"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev"`
}

func registerSystemRoutes() {
	webserver.ApiGET("/admin/system/jobs", listJobs, requireAdmin)
	webserver.ApiPOST("/admin/system/reset", resetCatalog, requireAdmin)
}

// listJobs returns the scheduled jobs
// @Summary list scheduled jobs
// @Tags System
// @Success 200 {object} Response
// @Router /api/v1/admin/system/jobs [get]
func listJobs(c echo.Context) error {
	entries := GetAppContext(c).Scheduler().Entries()
	out := make([]jobInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, jobInfo{ID: int(e.ID), Next: e.Next, Prev: e.Prev})
	}
	return ok(c, out)
}

// resetCatalog drops the stored catalog and restores the seed data.
func resetCatalog(c echo.Context) error {
	appCtx := GetAppContext(c)
	if err := appCtx.InitDb(); err != nil {
		return fail(c, http.StatusInternalServerError, "RESET_FAILED", "Failed to reset catalog", err.Error())
	}
	zap.L().Warn("adminapi: catalog reset to seed data", zap.String("namespace", "admin"))
	return ok(c, map[string]interface{}{
		"products":   len(appCtx.Catalog().Products()),
		"categories": len(appCtx.Catalog().Categories()),
		"banners":    len(appCtx.Catalog().Banners()),
	})
}
