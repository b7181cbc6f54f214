package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/pedeai/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/config", getStoreConfig)
}

// listProducts returns the cached catalog grouped by storefront section.
func listProducts(c echo.Context) error {
	a := GetApp(c)
	if a.Catalog().Len() == 0 {
		if err := a.Catalog().Refresh(c.Request().Context()); err != nil {
			return fail(c, http.StatusInternalServerError, "CATALOG_ERROR", "Failed to load catalog", err.Error())
		}
	}
	return ok(c, a.Catalog().Grouped())
}

// getStoreConfig returns the public storefront configuration.
func getStoreConfig(c echo.Context) error {
	a := GetApp(c)

	general, err := a.CmsClient().GetGeneral(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CONFIG_ERROR", "Failed to load store config", err.Error())
	}

	return ok(c, map[string]interface{}{
		"app_name":     a.GetSettingsStringValue("storefront", "app_name"),
		"client_name":  a.GetSettingsStringValue("storefront", "client_name"),
		"phone_number": general.PhoneNumber,
	})
}
