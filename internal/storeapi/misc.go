// Package storeapi implements the storefront HTTP handlers: public cart,
// sale and event endpoints plus the JWT-protected admin API.
package storeapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/pedeai/internal/app"
	"github.com/talkincode/pedeai/internal/webserver"
)

// InitRouter registers every storefront route on the webserver registry.
// Call once before the server is built.
func InitRouter() {
	registerPageRoutes()
	registerCatalogRoutes()
	registerCartRoutes()
	registerSaleRoutes()
	registerEventRoutes()
	registerPostalRoutes()
	registerAdminRoutes()
	registerWhatsAppRoutes()
}

// GetApp returns the application context injected by the webserver.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(webserver.ContextAppKey).(app.AppContext)
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB()
}

// GetSessionID returns the visitor's stable session id.
func GetSessionID(c echo.Context) string {
	sid, _ := c.Get(webserver.ContextSessionIDKey).(string)
	return sid
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"msg":  "ok",
		"data": data,
	})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"code": 0,
		"msg":  "ok",
		"data": data,
	})
}

func fail(c echo.Context, status int, code string, msg string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":   code,
		"msg":    msg,
		"detail": detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":      0,
		"msg":       "ok",
		"data":      rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}
