package storeapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/talkincode/pedeai/internal/catalog"
	"github.com/talkincode/pedeai/internal/cms"
	"github.com/talkincode/pedeai/internal/webserver"
	"github.com/talkincode/pedeai/pkg/common"
)

func registerPageRoutes() {
	webserver.PageGET("/", getStorefrontPage)
}

type storefrontPageData struct {
	AppName    string
	ClientName string
	Salutation string
	Phone      string
	Groups     []catalog.Group
}

// getStorefrontPage renders the storefront. Catalog and general config are
// fetched concurrently; either failure fails the whole render.
func getStorefrontPage(c echo.Context) error {
	a := GetApp(c)

	var general cms.General
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		if a.Catalog().Len() > 0 {
			return nil
		}
		return a.Catalog().Refresh(ctx)
	})
	g.Go(func() error {
		var err error
		general, err = a.CmsClient().GetGeneral(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "storefront unavailable: "+err.Error())
	}

	data := storefrontPageData{
		AppName:    a.GetSettingsStringValue("storefront", "app_name"),
		ClientName: a.GetSettingsStringValue("storefront", "client_name"),
		Salutation: common.Salutation(time.Now()),
		Phone:      general.PhoneNumber,
		Groups:     a.Catalog().Grouped(),
	}
	return c.Render(http.StatusOK, "storefront.html", data)
}
