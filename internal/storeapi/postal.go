package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talkincode/pedeai/internal/postal"
	"github.com/talkincode/pedeai/internal/webserver"
)

func registerPostalRoutes() {
	webserver.ApiGET("/postalcode/:cep", getPostalCode)
	webserver.ApiPOST("/address/line", postAddressLine)
}

// getPostalCode resolves a CEP for the address prefill step.
func getPostalCode(c echo.Context) error {
	info, err := GetApp(c).Postal().Lookup(c.Request().Context(), c.Param("cep"))
	if err != nil {
		if errors.Is(err, postal.ErrInvalidCep) {
			return fail(c, http.StatusBadRequest, "INVALID_CEP", "CEP must contain 8 digits", c.Param("cep"))
		}
		return fail(c, http.StatusBadGateway, "CEP_LOOKUP_ERROR", "Failed to resolve CEP", err.Error())
	}
	return ok(c, info)
}

// postAddressLine composes the final single-line delivery address from the
// edited form fields.
func postAddressLine(c echo.Context) error {
	var address postal.Address
	if err := c.Bind(&address); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse address", err.Error())
	}
	if address.Street == "" || address.Number == "" {
		return fail(c, http.StatusBadRequest, "INVALID_ADDRESS", "Street and number are required", nil)
	}
	return ok(c, map[string]interface{}{"line": address.Line()})
}
