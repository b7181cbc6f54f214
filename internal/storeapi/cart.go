package storeapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talkincode/pedeai/internal/cart"
	"github.com/talkincode/pedeai/internal/events"
	"github.com/talkincode/pedeai/internal/webserver"
)

type cartItemPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/items", postCartItem)
	webserver.ApiPUT("/cart/items/:product_id", putCartItem)
	webserver.ApiDELETE("/cart/items/:product_id", deleteCartItem)
	webserver.ApiDELETE("/cart", deleteCart)
	webserver.ApiGET("/cart/change-options", getChangeOptions)
}

type cartResponse struct {
	Items      []cart.LineItem `json:"items"`
	TotalPrice float64         `json:"total_price"`
	TotalCount int             `json:"total_count"`
}

func renderCart(c cart.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []cart.LineItem{}
	}
	return cartResponse{
		Items:      items,
		TotalPrice: c.TotalPrice(),
		TotalCount: c.TotalCount(),
	}
}

func track(c echo.Context, name string, properties map[string]interface{}) {
	dispatcher := GetApp(c).Events()
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Track(events.Event{
		Name:       name,
		SessionID:  GetSessionID(c),
		Properties: properties,
	})
}

func getCart(c echo.Context) error {
	current := GetApp(c).CartStore().Get(GetSessionID(c))
	track(c, events.EventViewCart, map[string]interface{}{"total_count": current.TotalCount()})
	return ok(c, renderCart(current))
}

func postCartItem(c echo.Context) error {
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}

	product, found := GetApp(c).Catalog().Get(payload.ProductID)
	if !found {
		return fail(c, http.StatusBadRequest, "UNKNOWN_PRODUCT", "Product not in catalog", payload.ProductID)
	}

	current, err := GetApp(c).CartStore().AddItem(GetSessionID(c), product, payload.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be positive", payload.Quantity)
		}
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to update cart", err.Error())
	}

	track(c, events.EventAddToCart, map[string]interface{}{
		"product_id": product.ID,
		"quantity":   payload.Quantity,
	})
	return ok(c, renderCart(current))
}

func putCartItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}

	current := GetApp(c).CartStore().UpdateItemQuantity(GetSessionID(c), productID, payload.Quantity)
	track(c, events.EventUpdateCart, map[string]interface{}{
		"product_id": productID,
		"quantity":   payload.Quantity,
	})
	return ok(c, renderCart(current))
}

func deleteCartItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	current := GetApp(c).CartStore().RemoveItem(GetSessionID(c), productID)
	track(c, events.EventRemoveFromCart, map[string]interface{}{"product_id": productID})
	return ok(c, renderCart(current))
}

func deleteCart(c echo.Context) error {
	current := GetApp(c).CartStore().Clear(GetSessionID(c))
	track(c, events.EventUpdateCart, map[string]interface{}{"cleared": true})
	return ok(c, renderCart(current))
}

// getChangeOptions suggests cash notes for the current cart total.
func getChangeOptions(c echo.Context) error {
	current := GetApp(c).CartStore().Get(GetSessionID(c))
	options := cart.ChangeOptions(current.TotalPrice())
	return ok(c, map[string]interface{}{
		"total":   current.TotalPrice(),
		"options": options,
	})
}
