package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/talkincode/pedeai/internal/webserver"
	"github.com/talkincode/pedeai/internal/whatsapp"
)

func registerWhatsAppRoutes() {
	webserver.AdminGET("/whatsapp/qr", getWhatsAppQR)
	webserver.AdminGET("/whatsapp/status", getWhatsAppStatus)
	webserver.AdminPOST("/whatsapp/connect", postWhatsAppConnect)
	webserver.AdminPOST("/whatsapp/send", postWhatsAppSend)
}

// getWhatsAppQR returns the latest pairing code. The admin UI renders the
// QR image client-side from this string.
func getWhatsAppQR(c echo.Context) error {
	svc := whatsapp.Get()
	if svc == nil {
		return fail(c, http.StatusServiceUnavailable, "WA_NOT_INITIALIZED", "WhatsApp service not initialized", nil)
	}
	code := svc.QRCode()
	return ok(c, map[string]interface{}{
		"code":   code,
		"has_qr": code != "",
	})
}

func getWhatsAppStatus(c echo.Context) error {
	svc := whatsapp.Get()
	if svc == nil {
		return fail(c, http.StatusServiceUnavailable, "WA_NOT_INITIALIZED", "WhatsApp service not initialized", nil)
	}
	return ok(c, map[string]interface{}{"paired": svc.Paired()})
}

// postWhatsAppConnect triggers a non-blocking connect attempt; any QR
// event it produces becomes visible through GET /whatsapp/qr.
func postWhatsAppConnect(c echo.Context) error {
	svc := whatsapp.Get()
	if svc == nil {
		return fail(c, http.StatusServiceUnavailable, "WA_NOT_INITIALIZED", "WhatsApp service not initialized", nil)
	}
	svc.ConnectAsync()
	zap.L().Info("storeapi: triggered whatsapp connect")
	return ok(c, map[string]interface{}{"started": true})
}

type whatsAppSendPayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

func postWhatsAppSend(c echo.Context) error {
	svc := whatsapp.Get()
	if svc == nil {
		return fail(c, http.StatusServiceUnavailable, "WA_NOT_INITIALIZED", "WhatsApp service not initialized", nil)
	}
	var payload whatsAppSendPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse message", err.Error())
	}
	if payload.To == "" || payload.Text == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Recipient and text are required", nil)
	}
	if err := svc.SendText(c.Request().Context(), payload.To, payload.Text); err != nil {
		return fail(c, http.StatusBadGateway, "WA_SEND_FAILED", "Failed to send message", err.Error())
	}
	return ok(c, map[string]interface{}{"sent": true})
}
