package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talkincode/pedeai/internal/events"
	"github.com/talkincode/pedeai/internal/webserver"
)

type eventPayload struct {
	EventName       string                 `json:"event_name"`
	EventProperties map[string]interface{} `json:"event_properties"`
}

func registerEventRoutes() {
	webserver.ApiPOST("/events", postEvent)
}

func postEvent(c echo.Context) error {
	var payload eventPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse event", err.Error())
	}

	dispatcher := GetApp(c).Events()
	if dispatcher == nil {
		return fail(c, http.StatusServiceUnavailable, "EVENTS_UNAVAILABLE", "Event dispatcher not running", nil)
	}

	err := dispatcher.Track(events.Event{
		Name:       payload.EventName,
		SessionID:  GetSessionID(c),
		Properties: payload.EventProperties,
	})
	if err != nil {
		if errors.Is(err, events.ErrUnknownEvent) {
			return fail(c, http.StatusBadRequest, "UNKNOWN_EVENT", "Event name not accepted", payload.EventName)
		}
		return fail(c, http.StatusInternalServerError, "EVENT_ERROR", "Failed to accept event", err.Error())
	}
	return created(c, map[string]interface{}{"accepted": true})
}
