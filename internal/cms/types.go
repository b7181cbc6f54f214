// Package cms talks to the headless CMS that owns the product catalog, the
// storefront general config and the sales/events collections.
package cms

// General is the storefront-wide configuration entry maintained in the CMS.
type General struct {
	PhoneNumber         string `json:"phone_number" mapstructure:"phone_number"`
	SaleMessageTemplate string `json:"sale_message_template" mapstructure:"sale_message_template"`
}

// SaleItemPayload is one order line forwarded to the CMS.
type SaleItemPayload struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// SalePayload is the order-creation request forwarded to the CMS.
type SalePayload struct {
	Address       string            `json:"address"`
	PaymentMethod string            `json:"payment_method"`
	Total         float64           `json:"total"`
	Items         []SaleItemPayload `json:"-"`
}

// EventPayload is an analytics event forwarded to the CMS.
type EventPayload struct {
	EventName       string                 `json:"event_name"`
	EventProperties map[string]interface{} `json:"event_properties"`
	SessionID       string                 `json:"session_id"`
}

// strapi response envelopes

type entry struct {
	ID         int64                  `mapstructure:"id"`
	Attributes map[string]interface{} `mapstructure:"attributes"`
}

type listEnvelope struct {
	Data []entry `mapstructure:"data"`
}

type singleEnvelope struct {
	Data entry `mapstructure:"data"`
}

type productAttributes struct {
	Name       string  `mapstructure:"name"`
	Category   string  `mapstructure:"category"`
	Price      float64 `mapstructure:"price"`
	Active     bool    `mapstructure:"active"`
	CoverImage struct {
		Data struct {
			Attributes struct {
				URL     string `mapstructure:"url"`
				Formats map[string]struct {
					URL string `mapstructure:"url"`
				} `mapstructure:"formats"`
			} `mapstructure:"attributes"`
		} `mapstructure:"data"`
	} `mapstructure:"cover_image"`
}
