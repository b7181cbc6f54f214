package cms

import (
	"context"
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/talkincode/pedeai/config"
	"github.com/talkincode/pedeai/internal/domain"
)

// Client is the HTTP client for the CMS API. All calls fail with a wrapped
// transport or status error; the caller decides whether that is fatal.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

func NewClient(cfg config.CmsConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: cfg.URL, token: cfg.Token, timeout: timeout}
}

func (c *Client) authHeader() gout.H {
	return gout.H{"Authorization": "Bearer " + c.token}
}

func decode(raw, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// GetProducts fetches the active catalog, sorted by name, with cover image
// variants resolved against the CMS base URL.
func (c *Client) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var raw map[string]interface{}
	var code int
	err := gout.GET(c.baseURL+"/api/products").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(c.authHeader()).
		SetQuery(gout.H{
			"sort":                 "name:asc",
			"pagination[pageSize]": 100,
			"pagination[page]":     1,
			"filter[active]":       "true",
			"populate":             "cover_image",
		}).
		Code(&code).
		BindJSON(&raw).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "cms: fetch products")
	}
	if code != http.StatusOK {
		return nil, errors.Errorf("cms: fetch products: status %d", code)
	}

	var envelope listEnvelope
	if err := decode(raw, &envelope); err != nil {
		return nil, errors.Wrap(err, "cms: decode products")
	}

	products := make([]domain.Product, 0, len(envelope.Data))
	for _, e := range envelope.Data {
		var attrs productAttributes
		if err := decode(e.Attributes, &attrs); err != nil {
			return nil, errors.Wrapf(err, "cms: decode product %d", e.ID)
		}
		products = append(products, domain.Product{
			ID:         e.ID,
			Name:       attrs.Name,
			Category:   attrs.Category,
			Price:      attrs.Price,
			Active:     attrs.Active,
			CoverImage: c.coverImage(attrs),
		})
	}
	return products, nil
}

func (c *Client) coverImage(attrs productAttributes) domain.CoverImage {
	img := domain.CoverImage{}
	data := attrs.CoverImage.Data.Attributes
	if data.URL != "" {
		img.Original = c.baseURL + data.URL
	}
	variant := func(name string) string {
		if f, ok := data.Formats[name]; ok && f.URL != "" {
			return c.baseURL + f.URL
		}
		return ""
	}
	img.Thumbnail = variant("thumbnail")
	img.Small = variant("small")
	img.Medium = variant("medium")
	img.Large = variant("large")
	return img
}

// GetGeneral fetches the storefront general config (merchant phone number
// and the sale message template).
func (c *Client) GetGeneral(ctx context.Context) (General, error) {
	var raw map[string]interface{}
	var code int
	err := gout.GET(c.baseURL+"/api/general").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(c.authHeader()).
		Code(&code).
		BindJSON(&raw).
		Do()
	if err != nil {
		return General{}, errors.Wrap(err, "cms: fetch general")
	}
	if code != http.StatusOK {
		return General{}, errors.Errorf("cms: fetch general: status %d", code)
	}

	var envelope singleEnvelope
	if err := decode(raw, &envelope); err != nil {
		return General{}, errors.Wrap(err, "cms: decode general")
	}
	var general General
	if err := decode(envelope.Data.Attributes, &general); err != nil {
		return General{}, errors.Wrap(err, "cms: decode general attributes")
	}
	return general, nil
}

// CreateSale forwards an order: each line is created as a sale-product
// first, then the sale entry references the created line ids.
func (c *Client) CreateSale(ctx context.Context, sale SalePayload) error {
	itemIDs := make([]int64, 0, len(sale.Items))
	for _, item := range sale.Items {
		id, err := c.createSaleProduct(ctx, item)
		if err != nil {
			return err
		}
		itemIDs = append(itemIDs, id)
	}

	var code int
	err := gout.POST(c.baseURL+"/api/sales").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(c.authHeader()).
		SetJSON(gout.H{
			"data": gout.H{
				"address":        sale.Address,
				"payment_method": sale.PaymentMethod,
				"total":          sale.Total,
				"sale_products":  itemIDs,
			},
		}).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "cms: create sale")
	}
	if code != http.StatusOK && code != http.StatusCreated {
		return errors.Errorf("cms: create sale: status %d", code)
	}
	return nil
}

func (c *Client) createSaleProduct(ctx context.Context, item SaleItemPayload) (int64, error) {
	var resp struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	var code int
	err := gout.POST(c.baseURL+"/api/sale-products").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(c.authHeader()).
		SetJSON(gout.H{
			"data": gout.H{
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
				"unit_price": item.UnitPrice,
			},
		}).
		Code(&code).
		BindJSON(&resp).
		Do()
	if err != nil {
		return 0, errors.Wrap(err, "cms: create sale product")
	}
	if code != http.StatusOK && code != http.StatusCreated {
		return 0, errors.Errorf("cms: create sale product: status %d", code)
	}
	return resp.Data.ID, nil
}

// CreateEvent forwards an analytics event.
func (c *Client) CreateEvent(ctx context.Context, event EventPayload) error {
	var code int
	err := gout.POST(c.baseURL+"/api/events").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(c.authHeader()).
		SetJSON(gout.H{"data": event}).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "cms: create event")
	}
	if code != http.StatusOK && code != http.StatusCreated {
		return errors.Errorf("cms: create event: status %d", code)
	}
	return nil
}
