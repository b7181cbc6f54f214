package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/pedeai/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.CmsConfig{URL: url, Token: "test-token", Timeout: 2})
}

func TestGetProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "true", r.URL.Query().Get("filter[active]"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"id": 7,
					"attributes": map[string]interface{}{
						"name":     "Pastel de Queijo",
						"category": "SALGADOS",
						"price":    8.5,
						"active":   true,
						"cover_image": map[string]interface{}{
							"data": map[string]interface{}{
								"attributes": map[string]interface{}{
									"url": "/uploads/pastel.jpg",
									"formats": map[string]interface{}{
										"thumbnail": map[string]interface{}{"url": "/uploads/thumb.jpg"},
									},
								},
							},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	products, err := newTestClient(srv.URL).GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Pastel de Queijo", p.Name)
	assert.Equal(t, "SALGADOS", p.Category)
	assert.InDelta(t, 8.5, p.Price, 1e-9)
	assert.True(t, p.Active)
	assert.Equal(t, srv.URL+"/uploads/pastel.jpg", p.CoverImage.Original)
	assert.Equal(t, srv.URL+"/uploads/thumb.jpg", p.CoverImage.Thumbnail)
}

func TestGetProductsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetProducts(context.Background())
	assert.Error(t, err)
}

func TestGetGeneral(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/general", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"id": 1,
				"attributes": map[string]interface{}{
					"phone_number":          "5511999990000",
					"sale_message_template": "{{.Salutation}}! Pedido: {{.Total}}",
				},
			},
		})
	}))
	defer srv.Close()

	general, err := newTestClient(srv.URL).GetGeneral(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5511999990000", general.PhoneNumber)
	assert.NotEmpty(t, general.SaleMessageTemplate)
}

func TestCreateSaleForwardsItemsThenSale(t *testing.T) {
	var saleProducts int
	var saleBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sale-products":
			saleProducts++
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{"id": 100 + saleProducts},
			})
		case "/api/sales":
			_ = json.NewDecoder(r.Body).Decode(&saleBody)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).CreateSale(context.Background(), SalePayload{
		Address:       "Rua A, 10",
		PaymentMethod: "Dinheiro (Troco para: R$ 50,00)",
		Total:         23.0,
		Items: []SaleItemPayload{
			{ProductID: 1, Quantity: 2, UnitPrice: 8.5},
			{ProductID: 2, Quantity: 1, UnitPrice: 6.0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saleProducts)

	data := saleBody["data"].(map[string]interface{})
	assert.Equal(t, "Rua A, 10", data["address"])
	assert.Len(t, data["sale_products"], 2)
}

func TestCreateSaleFailsWhenItemRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).CreateSale(context.Background(), SalePayload{
		Items: []SaleItemPayload{{ProductID: 1, Quantity: 1, UnitPrice: 1}},
	})
	assert.Error(t, err)
}

func TestCreateEvent(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/events", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).CreateEvent(context.Background(), EventPayload{
		EventName:       "ADD_TO_CART",
		EventProperties: map[string]interface{}{"product_id": 7},
		SessionID:       "s1",
	})
	require.NoError(t, err)

	data := got["data"].(map[string]interface{})
	assert.Equal(t, "ADD_TO_CART", data["event_name"])
	assert.Equal(t, "s1", data["session_id"])
}
