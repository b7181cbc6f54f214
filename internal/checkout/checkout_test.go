package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/pedeai/internal/cart"
	"github.com/talkincode/pedeai/internal/cms"
	"github.com/talkincode/pedeai/internal/domain"
)

type stubCatalog map[int64]domain.Product

func (c stubCatalog) Get(id int64) (domain.Product, bool) {
	p, ok := c[id]
	return p, ok
}

type stubSubmitter struct {
	payloads []cms.SalePayload
	err      error
}

func (s *stubSubmitter) CreateSale(ctx context.Context, sale cms.SalePayload) error {
	s.payloads = append(s.payloads, sale)
	return s.err
}

func testCatalog() stubCatalog {
	return stubCatalog{
		1: {ID: 1, Name: "Pastel de Carne", Category: "SALGADOS", Price: 8.5, Active: true},
		2: {ID: 2, Name: "Refrigerante Lata", Category: "BEBIDAS", Price: 6, Active: true},
	}
}

func TestPaymentValidate(t *testing.T) {
	assert.NoError(t, Payment{Type: PaymentCredito}.Validate())
	assert.NoError(t, Payment{Type: PaymentDebito}.Validate())
	assert.NoError(t, Payment{Type: PaymentRefeicao}.Validate())
	assert.NoError(t, Payment{Type: PaymentDinheiro, AdditionalInfo: "Troco para: R$ 50,00"}.Validate())

	assert.ErrorIs(t, Payment{Type: PaymentDinheiro}.Validate(), ErrChangeNoteRequired)
	assert.ErrorIs(t, Payment{Type: "PIX"}.Validate(), ErrUnknownPayment)
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, "Cartão de crédito", Payment{Type: PaymentCredito}.Label())
	assert.Equal(t, "Dinheiro (Troco para: R$ 50,00)",
		Payment{Type: PaymentDinheiro, AdditionalInfo: "Troco para: R$ 50,00"}.Label())
}

func TestRegisterSaleSnapshotsPrices(t *testing.T) {
	submitter := &stubSubmitter{}
	svc := NewService(nil, testCatalog(), submitter, nil)

	sale, err := svc.RegisterSale(context.Background(), SaleRequest{
		SessionID: "s1",
		Address:   "Av. Paulista, 1000 - Ap 42",
		Payment:   Payment{Type: PaymentDinheiro, AdditionalInfo: "Troco para: R$ 50,00"},
		Items: []SaleLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 23.0, sale.Total, 1e-9)
	assert.Equal(t, domain.SaleStatusForwarded, sale.Status)
	assert.Equal(t, "DINHEIRO", sale.PaymentType)
	assert.Equal(t, "Dinheiro", sale.PaymentName)

	require.Len(t, submitter.payloads, 1)
	payload := submitter.payloads[0]
	assert.Equal(t, "Dinheiro (Troco para: R$ 50,00)", payload.PaymentMethod)
	require.Len(t, payload.Items, 2)
	assert.InDelta(t, 8.5, payload.Items[0].UnitPrice, 1e-9)
}

func TestRegisterSaleValidation(t *testing.T) {
	svc := NewService(nil, testCatalog(), &stubSubmitter{}, nil)

	_, err := svc.RegisterSale(context.Background(), SaleRequest{
		SessionID: "s1",
		Address:   "",
		Payment:   Payment{Type: "PIX"},
		Items: []SaleLine{
			{ProductID: 0, Quantity: 1},
			{ProductID: 1, Quantity: 0},
			{ProductID: 99, Quantity: 1},
		},
	})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "address")
	assert.Contains(t, fields, "payment")
	assert.Contains(t, fields, "items[0].product_id")
	assert.Contains(t, fields, "items[1].quantity")
	assert.Contains(t, fields, "items[2].product_id")
}

func TestRegisterSaleSubmitFailure(t *testing.T) {
	submitter := &stubSubmitter{err: errors.New("cms down")}
	svc := NewService(nil, testCatalog(), submitter, nil)

	_, err := svc.RegisterSale(context.Background(), SaleRequest{
		SessionID: "s1",
		Address:   "Av. Paulista, 1000",
		Payment:   Payment{Type: PaymentCredito},
		Items:     []SaleLine{{ProductID: 1, Quantity: 1}},
	})
	assert.EqualError(t, err, "cms down")
}

func TestFlowHappyPath(t *testing.T) {
	flow := NewFlow()
	require.NoError(t, flow.Begin())
	require.NoError(t, flow.SetAddress("Av. Paulista, 1000"))
	require.NoError(t, flow.SetPayment(Payment{Type: PaymentCredito}))
	require.NoError(t, flow.Submit())
	require.NoError(t, flow.Complete())

	// Completed flow resets so a new order can start.
	assert.Equal(t, StateIdle, flow.State())
	assert.Empty(t, flow.Address())
}

func TestFlowFailureRetainsData(t *testing.T) {
	flow := NewFlow()
	require.NoError(t, flow.Begin())
	require.NoError(t, flow.SetAddress("Av. Paulista, 1000"))
	require.NoError(t, flow.SetPayment(Payment{Type: PaymentDebito}))
	require.NoError(t, flow.Submit())
	require.NoError(t, flow.Fail())

	assert.Equal(t, StateFailed, flow.State())
	assert.Equal(t, "Av. Paulista, 1000", flow.Address())
	assert.Equal(t, PaymentDebito, flow.Payment().Type)

	require.NoError(t, flow.Retry())
	assert.Equal(t, StatePaymentSelection, flow.State())
	require.NoError(t, flow.Submit())
	require.NoError(t, flow.Complete())
}

func TestFlowInvalidTransitions(t *testing.T) {
	flow := NewFlow()
	assert.ErrorIs(t, flow.SetAddress("x"), ErrInvalidTransition)
	assert.ErrorIs(t, flow.Submit(), ErrInvalidTransition)
	assert.ErrorIs(t, flow.Complete(), ErrInvalidTransition)

	require.NoError(t, flow.Begin())
	assert.ErrorIs(t, flow.Begin(), ErrInvalidTransition)
	assert.ErrorIs(t, flow.SetPayment(Payment{Type: PaymentCredito}), ErrInvalidTransition)
}

func TestFlowStorePerSession(t *testing.T) {
	store := NewFlowStore()
	a := store.Get("s1")
	b := store.Get("s2")
	require.NoError(t, a.Begin())
	assert.Equal(t, StateAddressEntry, a.State())
	assert.Equal(t, StateIdle, b.State())
	assert.Same(t, a, store.Get("s1"))

	store.Drop("s1")
	assert.NotSame(t, a, store.Get("s1"))
}

func TestMessageRender(t *testing.T) {
	renderer, err := NewMessageRenderer("")
	require.NoError(t, err)

	c := cart.Cart{}
	c, err = c.AddItem(domain.Product{ID: 1, Name: "Pastel de Carne", Price: 8.5}, 2)
	require.NoError(t, err)
	c, err = c.AddItem(domain.Product{ID: 2, Name: "Refrigerante Lata", Price: 6}, 1)
	require.NoError(t, err)

	morning := time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local)
	message, err := renderer.Render(c, morning)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(message, "Bom dia!"), message)
	assert.Contains(t, message, "2x Pastel de Carne")
	assert.Contains(t, message, "1x Refrigerante Lata")
	assert.Contains(t, message, "Total:")
}

func TestMessageRenderCustomTemplate(t *testing.T) {
	renderer, err := NewMessageRenderer("Pedido de {{ money .Total }}")
	require.NoError(t, err)

	c := cart.Cart{}
	c, err = c.AddItem(domain.Product{ID: 1, Name: "Coxinha", Price: 7}, 3)
	require.NoError(t, err)

	message, err := renderer.Render(c, time.Date(2024, 5, 10, 20, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Contains(t, message, "Pedido de R$")
}

func TestMessageRenderBadTemplate(t *testing.T) {
	_, err := NewMessageRenderer("{{ .Total")
	assert.Error(t, err)
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("5511999990000", "Bom dia! Pedido: R$ 23,00")
	assert.True(t, strings.HasPrefix(link, "https://api.whatsapp.com/send?phone=5511999990000&text="))
	assert.NotContains(t, link, " ")
}
