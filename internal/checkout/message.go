package checkout

import (
	"net/url"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/talkincode/pedeai/internal/cart"
	"github.com/talkincode/pedeai/pkg/common"
	"github.com/talkincode/pedeai/pkg/money"
)

// DefaultMessageTemplate is used when the CMS general config carries no
// sale message template.
const DefaultMessageTemplate = `{{ .Salutation }}! Gostaria de fazer um pedido:
{{ range .Items }}- {{ .Quantity }}x {{ .Name }} ({{ money .Price }})
{{ end }}Total: {{ money .Total }}`

// MessageItem is one order line exposed to the message template.
type MessageItem struct {
	Name     string
	Quantity int
	Price    float64
}

// MessageData is the template context.
type MessageData struct {
	Salutation string
	Items      []MessageItem
	Total      float64
}

// MessageRenderer renders the order message sent to the merchant.
type MessageRenderer struct {
	tmpl *template.Template
}

// NewMessageRenderer parses the template source. An empty source falls
// back to the default template. The template has a `money` function for
// BRL formatting.
func NewMessageRenderer(source string) (*MessageRenderer, error) {
	if strings.TrimSpace(source) == "" {
		source = DefaultMessageTemplate
	}
	tmpl, err := template.New("sale_message").
		Funcs(template.FuncMap{"money": money.FormatBRL}).
		Parse(source)
	if err != nil {
		return nil, errors.Wrap(err, "checkout: parse message template")
	}
	return &MessageRenderer{tmpl: tmpl}, nil
}

// Render builds the order message from the cart snapshot, with the
// salutation picked by the hour of day.
func (r *MessageRenderer) Render(c cart.Cart, now time.Time) (string, error) {
	items := make([]MessageItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, MessageItem{
			Name:     line.Product.Name,
			Quantity: line.Quantity,
			Price:    line.Product.Price,
		})
	}
	data := MessageData{
		Salutation: common.Salutation(now),
		Items:      items,
		Total:      c.TotalPrice(),
	}
	var b strings.Builder
	if err := r.tmpl.Execute(&b, data); err != nil {
		return "", errors.Wrap(err, "checkout: render message")
	}
	return b.String(), nil
}

// WhatsAppLink builds the hand-off URL opening a chat with the merchant
// pre-filled with the order message.
func WhatsAppLink(phone, message string) string {
	return "https://api.whatsapp.com/send?phone=" + url.QueryEscape(phone) +
		"&text=" + url.QueryEscape(message)
}
