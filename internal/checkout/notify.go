package checkout

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/talkincode/pedeai/config"
	"github.com/talkincode/pedeai/internal/domain"
	"github.com/talkincode/pedeai/pkg/money"
)

// MailNotifier emails the merchant about each registered sale. Failures
// are logged and swallowed; the order itself is never affected.
type MailNotifier struct {
	cfg config.SmtpConfig
}

func NewMailNotifier(cfg config.SmtpConfig) *MailNotifier {
	return &MailNotifier{cfg: cfg}
}

func (n *MailNotifier) enabled() bool {
	return n.cfg.Host != "" && n.cfg.From != "" && n.cfg.To != ""
}

// NotifySale sends the order summary mail.
func (n *MailNotifier) NotifySale(sale domain.Sale, items []domain.SaleItem) {
	if !n.enabled() {
		return
	}

	var body strings.Builder
	body.WriteString("Novo pedido recebido\n\n")
	body.WriteString("Endereço: " + sale.Address + "\n")
	body.WriteString("Pagamento: " + sale.PaymentName)
	if sale.PaymentNote != "" {
		body.WriteString(" (" + sale.PaymentNote + ")")
	}
	body.WriteString("\n\nItens:\n")
	for _, item := range items {
		body.WriteString(fmt.Sprintf("- %dx %s (%s)\n", item.Quantity, item.ProductName, money.FormatBRL(item.UnitPrice)))
	}
	body.WriteString("\nTotal: " + money.FormatBRL(sale.Total) + "\n")

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Subject", "Novo pedido: "+money.FormatBRL(sale.Total))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		zap.L().Warn("sale mail notification failed", zap.Int64("sale_id", sale.ID), zap.Error(err))
	}
}
