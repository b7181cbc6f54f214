// Package checkout drives the order flow: payment selection, sale
// registration with price snapshots, the order message and the WhatsApp
// hand-off.
package checkout

import (
	"fmt"

	"github.com/pkg/errors"
)

// PaymentType identifies how the customer pays on delivery.
type PaymentType string

const (
	PaymentCredito  PaymentType = "CREDITO"
	PaymentDebito   PaymentType = "DEBITO"
	PaymentRefeicao PaymentType = "REFEICAO"
	PaymentDinheiro PaymentType = "DINHEIRO"
)

var paymentNames = map[PaymentType]string{
	PaymentCredito:  "Cartão de crédito",
	PaymentDebito:   "Cartão de débito",
	PaymentRefeicao: "Vale refeição",
	PaymentDinheiro: "Dinheiro",
}

// ErrChangeNoteRequired is returned when a cash payment carries no
// change-for note.
var ErrChangeNoteRequired = errors.New("checkout: cash payment requires a change note")

// ErrUnknownPayment is returned for a type outside the accepted set.
var ErrUnknownPayment = errors.New("checkout: unknown payment type")

// Payment is the method chosen at checkout. AdditionalInfo carries the
// change-for note for cash payments.
type Payment struct {
	Type           PaymentType `json:"type"`
	AdditionalInfo string      `json:"additional_info,omitempty"`
}

// Validate checks the type and the cash change-note requirement.
func (p Payment) Validate() error {
	if _, ok := paymentNames[p.Type]; !ok {
		return errors.Wrap(ErrUnknownPayment, string(p.Type))
	}
	if p.Type == PaymentDinheiro && p.AdditionalInfo == "" {
		return ErrChangeNoteRequired
	}
	return nil
}

// Name returns the display name of the payment type.
func (p Payment) Name() string {
	return paymentNames[p.Type]
}

// Label renders the payment as stored on the sale, for example
// "Dinheiro (Troco para: R$ 50,00)".
func (p Payment) Label() string {
	name := paymentNames[p.Type]
	if p.AdditionalInfo == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, p.AdditionalInfo)
}
