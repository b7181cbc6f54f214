// Package postal looks up Brazilian postal codes (CEP) and assembles
// delivery address lines.
package postal

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/talkincode/pedeai/config"
)

// ErrInvalidCep is returned when the input does not contain 8 digits.
var ErrInvalidCep = errors.New("postal: cep must contain 8 digits")

// CepInfo is the address data resolved for a postal code.
type CepInfo struct {
	PostalCode   string `json:"postal_code" mapstructure:"cep"`
	City         string `json:"city" mapstructure:"city"`
	State        string `json:"state" mapstructure:"state"`
	Neighborhood string `json:"neighborhood" mapstructure:"neighborhood"`
	Street       string `json:"street" mapstructure:"street"`
}

// Address is the delivery address entered at checkout.
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	Reference  string `json:"reference"`
}

// Line renders a single-line address: "street, number - complement, reference".
// Empty complement and reference are omitted along with their separators.
func (a Address) Line() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(a.Street))
	if n := strings.TrimSpace(a.Number); n != "" {
		b.WriteString(", ")
		b.WriteString(n)
	}
	if c := strings.TrimSpace(a.Complement); c != "" {
		b.WriteString(" - ")
		b.WriteString(c)
	}
	if r := strings.TrimSpace(a.Reference); r != "" {
		b.WriteString(", ")
		b.WriteString(r)
	}
	return b.String()
}

// SanitizeCep strips everything but digits and validates the length.
func SanitizeCep(cep string) (string, error) {
	var digits strings.Builder
	for _, r := range cep {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() != 8 {
		return "", ErrInvalidCep
	}
	return digits.String(), nil
}

// FormatCep renders the canonical 12345-678 form. Invalid input is
// returned unchanged.
func FormatCep(cep string) string {
	clean, err := SanitizeCep(cep)
	if err != nil {
		return cep
	}
	return clean[:5] + "-" + clean[5:]
}

// Client resolves postal codes against the public lookup API.
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(cfg config.PostalConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{baseURL: cfg.URL, timeout: timeout}
}

// Lookup resolves a CEP. The input is sanitized first; an unknown code
// surfaces as a wrapped status error.
func (c *Client) Lookup(ctx context.Context, cep string) (CepInfo, error) {
	clean, err := SanitizeCep(cep)
	if err != nil {
		return CepInfo{}, err
	}

	var resp struct {
		Cep          string `json:"cep"`
		City         string `json:"city"`
		State        string `json:"state"`
		Neighborhood string `json:"neighborhood"`
		Street       string `json:"street"`
	}
	var code int
	err = gout.GET(c.baseURL + "/api/cep/v1/" + clean).
		WithContext(ctx).
		SetTimeout(c.timeout).
		Code(&code).
		BindJSON(&resp).
		Do()
	if err != nil {
		return CepInfo{}, errors.Wrap(err, "postal: lookup cep")
	}
	if code != http.StatusOK {
		return CepInfo{}, errors.Errorf("postal: lookup cep %s: status %d", clean, code)
	}

	return CepInfo{
		PostalCode:   FormatCep(resp.Cep),
		City:         resp.City,
		State:        resp.State,
		Neighborhood: resp.Neighborhood,
		Street:       resp.Street,
	}, nil
}
