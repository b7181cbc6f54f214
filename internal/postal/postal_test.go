package postal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/pedeai/config"
)

func TestSanitizeCep(t *testing.T) {
	clean, err := SanitizeCep("01310-100")
	require.NoError(t, err)
	assert.Equal(t, "01310100", clean)

	clean, err = SanitizeCep(" 01.310-100 ")
	require.NoError(t, err)
	assert.Equal(t, "01310100", clean)

	_, err = SanitizeCep("0131010")
	assert.ErrorIs(t, err, ErrInvalidCep)

	_, err = SanitizeCep("013101000")
	assert.ErrorIs(t, err, ErrInvalidCep)

	_, err = SanitizeCep("")
	assert.ErrorIs(t, err, ErrInvalidCep)
}

func TestFormatCep(t *testing.T) {
	assert.Equal(t, "01310-100", FormatCep("01310100"))
	assert.Equal(t, "01310-100", FormatCep("01310-100"))
	assert.Equal(t, "bogus", FormatCep("bogus"))
}

func TestAddressLine(t *testing.T) {
	full := Address{Street: "Av. Paulista", Number: "1000", Complement: "Ap 42", Reference: "Próximo ao metrô"}
	assert.Equal(t, "Av. Paulista, 1000 - Ap 42, Próximo ao metrô", full.Line())

	noExtras := Address{Street: "Av. Paulista", Number: "1000"}
	assert.Equal(t, "Av. Paulista, 1000", noExtras.Line())

	noComplement := Address{Street: "Av. Paulista", Number: "1000", Reference: "Esquina"}
	assert.Equal(t, "Av. Paulista, 1000, Esquina", noComplement.Line())
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/cep/v1/01310100", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"cep": "01310100",
			"city": "São Paulo",
			"state": "SP",
			"neighborhood": "Bela Vista",
			"street": "Avenida Paulista"
		}`))
	}))
	defer srv.Close()

	client := NewClient(config.PostalConfig{URL: srv.URL, Timeout: 2})
	info, err := client.Lookup(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, "01310-100", info.PostalCode)
	assert.Equal(t, "São Paulo", info.City)
	assert.Equal(t, "SP", info.State)
	assert.Equal(t, "Bela Vista", info.Neighborhood)
	assert.Equal(t, "Avenida Paulista", info.Street)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"name":"CepPromiseError"}`))
	}))
	defer srv.Close()

	client := NewClient(config.PostalConfig{URL: srv.URL, Timeout: 2})
	_, err := client.Lookup(context.Background(), "99999999")
	assert.Error(t, err)
}

func TestLookupRejectsInvalidInput(t *testing.T) {
	client := NewClient(config.PostalConfig{URL: "http://127.0.0.1:0", Timeout: 1})
	_, err := client.Lookup(context.Background(), "123")
	assert.ErrorIs(t, err, ErrInvalidCep)
}
