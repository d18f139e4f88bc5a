package order

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/storefront/internal/domain"
)

var (
	now      = time.UnixMilli(1700000000123)
	settings = domain.Settings{BusinessName: "Mi Negocio", WhatsappNumber: "5215512345678"}
	lines    = []domain.CartLine{{Key: 1, ProductRef: "X1", Name: "X", Price: 10.00, Quantity: 2}}
)

func TestBuild(t *testing.T) {
	res, err := Build(lines, settings, "123 Main St", now)
	require.NoError(t, err)

	assert.Equal(t, "PEDIDO-1700000000123", res.Folio)
	assert.True(t, strings.HasPrefix(res.URL, "https://wa.me/5215512345678?text="))
	assert.Contains(t, res.URL, "Total%20del%20Pedido%3A%20%2420.00")
	assert.Contains(t, res.Message, "Total del Pedido: $20.00")

	u, err := url.Parse(res.URL)
	require.NoError(t, err)
	assert.Equal(t, res.Message, u.Query().Get("text"))
}

func TestBuildMessageLayout(t *testing.T) {
	in := []domain.CartLine{
		{Name: "Clásica Suprema", Price: 12.99, Quantity: 1, Note: "sin cebolla"},
		{Name: "Malteada de Vainilla", Price: 6, Quantity: 3},
	}
	res, err := Build(in, settings, "  Calle 5 #10  ", now)
	require.NoError(t, err)

	want := "*¡Nuevo Pedido!* (PEDIDO-1700000000123)\n\n" +
		"Hola, me gustaría ordenar lo siguiente:\n\n" +
		"*Clásica Suprema*\n_Cantidad:_ 1\n_Modificación:_ sin cebolla\n_Precio:_ $12.99\n_Subtotal:_ $12.99\n\n" +
		"*Malteada de Vainilla*\n_Cantidad:_ 3\n_Precio:_ $6.00\n_Subtotal:_ $18.00\n\n" +
		"--------------------------------------\n" +
		"*Total del Pedido: $30.99*\n\n" +
		"*Dirección de Entrega:*\nCalle 5 #10\n\n¡Gracias!"
	assert.Equal(t, want, res.Message)
}

func TestBuildMissingAddress(t *testing.T) {
	for _, addr := range []string{"", "   \n"} {
		res, err := Build(lines, settings, addr, now)
		assert.ErrorIs(t, err, domain.ErrMissingAddress)
		assert.Empty(t, res.URL)
	}
}

func TestBuildEmptyCart(t *testing.T) {
	res, err := Build(nil, settings, "123 Main St", now)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, res.URL)
}

func TestBuildWithoutBusinessNumberStillRenders(t *testing.T) {
	res, err := Build(lines, domain.Settings{}, "123 Main St", now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, "https://wa.me/?text="), res.URL)
}

func TestBuilderHost(t *testing.T) {
	res, err := Builder{Host: "api.whatsapp.com/send"}.Build(lines, settings, "a", now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, "https://api.whatsapp.com/send/5215512345678?text="))
}

func TestBuildDoesNotMutateLines(t *testing.T) {
	in := append([]domain.CartLine(nil), lines...)
	_, err := Build(in, settings, "a", now)
	require.NoError(t, err)
	assert.Equal(t, lines, in)
}
