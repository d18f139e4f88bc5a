// Package order turns a cart into the order message sent to the business
// over the messaging app.
package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/talkincode/storefront/internal/cart"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/whatsapp"
)

const divider = "--------------------------------------"

// Result is a ready-to-send order. Following URL is left to the caller.
type Result struct {
	Folio   string `json:"folio"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Builder renders order messages for a messaging host.
type Builder struct {
	Host string // click-to-chat host, whatsapp.DefaultHost when empty
}

// Build renders an order with the default messaging host.
func Build(lines []domain.CartLine, settings domain.Settings, address string, now time.Time) (Result, error) {
	return Builder{}.Build(lines, settings, address, now)
}

// Folio derives the human facing order reference from now.
func Folio(now time.Time) string {
	return "PEDIDO-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Build checks the preconditions and renders the message and its deep link.
// It does not touch the cart.
func (b Builder) Build(lines []domain.CartLine, settings domain.Settings, address string, now time.Time) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}, domain.ErrMissingAddress
	}
	if len(lines) == 0 {
		return Result{}, domain.ErrEmptyCart
	}

	folio := Folio(now)
	msg := Message(folio, lines, address)
	return Result{
		Folio:   folio,
		Message: msg,
		URL:     whatsapp.DeepLink(b.Host, settings.WhatsappNumber, msg),
	}, nil
}

// Message renders the order text.
func Message(folio string, lines []domain.CartLine, address string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*¡Nuevo Pedido!* (%s)\n\n", folio)
	sb.WriteString("Hola, me gustaría ordenar lo siguiente:\n\n")
	for _, l := range lines {
		fmt.Fprintf(&sb, "*%s*\n", l.Name)
		fmt.Fprintf(&sb, "_Cantidad:_ %d\n", l.Quantity)
		if l.Note != "" {
			fmt.Fprintf(&sb, "_Modificación:_ %s\n", l.Note)
		}
		fmt.Fprintf(&sb, "_Precio:_ $%.2f\n", l.Price)
		fmt.Fprintf(&sb, "_Subtotal:_ $%.2f\n\n", l.Subtotal())
	}
	sb.WriteString(divider + "\n")
	fmt.Fprintf(&sb, "*Total del Pedido: $%.2f*\n\n", cart.Total(lines))
	sb.WriteString("*Dirección de Entrega:*\n")
	sb.WriteString(address)
	sb.WriteString("\n\n¡Gracias!")
	return sb.String()
}
