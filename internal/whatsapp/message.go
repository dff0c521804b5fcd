// Package whatsapp builds the pre-formatted order handoff for the store's
// WhatsApp. The link is fire-and-forget: nothing reports back whether the
// message was actually sent.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vasiliy-maslov/frutilize/internal/customer"
	"github.com/vasiliy-maslov/frutilize/internal/order"
)

// FormatPrice renders a pt-BR currency value ("R$ 14,97").
func FormatPrice(price float64) string {
	return "R$ " + strings.ReplaceAll(fmt.Sprintf("%.2f", price), ".", ",")
}

// OrderMessage renders the order summary text sent to the store.
func OrderMessage(items []order.LineItem, total float64, cust customer.Customer, paymentMethod order.PaymentMethod, changeFor *float64, now time.Time) string {
	var b strings.Builder

	b.WriteString("🍎 *NOVO PEDIDO - FRUTILIZE* 🛒\n\n")

	b.WriteString("*Dados do Cliente:*\n")
	b.WriteString("👤 Nome: " + cust.Name + "\n")
	b.WriteString("📱 WhatsApp: " + cust.Phone + "\n")
	b.WriteString("🏠 Endereço: " + cust.Address + "\n")
	b.WriteString("📍 Bairro: " + cust.Neighborhood + "\n")
	if cust.Reference != "" {
		b.WriteString("🔍 Referência: " + cust.Reference + "\n")
	}

	b.WriteString("\n*Forma de Pagamento:*\n")
	b.WriteString("💳 " + paymentMethod.DisplayName() + "\n")
	if paymentMethod == order.PaymentCash && changeFor != nil {
		b.WriteString("💰 Troco para: " + FormatPrice(*changeFor) + "\n")
	}

	b.WriteString("\n*Itens do Pedido:*\n")
	for i, item := range items {
		itemTotal := item.Product.Price * item.Quantity
		b.WriteString(fmt.Sprintf("%d. %s %s - %v %s - %s\n",
			i+1, item.Product.Emoji, item.Product.Name, item.Quantity, item.Product.Unit, FormatPrice(itemTotal)))
	}

	b.WriteString("\n*Total do Pedido: " + FormatPrice(total) + "*\n\n")
	b.WriteString("⏰ Pedido realizado em: " + now.Format("02/01/2006 15:04:05") + "\n\n")
	b.WriteString("💚 Obrigado pelo pedido! Entraremos em contato para confirmar. 💚")

	return b.String()
}

// OrderLink builds the wa.me deep link carrying the URL-encoded order
// summary.
func OrderLink(storePhone string, items []order.LineItem, total float64, cust customer.Customer, paymentMethod order.PaymentMethod, changeFor *float64, now time.Time) string {
	message := OrderMessage(items, total, cust, paymentMethod, changeFor, now)
	return "https://wa.me/" + storePhone + "?text=" + url.QueryEscape(message)
}
