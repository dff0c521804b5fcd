package order_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/frutilize/internal/catalog"
	"github.com/vasiliy-maslov/frutilize/internal/order"
)

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []order.LineItem
		want  float64
	}{
		{
			name:  "empty",
			items: nil,
			want:  0,
		},
		{
			name: "single_item",
			items: []order.LineItem{
				{Product: catalog.Product{ID: "1", Price: 4.99}, Quantity: 3},
			},
			want: 14.97,
		},
		{
			name: "fractional_quantity",
			items: []order.LineItem{
				{Product: catalog.Product{ID: "1", Price: 5.99}, Quantity: 1.5},
				{Product: catalog.Product{ID: "2", Price: 2.99}, Quantity: 2},
			},
			want: 14.97,
		},
		{
			name: "rounds_to_two_decimals",
			items: []order.LineItem{
				{Product: catalog.Product{ID: "1", Price: 0.333}, Quantity: 3},
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, order.ComputeTotal(tt.items))
		})
	}
}

func TestValidateTotal(t *testing.T) {
	assert.Equal(t, 14.97, order.ValidateTotal(14.97))
	assert.Equal(t, 14.97, order.ValidateTotal(14.9699999))
	assert.Equal(t, 0.0, order.ValidateTotal(math.NaN()))
	assert.Equal(t, 0.0, order.ValidateTotal(math.Inf(1)))
	assert.Equal(t, 0.0, order.ValidateTotal(math.Inf(-1)))
}

func TestEncodeDecodeItems(t *testing.T) {
	items := []order.LineItem{
		{Product: catalog.Product{ID: "37", Name: "Abobrinha", Price: 0.99, Unit: "kg"}, Quantity: 2},
	}

	raw, err := order.EncodeItems(items)
	require.NoError(t, err)

	decoded, err := order.DecodeItems(raw)
	require.NoError(t, err)
	assert.Equal(t, items, decoded)

	_, err = order.DecodeItems("{not json")
	assert.Error(t, err)
}

func TestFormatItems(t *testing.T) {
	raw, err := order.EncodeItems([]order.LineItem{
		{Product: catalog.Product{Name: "Abobrinha", Unit: "kg"}, Quantity: 2},
		{Product: catalog.Product{Name: "Abacaxi", Unit: "un"}, Quantity: 1},
		{Product: catalog.Product{Name: "Ovos brancos", Unit: "dúzia"}, Quantity: 3},
	})
	require.NoError(t, err)

	got := order.FormatItems(raw)
	assert.Equal(t, "Abobrinha - 2kg\nAbacaxi - 1 unidade\nOvos brancos - 3x", got)
}

func TestFormatItemsPluralUnits(t *testing.T) {
	raw, err := order.EncodeItems([]order.LineItem{
		{Product: catalog.Product{Name: "Coco verde", Unit: "un"}, Quantity: 4},
	})
	require.NoError(t, err)

	assert.Equal(t, "Coco verde - 4 unidades", order.FormatItems(raw))
}

func TestFormatItemsInvalidJSON(t *testing.T) {
	assert.Equal(t, "Itens inválidos", order.FormatItems("{broken"))
	assert.Equal(t, "Itens inválidos", order.FormatItemsCSV("{broken"))
}

func TestFormatItemsCSV(t *testing.T) {
	raw, err := order.EncodeItems([]order.LineItem{
		{Product: catalog.Product{Name: "Abobrinha", Price: 0.99, Unit: "kg"}, Quantity: 2},
		{Product: catalog.Product{Name: "Alface crespa", Price: 1.99, Unit: "un"}, Quantity: 1},
	})
	require.NoError(t, err)

	got := order.FormatItemsCSV(raw)
	assert.Equal(t, "Abobrinha - 2kg - R$ 1.98; Alface crespa - 1 un - R$ 1.99", got)
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, order.PaymentPix.Valid())
	assert.True(t, order.PaymentCash.Valid())
	assert.True(t, order.PaymentVoucher.Valid())
	assert.False(t, order.PaymentMethod("bitcoin").Valid())
	assert.False(t, order.PaymentMethod("").Valid())
}

func TestPaymentMethodDisplayName(t *testing.T) {
	assert.Equal(t, "Cartão de Crédito", order.PaymentCredit.DisplayName())
	assert.Equal(t, "Cartão de Débito", order.PaymentDebit.DisplayName())
	assert.Equal(t, "Vale Refeição (VR)", order.PaymentVoucher.DisplayName())
	assert.Equal(t, "Dinheiro", order.PaymentCash.DisplayName())
	assert.Equal(t, "pix", order.PaymentPix.DisplayName())
}
