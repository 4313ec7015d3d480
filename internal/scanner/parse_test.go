package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/models"
)

func TestParseReceipt(t *testing.T) {
	text := "Here you go:\n```json\n" + `{
  "merchant_name": " Blue Bottle ",
  "currency": "usd",
  "items": [
    {"name": "Latte", "price": 5.5},
    {"name": "Scone", "price": "$3.25"},
    {"name": "Mystery", "price": "n/a"},
    {"name": "", "price": null}
  ],
  "subtotal": 8.75,
  "tax": null,
  "total": "9.50"
}` + "\n```"

	bill, err := ParseReceipt(text)
	require.NoError(t, err)

	assert.Equal(t, "Blue Bottle", bill.MerchantName)
	assert.Equal(t, "USD", bill.Currency)
	assert.Equal(t, []models.ScannedItem{
		{Name: "Latte", Price: 5.5},
		{Name: "Scone", Price: 3.25},
		{Name: "Mystery", Price: 0},
	}, bill.Items)
	require.NotNil(t, bill.Subtotal)
	assert.Equal(t, 8.75, *bill.Subtotal)
	assert.Nil(t, bill.Tax)
	require.NotNil(t, bill.Total)
	assert.Equal(t, 9.5, *bill.Total)
}

func TestParseReceipt_BareJSON(t *testing.T) {
	bill, err := ParseReceipt(`{"merchant_name":"Deli","items":[{"name":"Bagel","price":2}]}`)
	require.NoError(t, err)
	assert.Equal(t, "Deli", bill.MerchantName)
	assert.Empty(t, bill.Currency)
	assert.Len(t, bill.Items, 1)
	assert.Nil(t, bill.Total)
}

func TestParseReceipt_NegativePriceBecomesZero(t *testing.T) {
	bill, err := ParseReceipt(`{"items":[{"name":"Discount","price":-2.5}]}`)
	require.NoError(t, err)
	require.Len(t, bill.Items, 1)
	assert.Equal(t, 0.0, bill.Items[0].Price)
}

func TestParseReceipt_Unreadable(t *testing.T) {
	for _, text := range []string{"", "I could not read this receipt.", "```json\n[1,2\n```"} {
		_, err := ParseReceipt(text)
		assert.ErrorIs(t, err, ErrUnreadable, text)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.99", 12.99, true},
		{"$1,234.50", 1234.5, true},
		{"€ 7,50", 7.5, true},
		{"1.234,50", 1234.5, true},
		{"(4.00)", -4, true},
		{"-3", -3, true},
		{"free", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseAmount(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
