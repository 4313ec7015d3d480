package calculator

import "github.com/mmynk/receiptsplit/internal/models"

// Subtotal is the sum of all item prices.
func Subtotal(bill models.Bill) float64 {
	var sum float64
	for _, item := range bill.Items {
		sum += item.Price
	}
	return sum
}

// BillTotal is Subtotal plus tax, treating a missing tax as 0.
func BillTotal(bill models.Bill) float64 {
	total := Subtotal(bill)
	if bill.Tax != nil {
		total += *bill.Tax
	}
	return total
}
