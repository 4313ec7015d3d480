package models

// ScannedBill is the structured data extracted from a receipt image.
// Every field is best-effort: the scanner may leave any of them empty.
type ScannedBill struct {
	MerchantName string
	Currency     string
	Items        []ScannedItem
	Subtotal     *float64
	Tax          *float64
	Total        *float64
}

// ScannedItem is a single line extracted from a receipt.
type ScannedItem struct {
	Name  string
	Price float64
}
