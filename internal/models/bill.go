package models

import "time"

// Bill represents a bill being split among people.
// It is mutated during an editing session and treated as an immutable
// snapshot whenever a split is calculated.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format once saved).
	// Unsaved bills have an empty ID or one prefixed with "new-".
	ID string

	// MerchantName is the store or restaurant the receipt came from.
	MerchantName string

	// Currency is a 3-letter currency code. Informational only.
	Currency string

	// Items are the line items on the bill, in display order.
	Items []BillItem

	// People are the participants of the split, in display order.
	People []BillPerson

	// Subtotal is the pre-tax amount, if known.
	Subtotal *float64

	// Tax is the tax amount to distribute proportionally, if known.
	Tax *float64

	// Total is the final bill amount, if known.
	Total *float64

	// ImageURL points to the uploaded receipt image, if any.
	ImageURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BillItem represents a single line item on a bill.
type BillItem struct {
	// ID is unique within the bill.
	ID string

	// Name is the display name of the item (e.g., "Pizza", "Beer").
	Name string

	// Price is the total cost of the item.
	Price float64

	// Assignments are the people claiming a share of this item.
	// At most one assignment per person.
	Assignments []ItemAssignment
}

// ItemAssignment is one person's claim on an item.
type ItemAssignment struct {
	// PersonID references a BillPerson on the same bill.
	PersonID string

	// SplitPercentage is the person's share of the item price, in [0,100].
	// Shares on one item may sum to anything; the sum is not clamped.
	SplitPercentage float64
}

// BillPerson is a participant of a bill.
type BillPerson struct {
	ID    string
	Name  string
	Color string
}

// PersonItem represents an item's share for one person.
type PersonItem struct {
	Name            string
	Amount          float64 // This person's share of the item, rounded
	SplitPercentage float64
}

// PersonSummary represents one person's calculated share of a bill.
// This is the output of the allocation engine.
type PersonSummary struct {
	Person BillPerson

	// ItemsTotal is the sum of this person's item shares (pre-tax).
	ItemsTotal float64

	// TaxShare is this person's proportional share of the bill tax.
	// Calculated as: items_total × (tax / total_assigned)
	TaxShare float64

	// FinalAmount is what this person owes (items_total + tax_share).
	FinalAmount float64

	// Items are the specific items this person holds a share of.
	Items []PersonItem
}

// ItemStatus classifies how completely an item has been assigned.
type ItemStatus string

const (
	StatusUnassigned ItemStatus = "unassigned"
	StatusPartial    ItemStatus = "partial"
	StatusFull       ItemStatus = "full"
	StatusOver       ItemStatus = "over"
)

// Float returns a pointer to v. Handy for the nullable money fields.
func Float(v float64) *float64 {
	return &v
}
