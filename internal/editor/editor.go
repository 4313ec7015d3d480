// Package editor implements the bill editing operations behind the split UI.
//
// Every operation takes a bill value and returns an edited copy; the input is
// never modified, so a failed edit leaves the caller's bill untouched. The
// splitting rules themselves live in the calculator package.
package editor

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
)

const (
	// DefaultCurrency is used for new bills and scans that report none.
	DefaultCurrency = "USD"

	// DefaultItemName is the name given to manually added items.
	DefaultItemName = "New Item"

	// NewBillPrefix marks bill IDs that have not been persisted yet.
	NewBillPrefix = "new-"

	// TempIDPrefix marks item and person IDs that have not been persisted yet.
	TempIDPrefix = "temp-"
)

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrPersonNotFound = errors.New("person not found")
	ErrTooManyPeople  = errors.New("a bill can be split between at most 5 people")
	ErrNegativePrice  = errors.New("price cannot be negative")
)

// now is swapped in tests.
var now = time.Now

// NewBill returns an empty, unsaved bill.
func NewBill() models.Bill {
	ts := now()
	return models.Bill{
		ID:        NewBillPrefix + uuid.NewString(),
		Currency:  DefaultCurrency,
		Items:     []models.BillItem{},
		People:    []models.BillPerson{},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// FromScan builds an unsaved bill from scanner output. Items start unassigned.
func FromScan(scanned models.ScannedBill, imageURL string) models.Bill {
	bill := NewBill()
	bill.MerchantName = strings.TrimSpace(scanned.MerchantName)
	if c := strings.ToUpper(strings.TrimSpace(scanned.Currency)); c != "" {
		bill.Currency = c
	}
	bill.Subtotal = scanned.Subtotal
	bill.Tax = scanned.Tax
	bill.Total = scanned.Total
	bill.ImageURL = imageURL

	for _, item := range scanned.Items {
		bill.Items = append(bill.Items, models.BillItem{
			ID:          newTempID(),
			Name:        item.Name,
			Price:       item.Price,
			Assignments: []models.ItemAssignment{},
		})
	}
	return bill
}

// Duplicate copies a bill under fresh temporary IDs so that saving it creates
// a new bill. Assignments follow their people to the new IDs.
func Duplicate(bill models.Bill) models.Bill {
	dup := Clone(bill)
	ts := now()
	dup.ID = NewBillPrefix + uuid.NewString()
	dup.MerchantName = strings.TrimSpace(bill.MerchantName + " (Copy)")
	dup.CreatedAt = ts
	dup.UpdatedAt = ts

	personIDs := make(map[string]string, len(dup.People))
	for i := range dup.People {
		id := newTempID()
		personIDs[dup.People[i].ID] = id
		dup.People[i].ID = id
	}
	for i := range dup.Items {
		dup.Items[i].ID = newTempID()
		for j, a := range dup.Items[i].Assignments {
			if id, ok := personIDs[a.PersonID]; ok {
				dup.Items[i].Assignments[j].PersonID = id
			}
		}
	}
	return dup
}

// ApplyDerivedTotals recomputes the display totals from the items:
// Subtotal = sum of prices, Total = Subtotal + tax.
func ApplyDerivedTotals(bill models.Bill) models.Bill {
	out := Clone(bill)
	out.Subtotal = models.Float(calculator.Subtotal(bill))
	out.Total = models.Float(calculator.BillTotal(bill))
	return out
}

// Clone deep-copies a bill so edits on the copy never reach the original.
func Clone(bill models.Bill) models.Bill {
	out := bill
	out.Subtotal = copyFloat(bill.Subtotal)
	out.Tax = copyFloat(bill.Tax)
	out.Total = copyFloat(bill.Total)

	out.People = make([]models.BillPerson, len(bill.People))
	copy(out.People, bill.People)

	out.Items = make([]models.BillItem, len(bill.Items))
	for i, item := range bill.Items {
		out.Items[i] = item
		out.Items[i].Assignments = make([]models.ItemAssignment, len(item.Assignments))
		copy(out.Items[i].Assignments, item.Assignments)
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func newTempID() string {
	return TempIDPrefix + uuid.NewString()
}

func touch(bill *models.Bill) {
	bill.UpdatedAt = now()
}

func findItem(bill models.Bill, itemID string) (int, error) {
	for i, item := range bill.Items {
		if item.ID == itemID {
			return i, nil
		}
	}
	return -1, ErrItemNotFound
}

func findPerson(bill models.Bill, personID string) (int, error) {
	for i, p := range bill.People {
		if p.ID == personID {
			return i, nil
		}
	}
	return -1, ErrPersonNotFound
}
