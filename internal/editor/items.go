package editor

import (
	"strings"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
)

// ItemUpdate lists the fields to change on an item; nil fields are kept.
type ItemUpdate struct {
	Name  *string
	Price *float64
}

// AddItem appends an unassigned item. An empty name defaults to "New Item".
func AddItem(bill models.Bill, name string, price float64) (models.Bill, models.BillItem, error) {
	if price < 0 {
		return bill, models.BillItem{}, ErrNegativePrice
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultItemName
	}

	item := models.BillItem{
		ID:          newTempID(),
		Name:        name,
		Price:       price,
		Assignments: []models.ItemAssignment{},
	}

	out := Clone(bill)
	out.Items = append(out.Items, item)
	touch(&out)
	return out, item, nil
}

// UpdateItem edits an item's name and/or price. Assignments are kept.
func UpdateItem(bill models.Bill, itemID string, update ItemUpdate) (models.Bill, error) {
	i, err := findItem(bill, itemID)
	if err != nil {
		return bill, err
	}
	if update.Price != nil && *update.Price < 0 {
		return bill, ErrNegativePrice
	}

	out := Clone(bill)
	if update.Name != nil {
		out.Items[i].Name = strings.TrimSpace(*update.Name)
	}
	if update.Price != nil {
		out.Items[i].Price = *update.Price
	}
	touch(&out)
	return out, nil
}

// RemoveItem drops an item and its assignments.
func RemoveItem(bill models.Bill, itemID string) (models.Bill, error) {
	i, err := findItem(bill, itemID)
	if err != nil {
		return bill, err
	}

	out := Clone(bill)
	out.Items = append(out.Items[:i], out.Items[i+1:]...)
	touch(&out)
	return out, nil
}

// ToggleAssignment assigns or unassigns a person on an item and resets the
// item to an equal split.
func ToggleAssignment(bill models.Bill, itemID, personID string) (models.Bill, error) {
	return editAssignments(bill, itemID, personID, func(item models.BillItem) models.BillItem {
		return calculator.ToggleAssignment(item, personID)
	})
}

// SetSplitPercentage sets one person's share on an item, clamped to [0,100].
func SetSplitPercentage(bill models.Bill, itemID, personID string, value float64) (models.Bill, error) {
	return editAssignments(bill, itemID, personID, func(item models.BillItem) models.BillItem {
		return calculator.SetSplitPercentage(item, personID, value)
	})
}

// SplitEvenly resets an item's assignees to equal, rounded shares.
func SplitEvenly(bill models.Bill, itemID string) (models.Bill, error) {
	return editAssignments(bill, itemID, "", calculator.SplitEvenly)
}

// editAssignments applies a ledger mutation to one item. A non-empty personID
// must name a person on the bill.
func editAssignments(bill models.Bill, itemID, personID string, mutate func(models.BillItem) models.BillItem) (models.Bill, error) {
	i, err := findItem(bill, itemID)
	if err != nil {
		return bill, err
	}
	if personID != "" {
		if _, err := findPerson(bill, personID); err != nil {
			return bill, err
		}
	}

	out := Clone(bill)
	out.Items[i] = mutate(out.Items[i])
	touch(&out)
	return out, nil
}
