package calculator

import (
	"math"

	"github.com/mmynk/receiptsplit/internal/models"
)

// StatusEpsilon is the tolerance, in percentage points, used when comparing an
// item's share sum against 0 and 100.
const StatusEpsilon = 1e-6

// ItemStatus classifies an item by the sum of all its shares. It assumes every
// assignment names a person on the bill; use ItemStatusIn when that is not
// known to hold.
func ItemStatus(item models.BillItem) models.ItemStatus {
	return classify(shareSum(item.Assignments))
}

// ItemStatusIn classifies an item of bill, ignoring assignments to people
// that are not on the bill.
func ItemStatusIn(bill models.Bill, item models.BillItem) models.ItemStatus {
	return classify(resolvedShareSum(item, peopleByID(bill.People)))
}

// ItemStatuses classifies every item of the bill, keyed by item ID.
// Assignments to people that are not on the bill are ignored.
func ItemStatuses(bill models.Bill) map[string]models.ItemStatus {
	known := peopleByID(bill.People)
	statuses := make(map[string]models.ItemStatus, len(bill.Items))
	for _, item := range bill.Items {
		statuses[item.ID] = classify(resolvedShareSum(item, known))
	}
	return statuses
}

func classify(total float64) models.ItemStatus {
	switch {
	case math.Abs(total) < StatusEpsilon:
		return models.StatusUnassigned
	case math.Abs(total-100) < StatusEpsilon:
		return models.StatusFull
	case total < 100:
		return models.StatusPartial
	default:
		return models.StatusOver
	}
}

func shareSum(assignments []models.ItemAssignment) float64 {
	var sum float64
	for _, a := range assignments {
		sum += a.SplitPercentage
	}
	return sum
}
