package calculator

import (
	"math"

	"github.com/mmynk/receiptsplit/internal/models"
)

// assignmentKind tags an assignment after its person reference is resolved.
type assignmentKind int

const (
	resolved assignmentKind = iota
	dangling
)

type resolvedAssignment struct {
	kind     assignmentKind
	person   models.BillPerson // zero for dangling assignments
	personID string
	share    float64
}

// DanglingAssignment is an assignment whose person is not on the bill.
type DanglingAssignment struct {
	ItemID          string
	PersonID        string
	SplitPercentage float64
}

// Summarize computes what each person owes, one summary per person in
// bill.People order.
//
// Algorithm:
//   - item amount = price × share / 100, accumulated unrounded per person
//   - tax share   = items_total / total_assigned × tax (0 without tax or assignments)
//   - final       = round(items_total + tax share), from the unrounded parts
//
// Assignments to people missing from the bill are ignored.
func Summarize(bill models.Bill) []models.PersonSummary {
	summaries := make([]models.PersonSummary, 0, len(bill.People))
	if len(bill.People) == 0 {
		return summaries
	}

	people := peopleByID(bill.People)
	resolvedItems := make([][]resolvedAssignment, len(bill.Items))
	for i, item := range bill.Items {
		resolvedItems[i] = resolveAssignments(item, people)
	}
	assigned := TotalAssigned(bill)

	for _, person := range bill.People {
		var itemsTotal float64
		lines := make([]models.PersonItem, 0)

		for i, item := range bill.Items {
			a, ok := findResolved(resolvedItems[i], person.ID)
			if !ok {
				continue
			}
			amount := item.Price * a.share / 100
			itemsTotal += amount
			lines = append(lines, models.PersonItem{
				Name:            item.Name,
				Amount:          Round2(amount),
				SplitPercentage: a.share,
			})
		}

		var taxShare float64
		if bill.Tax != nil && assigned > 0 {
			taxShare = itemsTotal / assigned * *bill.Tax
		}

		summaries = append(summaries, models.PersonSummary{
			Person:      person,
			ItemsTotal:  Round2(itemsTotal),
			TaxShare:    Round2(taxShare),
			FinalAmount: Round2(itemsTotal + taxShare),
			Items:       lines,
		})
	}

	return summaries
}

// TotalAssigned returns the sum over all items of price × assigned fraction.
// The fraction is not capped, so over-assigned items count above their price.
func TotalAssigned(bill models.Bill) float64 {
	people := peopleByID(bill.People)
	var total float64
	for _, item := range bill.Items {
		total += item.Price * resolvedShareSum(item, people) / 100
	}
	return total
}

// UnassignedAmount returns the part of the item prices nobody has claimed yet.
// Over-assigned items contribute 0.
func UnassignedAmount(bill models.Bill) float64 {
	people := peopleByID(bill.People)
	var total float64
	for _, item := range bill.Items {
		unassigned := math.Max(0, 100-resolvedShareSum(item, people))
		total += item.Price * unassigned / 100
	}
	return total
}

// Dangling lists assignments that reference people not on the bill.
func Dangling(bill models.Bill) []DanglingAssignment {
	people := peopleByID(bill.People)
	var out []DanglingAssignment
	for _, item := range bill.Items {
		for _, a := range resolveAssignments(item, people) {
			if a.kind == dangling {
				out = append(out, DanglingAssignment{
					ItemID:          item.ID,
					PersonID:        a.personID,
					SplitPercentage: a.share,
				})
			}
		}
	}
	return out
}

func resolveAssignments(item models.BillItem, people map[string]models.BillPerson) []resolvedAssignment {
	out := make([]resolvedAssignment, len(item.Assignments))
	for i, a := range item.Assignments {
		out[i] = resolvedAssignment{kind: dangling, personID: a.PersonID, share: a.SplitPercentage}
		if p, ok := people[a.PersonID]; ok {
			out[i].kind = resolved
			out[i].person = p
		}
	}
	return out
}

func findResolved(assignments []resolvedAssignment, personID string) (resolvedAssignment, bool) {
	for _, a := range assignments {
		if a.kind == resolved && a.personID == personID {
			return a, true
		}
	}
	return resolvedAssignment{}, false
}

func resolvedShareSum(item models.BillItem, people map[string]models.BillPerson) float64 {
	var sum float64
	for _, a := range resolveAssignments(item, people) {
		if a.kind == resolved {
			sum += a.share
		}
	}
	return sum
}

func peopleByID(people []models.BillPerson) map[string]models.BillPerson {
	index := make(map[string]models.BillPerson, len(people))
	for _, p := range people {
		index[p.ID] = p
	}
	return index
}
