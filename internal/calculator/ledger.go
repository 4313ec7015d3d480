package calculator

import (
	"math"

	"github.com/mmynk/receiptsplit/internal/models"
)

// Redistributor decides the shares of an item's assignees after its
// membership changed. It receives a fresh slice it may modify in place.
type Redistributor interface {
	Redistribute(assignments []models.ItemAssignment)
}

// EqualSplit resets every assignee to 100/n, discarding custom shares.
// Shares are stored unrounded.
type EqualSplit struct{}

// Redistribute implements Redistributor.
func (EqualSplit) Redistribute(assignments []models.ItemAssignment) {
	if len(assignments) == 0 {
		return
	}
	share := 100 / float64(len(assignments))
	for i := range assignments {
		assignments[i].SplitPercentage = share
	}
}

// ToggleAssignment adds personID to the item, or removes them if already
// assigned, then splits the item equally among whoever is left.
func ToggleAssignment(item models.BillItem, personID string) models.BillItem {
	return ToggleAssignmentWith(item, personID, EqualSplit{})
}

// ToggleAssignmentWith is ToggleAssignment with an explicit redistribution policy.
func ToggleAssignmentWith(item models.BillItem, personID string, policy Redistributor) models.BillItem {
	out := item
	out.Assignments = make([]models.ItemAssignment, 0, len(item.Assignments)+1)

	removed := false
	for _, a := range item.Assignments {
		if a.PersonID == personID {
			removed = true
			continue
		}
		out.Assignments = append(out.Assignments, a)
	}
	if !removed {
		out.Assignments = append(out.Assignments, models.ItemAssignment{PersonID: personID})
	}

	policy.Redistribute(out.Assignments)
	return out
}

// SetSplitPercentage overwrites one person's share, clamped to [0,100].
// Other shares are left alone, so the sum may drift away from 100.
// Unparsable input (NaN) is treated as 0. If the person is not assigned to
// the item, the item is returned unchanged.
func SetSplitPercentage(item models.BillItem, personID string, value float64) models.BillItem {
	out := item
	out.Assignments = make([]models.ItemAssignment, len(item.Assignments))
	copy(out.Assignments, item.Assignments)

	for i := range out.Assignments {
		if out.Assignments[i].PersonID == personID {
			out.Assignments[i].SplitPercentage = ClampPercentage(value)
		}
	}
	return out
}

// SplitEvenly gives every assignee Round2(100/n). Items without assignees are
// returned unchanged.
func SplitEvenly(item models.BillItem) models.BillItem {
	out := item
	out.Assignments = make([]models.ItemAssignment, len(item.Assignments))
	copy(out.Assignments, item.Assignments)
	if len(out.Assignments) == 0 {
		return out
	}

	share := Round2(100 / float64(len(out.Assignments)))
	for i := range out.Assignments {
		out.Assignments[i].SplitPercentage = share
	}
	return out
}

// ClampPercentage limits a share to [0,100]. NaN becomes 0.
func ClampPercentage(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return math.Min(100, math.Max(0, value))
}
