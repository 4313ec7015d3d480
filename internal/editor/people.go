package editor

import (
	"fmt"
	"strings"

	"github.com/mmynk/receiptsplit/internal/models"
)

// MaxPeople caps how many people can share one bill.
const MaxPeople = 5

// Palette holds the colour tags handed out to people, in order.
var Palette = []string{
	"#10B981", // Emerald
	"#3B82F6", // Blue
	"#F59E0B", // Amber
	"#EF4444", // Red
	"#8B5CF6", // Violet
}

// AddPerson appends a person with the first palette colour nobody uses yet.
// An empty name defaults to "Person N".
func AddPerson(bill models.Bill, name string) (models.Bill, models.BillPerson, error) {
	if len(bill.People) >= MaxPeople {
		return bill, models.BillPerson{}, ErrTooManyPeople
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Person %d", len(bill.People)+1)
	}

	person := models.BillPerson{
		ID:    newTempID(),
		Name:  name,
		Color: nextColor(bill.People),
	}

	out := Clone(bill)
	out.People = append(out.People, person)
	touch(&out)
	return out, person, nil
}

// RenamePerson changes a person's display name. Blank names are ignored.
func RenamePerson(bill models.Bill, personID, name string) (models.Bill, error) {
	i, err := findPerson(bill, personID)
	if err != nil {
		return bill, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return bill, nil
	}

	out := Clone(bill)
	out.People[i].Name = name
	touch(&out)
	return out, nil
}

// CyclePersonColor moves a person to the next palette colour. Colours outside
// the palette restart at the first one.
func CyclePersonColor(bill models.Bill, personID string) (models.Bill, error) {
	i, err := findPerson(bill, personID)
	if err != nil {
		return bill, err
	}

	next := 0
	for idx, c := range Palette {
		if c == bill.People[i].Color {
			next = (idx + 1) % len(Palette)
			break
		}
	}

	out := Clone(bill)
	out.People[i].Color = Palette[next]
	touch(&out)
	return out, nil
}

// RemovePerson drops a person together with all of their assignments.
// The remaining shares on each item are left as they were.
func RemovePerson(bill models.Bill, personID string) (models.Bill, error) {
	if _, err := findPerson(bill, personID); err != nil {
		return bill, err
	}

	out := Clone(bill)
	people := out.People[:0]
	for _, p := range out.People {
		if p.ID != personID {
			people = append(people, p)
		}
	}
	out.People = people

	for i := range out.Items {
		kept := out.Items[i].Assignments[:0]
		for _, a := range out.Items[i].Assignments {
			if a.PersonID != personID {
				kept = append(kept, a)
			}
		}
		out.Items[i].Assignments = kept
	}
	touch(&out)
	return out, nil
}

func nextColor(people []models.BillPerson) string {
	used := make(map[string]bool, len(people))
	for _, p := range people {
		used[p.Color] = true
	}
	for _, c := range Palette {
		if !used[c] {
			return c
		}
	}
	return Palette[0]
}
