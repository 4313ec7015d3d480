package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
)

func TestAddItem(t *testing.T) {
	bill := sampleBill()

	out, item, err := AddItem(bill, "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultItemName, item.Name)
	assert.Len(t, out.Items, 3)
	assert.Len(t, bill.Items, 2)

	_, _, err = AddItem(bill, "Refund", -3)
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestUpdateItem(t *testing.T) {
	bill := sampleBill()
	name := "Margherita"
	price := 22.5

	out, err := UpdateItem(bill, "pizza", ItemUpdate{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Margherita", out.Items[0].Name)
	assert.Equal(t, 22.5, out.Items[0].Price)
	assert.Len(t, out.Items[0].Assignments, 2)

	out, err = UpdateItem(bill, "wine", ItemUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, 30.0, out.Items[1].Price)

	negative := -1.0
	_, err = UpdateItem(bill, "wine", ItemUpdate{Price: &negative})
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = UpdateItem(bill, "nope", ItemUpdate{})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	bill := sampleBill()

	out, err := RemoveItem(bill, "pizza")
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "wine", out.Items[0].ID)
	assert.Len(t, bill.Items, 2)

	_, err = RemoveItem(bill, "pizza-2")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestToggleAssignment(t *testing.T) {
	bill := sampleBill()

	out, err := ToggleAssignment(bill, "wine", "alice")
	require.NoError(t, err)
	assert.Equal(t, []models.ItemAssignment{
		{PersonID: "bob", SplitPercentage: 50},
		{PersonID: "alice", SplitPercentage: 50},
	}, out.Items[1].Assignments)
	assert.Equal(t, []models.ItemAssignment{{PersonID: "bob", SplitPercentage: 100}}, bill.Items[1].Assignments)

	_, err = ToggleAssignment(bill, "wine", "ghost")
	assert.ErrorIs(t, err, ErrPersonNotFound)

	_, err = ToggleAssignment(bill, "ghost-item", "alice")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSetSplitPercentage(t *testing.T) {
	bill := sampleBill()

	out, err := SetSplitPercentage(bill, "pizza", "alice", 120)
	require.NoError(t, err)
	assert.Equal(t, 100.0, out.Items[0].Assignments[0].SplitPercentage)
	assert.Equal(t, 50.0, out.Items[0].Assignments[1].SplitPercentage)
	assert.Equal(t, models.StatusOver, calculator.ItemStatus(out.Items[0]))

	_, err = SetSplitPercentage(bill, "pizza", "ghost", 10)
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestSplitEvenly(t *testing.T) {
	bill := sampleBill()
	bill.Items[0].Assignments[0].SplitPercentage = 80

	out, err := SplitEvenly(bill, "pizza")
	require.NoError(t, err)
	for _, a := range out.Items[0].Assignments {
		assert.Equal(t, 50.0, a.SplitPercentage)
	}

	_, err = SplitEvenly(bill, "ghost-item")
	assert.ErrorIs(t, err, ErrItemNotFound)
}
