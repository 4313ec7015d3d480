package service

import (
	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// billFromAPI converts a wire bill into the domain model. Nil slices become
// empty ones.
func billFromAPI(in api.Bill) models.Bill {
	bill := models.Bill{
		ID:           in.ID,
		MerchantName: in.MerchantName,
		Currency:     in.Currency,
		Items:        make([]models.BillItem, len(in.Items)),
		People:       make([]models.BillPerson, len(in.People)),
		Subtotal:     in.Subtotal,
		Tax:          in.Tax,
		Total:        in.Total,
		ImageURL:     in.ImageURL,
		CreatedAt:    in.CreatedAt,
		UpdatedAt:    in.UpdatedAt,
	}
	for i, p := range in.People {
		bill.People[i] = models.BillPerson{ID: p.ID, Name: p.Name, Color: p.Color}
	}
	for i, item := range in.Items {
		assignments := make([]models.ItemAssignment, len(item.Assignments))
		for j, a := range item.Assignments {
			assignments[j] = models.ItemAssignment{PersonID: a.PersonID, SplitPercentage: a.SplitPercentage}
		}
		bill.Items[i] = models.BillItem{
			ID:          item.ID,
			Name:        item.Name,
			Price:       item.Price,
			Assignments: assignments,
		}
	}
	return bill
}

func billToAPI(bill models.Bill) api.Bill {
	out := api.Bill{
		ID:           bill.ID,
		MerchantName: bill.MerchantName,
		Currency:     bill.Currency,
		Items:        make([]api.BillItem, len(bill.Items)),
		People:       make([]api.Person, len(bill.People)),
		Subtotal:     calculator.RoundPtr(bill.Subtotal),
		Tax:          calculator.RoundPtr(bill.Tax),
		Total:        calculator.RoundPtr(bill.Total),
		ImageURL:     bill.ImageURL,
		CreatedAt:    bill.CreatedAt,
		UpdatedAt:    bill.UpdatedAt,
	}
	for i, p := range bill.People {
		out.People[i] = api.Person{ID: p.ID, Name: p.Name, Color: p.Color}
	}
	for i, item := range bill.Items {
		assignments := make([]api.Assignment, len(item.Assignments))
		for j, a := range item.Assignments {
			assignments[j] = api.Assignment{PersonID: a.PersonID, SplitPercentage: a.SplitPercentage}
		}
		out.Items[i] = api.BillItem{
			ID:          item.ID,
			Name:        item.Name,
			Price:       item.Price,
			Assignments: assignments,
		}
	}
	return out
}

// splitOf runs the allocation engine over a bill. All money is rounded here.
func splitOf(bill models.Bill) api.Split {
	summaries := calculator.Summarize(bill)
	statuses := calculator.ItemStatuses(bill)

	split := api.Split{
		People:           make([]api.PersonSplit, len(summaries)),
		Items:            make([]api.ItemStatus, len(bill.Items)),
		TotalAssigned:    calculator.Round2(calculator.TotalAssigned(bill)),
		UnassignedAmount: calculator.Round2(calculator.UnassignedAmount(bill)),
		Subtotal:         calculator.Round2(calculator.Subtotal(bill)),
		Total:            calculator.Round2(calculator.BillTotal(bill)),
	}

	for i, s := range summaries {
		items := make([]api.PersonItem, len(s.Items))
		for j, line := range s.Items {
			items[j] = api.PersonItem{
				Name:            line.Name,
				Amount:          line.Amount,
				SplitPercentage: line.SplitPercentage,
			}
		}
		split.People[i] = api.PersonSplit{
			PersonID:    s.Person.ID,
			Name:        s.Person.Name,
			Color:       s.Person.Color,
			ItemsTotal:  s.ItemsTotal,
			TaxShare:    s.TaxShare,
			FinalAmount: s.FinalAmount,
			Items:       items,
		}
	}

	for i, item := range bill.Items {
		split.Items[i] = api.ItemStatus{ItemID: item.ID, Status: string(statuses[item.ID])}
	}

	for _, d := range calculator.Dangling(bill) {
		split.Dangling = append(split.Dangling, api.DanglingAssignment{
			ItemID:          d.ItemID,
			PersonID:        d.PersonID,
			SplitPercentage: d.SplitPercentage,
		})
	}
	return split
}

func viewOf(bill models.Bill) api.BillView {
	return api.BillView{Bill: billToAPI(bill), Split: splitOf(bill)}
}

func scannedToAPI(s models.ScannedBill) api.ScannedBill {
	items := make([]api.ScannedItem, len(s.Items))
	for i, item := range s.Items {
		items[i] = api.ScannedItem{Name: item.Name, Price: item.Price}
	}
	return api.ScannedBill{
		MerchantName: s.MerchantName,
		Currency:     s.Currency,
		Items:        items,
		Subtotal:     s.Subtotal,
		Tax:          s.Tax,
		Total:        s.Total,
	}
}
