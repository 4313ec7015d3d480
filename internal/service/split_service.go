package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/receiptsplit/internal/editor"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/pkg/api"
)

var _ api.SplitServiceHandler = (*SplitService)(nil)

// SplitService implements the Connect SplitService. It is stateless: each
// call receives the bill being edited and returns the edited bill with its
// recomputed split. Nothing is persisted.
type SplitService struct {
	validator *validator.Validate
}

// NewSplitService creates a SplitService.
func NewSplitService(v *validator.Validate) *SplitService {
	return &SplitService{validator: v}
}

// Summarize computes the split for a bill without changing it.
func (s *SplitService) Summarize(_ context.Context, req *connect.Request[api.SummarizeRequest]) (*connect.Response[api.SplitResponse], error) {
	return splitResponse(billFromAPI(req.Msg.Bill), ""), nil
}

// ToggleAssignment assigns or unassigns a person on an item and splits the
// item equally among its assignees.
func (s *SplitService) ToggleAssignment(_ context.Context, req *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.SplitResponse], error) {
	return s.edit("ToggleAssignment", req.Msg, req.Msg.Bill, func(bill models.Bill) (models.Bill, string, error) {
		out, err := editor.ToggleAssignment(bill, req.Msg.ItemID, req.Msg.PersonID)
		return out, "", err
	})
}

// SetSplitPercentage sets one person's share of an item, clamped to [0,100].
func (s *SplitService) SetSplitPercentage(_ context.Context, req *connect.Request[api.SetSplitPercentageRequest]) (*connect.Response[api.SplitResponse], error) {
	return s.edit("SetSplitPercentage", req.Msg, req.Msg.Bill, func(bill models.Bill) (models.Bill, string, error) {
		out, err := editor.SetSplitPercentage(bill, req.Msg.ItemID, req.Msg.PersonID, req.Msg.SplitPercentage)
		return out, "", err
	})
}

// SplitEvenly resets an item's assignees to equal rounded shares.
func (s *SplitService) SplitEvenly(_ context.Context, req *connect.Request[api.SplitEvenlyRequest]) (*connect.Response[api.SplitResponse], error) {
	return s.edit("SplitEvenly", req.Msg, req.Msg.Bill, func(bill models.Bill) (models.Bill, string, error) {
		out, err := editor.SplitEvenly(bill, req.Msg.ItemID)
		return out, "", err
	})
}

// AddPerson adds a participant. The new person's ID is returned in CreatedID.
func (s *SplitService) AddPerson(_ context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.SplitResponse], error) {
	return s.edit("AddPerson", req.Msg, req.Msg.Bill, func(bill models.Bill) (models.Bill, string, error) {
		out, person, err := editor.AddPerson(bill, req.Msg.Name)
		return out, person.ID, err
	})
}

// UpdatePerson renames a person and/or cycles their colour.
func (s *SplitService) UpdatePerson(_ context.Context, req *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.SplitResponse], error) {
	return s.edit("UpdatePerson", req.Msg, req.Msg.Bill, func(bill models.Bill) (models.Bill, string, error) {
		out, err := editor.RenamePerson(bill, req.Msg.PersonID, req.Msg.Name)
		if err != nil {
			return bill, "", err
		}
		if req.Msg.CycleColor {
			out, err = editor.CyclePersonColor(out, req.Msg.PersonID)
		}
		return out, "", err
	})
}

// RemovePerson removes a person and all of their assignments.
func (s *SplitService) RemovePerson(_ context.Context, req *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.SplitResponse], error) {
	return s.edit("RemovePerson", req.Msg, req.Msg.Bill, func(bill models.Bill) (models.Bill, string, error) {
		out, err := editor.RemovePerson(bill, req.Msg.PersonID)
		return out, "", err
	})
}

// AddItem appends an unassigned item. The new item's ID is returned in CreatedID.
func (s *SplitService) AddItem(_ context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.SplitResponse], error) {
	return s.edit("AddItem", req.Msg, req.Msg.Bill, func(bill models.Bill) (models.Bill, string, error) {
		out, item, err := editor.AddItem(bill, req.Msg.Name, req.Msg.Price)
		return out, item.ID, err
	})
}

// UpdateItem changes an item's name and/or price.
func (s *SplitService) UpdateItem(_ context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.SplitResponse], error) {
	return s.edit("UpdateItem", req.Msg, req.Msg.Bill, func(bill models.Bill) (models.Bill, string, error) {
		out, err := editor.UpdateItem(bill, req.Msg.ItemID, editor.ItemUpdate{Name: req.Msg.Name, Price: req.Msg.Price})
		return out, "", err
	})
}

// RemoveItem removes an item and its assignments.
func (s *SplitService) RemoveItem(_ context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.SplitResponse], error) {
	return s.edit("RemoveItem", req.Msg, req.Msg.Bill, func(bill models.Bill) (models.Bill, string, error) {
		out, err := editor.RemoveItem(bill, req.Msg.ItemID)
		return out, "", err
	})
}

// edit validates the request, applies one editor operation to the bill
// snapshot and returns the result with its split.
func (s *SplitService) edit(op string, msg any, in api.Bill, apply func(models.Bill) (models.Bill, string, error)) (*connect.Response[api.SplitResponse], error) {
	if err := s.validator.Struct(msg); err != nil {
		return nil, connectError(op, err)
	}

	bill, createdID, err := apply(billFromAPI(in))
	if err != nil {
		return nil, connectError(op, err)
	}
	return splitResponse(bill, createdID), nil
}

func splitResponse(bill models.Bill, createdID string) *connect.Response[api.SplitResponse] {
	return connect.NewResponse(&api.SplitResponse{BillView: viewOf(bill), CreatedID: createdID})
}
