package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/receiptsplit/internal/editor"
	"github.com/mmynk/receiptsplit/internal/events"
	"github.com/mmynk/receiptsplit/internal/storage"
	"github.com/mmynk/receiptsplit/pkg/api"
)

var _ api.BillServiceHandler = (*BillService)(nil)

// BillService implements the Connect BillService: saved bills and their splits.
type BillService struct {
	store     storage.Store
	events    events.Publisher
	validator *validator.Validate
}

// NewBillService creates a BillService. A nil publisher disables events.
func NewBillService(store storage.Store, publisher events.Publisher, v *validator.Validate) *BillService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &BillService{store: store, events: publisher, validator: v}
}

// ListBills returns all saved bills, newest first, each with its split.
func (s *BillService) ListBills(ctx context.Context, _ *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, connectError("ListBills", err)
	}

	views := make([]api.BillView, len(bills))
	for i, bill := range bills {
		views[i] = viewOf(*bill)
	}
	return connect.NewResponse(&api.ListBillsResponse{Bills: views}), nil
}

// GetBill retrieves a bill by ID and recomputes its split.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, connectError("GetBill", err)
	}

	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		slog.Debug("GetBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connectError("GetBill", err)
	}
	return connect.NewResponse(&api.GetBillResponse{BillView: viewOf(*bill)}), nil
}

// SaveBill persists a bill. Subtotal and total are derived from the items
// before saving; temporary IDs are replaced with permanent ones.
func (s *BillService) SaveBill(ctx context.Context, req *connect.Request[api.SaveBillRequest]) (*connect.Response[api.SaveBillResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, connectError("SaveBill", err)
	}

	bill := editor.ApplyDerivedTotals(billFromAPI(req.Msg.Bill))
	if bill.Currency == "" {
		bill.Currency = editor.DefaultCurrency
	}

	id, err := s.store.SaveBill(ctx, &bill)
	if err != nil {
		return nil, connectError("SaveBill", err)
	}
	slog.Info("Bill saved", "bill_id", id, "items", len(bill.Items), "people", len(bill.People))
	s.publish(ctx, events.BillSaved, id)

	return connect.NewResponse(&api.SaveBillResponse{BillID: id, BillView: viewOf(bill)}), nil
}

// DeleteBill removes a bill with its items, people and assignments.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, connectError("DeleteBill", err)
	}

	if err := s.store.DeleteBill(ctx, req.Msg.BillID); err != nil {
		return nil, connectError("DeleteBill", err)
	}
	slog.Info("Bill deleted", "bill_id", req.Msg.BillID)
	s.publish(ctx, events.BillDeleted, req.Msg.BillID)

	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}

// DuplicateBill saves a copy of a bill under new IDs.
func (s *BillService) DuplicateBill(ctx context.Context, req *connect.Request[api.DuplicateBillRequest]) (*connect.Response[api.DuplicateBillResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, connectError("DuplicateBill", err)
	}

	original, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, connectError("DuplicateBill", err)
	}

	dup := editor.ApplyDerivedTotals(editor.Duplicate(*original))
	id, err := s.store.SaveBill(ctx, &dup)
	if err != nil {
		return nil, connectError("DuplicateBill", err)
	}
	slog.Info("Bill duplicated", "bill_id", req.Msg.BillID, "copy_id", id)
	s.publish(ctx, events.BillSaved, id)

	return connect.NewResponse(&api.DuplicateBillResponse{BillID: id, BillView: viewOf(dup)}), nil
}

// publish never fails the RPC; the bill is already committed.
func (s *BillService) publish(ctx context.Context, t events.Type, billID string) {
	if err := s.events.Publish(ctx, events.NewBillEvent(t, billID)); err != nil {
		slog.Warn("Failed to publish bill event", "type", t, "bill_id", billID, "error", err)
	}
}
