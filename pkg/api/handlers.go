package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// BillServiceHandler is implemented by the bill persistence service.
type BillServiceHandler interface {
	ListBills(context.Context, *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error)
	GetBill(context.Context, *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error)
	SaveBill(context.Context, *connect.Request[SaveBillRequest]) (*connect.Response[SaveBillResponse], error)
	DeleteBill(context.Context, *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error)
	DuplicateBill(context.Context, *connect.Request[DuplicateBillRequest]) (*connect.Response[DuplicateBillResponse], error)
}

// SplitServiceHandler is implemented by the stateless editing service.
type SplitServiceHandler interface {
	Summarize(context.Context, *connect.Request[SummarizeRequest]) (*connect.Response[SplitResponse], error)
	ToggleAssignment(context.Context, *connect.Request[ToggleAssignmentRequest]) (*connect.Response[SplitResponse], error)
	SetSplitPercentage(context.Context, *connect.Request[SetSplitPercentageRequest]) (*connect.Response[SplitResponse], error)
	SplitEvenly(context.Context, *connect.Request[SplitEvenlyRequest]) (*connect.Response[SplitResponse], error)
	AddPerson(context.Context, *connect.Request[AddPersonRequest]) (*connect.Response[SplitResponse], error)
	UpdatePerson(context.Context, *connect.Request[UpdatePersonRequest]) (*connect.Response[SplitResponse], error)
	RemovePerson(context.Context, *connect.Request[RemovePersonRequest]) (*connect.Response[SplitResponse], error)
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[SplitResponse], error)
	UpdateItem(context.Context, *connect.Request[UpdateItemRequest]) (*connect.Response[SplitResponse], error)
	RemoveItem(context.Context, *connect.Request[RemoveItemRequest]) (*connect.Response[SplitResponse], error)
}

// ScanServiceHandler is implemented by the receipt scanning service.
type ScanServiceHandler interface {
	ScanReceipt(context.Context, *connect.Request[ScanReceiptRequest]) (*connect.Response[ScanReceiptResponse], error)
}

// routes dispatches on the full procedure path.
type routes map[string]http.Handler

func (r routes) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r[req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}

// NewBillServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{handlerCodecs()}, opts...)
	return "/" + BillServiceName + "/", routes{
		BillServiceListBillsProcedure:     connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...),
		BillServiceGetBillProcedure:       connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...),
		BillServiceSaveBillProcedure:      connect.NewUnaryHandler(BillServiceSaveBillProcedure, svc.SaveBill, opts...),
		BillServiceDeleteBillProcedure:    connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...),
		BillServiceDuplicateBillProcedure: connect.NewUnaryHandler(BillServiceDuplicateBillProcedure, svc.DuplicateBill, opts...),
	}
}

// NewSplitServiceHandler builds an HTTP handler from the service implementation.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{handlerCodecs()}, opts...)
	return "/" + SplitServiceName + "/", routes{
		SplitServiceSummarizeProcedure:          connect.NewUnaryHandler(SplitServiceSummarizeProcedure, svc.Summarize, opts...),
		SplitServiceToggleAssignmentProcedure:   connect.NewUnaryHandler(SplitServiceToggleAssignmentProcedure, svc.ToggleAssignment, opts...),
		SplitServiceSetSplitPercentageProcedure: connect.NewUnaryHandler(SplitServiceSetSplitPercentageProcedure, svc.SetSplitPercentage, opts...),
		SplitServiceSplitEvenlyProcedure:        connect.NewUnaryHandler(SplitServiceSplitEvenlyProcedure, svc.SplitEvenly, opts...),
		SplitServiceAddPersonProcedure:          connect.NewUnaryHandler(SplitServiceAddPersonProcedure, svc.AddPerson, opts...),
		SplitServiceUpdatePersonProcedure:       connect.NewUnaryHandler(SplitServiceUpdatePersonProcedure, svc.UpdatePerson, opts...),
		SplitServiceRemovePersonProcedure:       connect.NewUnaryHandler(SplitServiceRemovePersonProcedure, svc.RemovePerson, opts...),
		SplitServiceAddItemProcedure:            connect.NewUnaryHandler(SplitServiceAddItemProcedure, svc.AddItem, opts...),
		SplitServiceUpdateItemProcedure:         connect.NewUnaryHandler(SplitServiceUpdateItemProcedure, svc.UpdateItem, opts...),
		SplitServiceRemoveItemProcedure:         connect.NewUnaryHandler(SplitServiceRemoveItemProcedure, svc.RemoveItem, opts...),
	}
}

// NewScanServiceHandler builds an HTTP handler from the service implementation.
func NewScanServiceHandler(svc ScanServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{handlerCodecs()}, opts...)
	return "/" + ScanServiceName + "/", routes{
		ScanServiceScanReceiptProcedure: connect.NewUnaryHandler(ScanServiceScanReceiptProcedure, svc.ScanReceipt, opts...),
	}
}
