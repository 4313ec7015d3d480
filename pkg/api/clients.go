package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// BillServiceClient is a client for the receiptsplit.v1.BillService service.
type BillServiceClient struct {
	listBills     *connect.Client[ListBillsRequest, ListBillsResponse]
	getBill       *connect.Client[GetBillRequest, GetBillResponse]
	saveBill      *connect.Client[SaveBillRequest, SaveBillResponse]
	deleteBill    *connect.Client[DeleteBillRequest, DeleteBillResponse]
	duplicateBill *connect.Client[DuplicateBillRequest, DuplicateBillResponse]
}

// NewBillServiceClient constructs a client for the BillService. baseURL is
// the server origin, e.g. "http://localhost:8080".
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{clientCodec()}, opts...)
	return &BillServiceClient{
		listBills:     connect.NewClient[ListBillsRequest, ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		getBill:       connect.NewClient[GetBillRequest, GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		saveBill:      connect.NewClient[SaveBillRequest, SaveBillResponse](httpClient, baseURL+BillServiceSaveBillProcedure, opts...),
		deleteBill:    connect.NewClient[DeleteBillRequest, DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		duplicateBill: connect.NewClient[DuplicateBillRequest, DuplicateBillResponse](httpClient, baseURL+BillServiceDuplicateBillProcedure, opts...),
	}
}

func (c *BillServiceClient) ListBills(ctx context.Context, req *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) SaveBill(ctx context.Context, req *connect.Request[SaveBillRequest]) (*connect.Response[SaveBillResponse], error) {
	return c.saveBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) DuplicateBill(ctx context.Context, req *connect.Request[DuplicateBillRequest]) (*connect.Response[DuplicateBillResponse], error) {
	return c.duplicateBill.CallUnary(ctx, req)
}

// SplitServiceClient is a client for the receiptsplit.v1.SplitService service.
type SplitServiceClient struct {
	summarize          *connect.Client[SummarizeRequest, SplitResponse]
	toggleAssignment   *connect.Client[ToggleAssignmentRequest, SplitResponse]
	setSplitPercentage *connect.Client[SetSplitPercentageRequest, SplitResponse]
	splitEvenly        *connect.Client[SplitEvenlyRequest, SplitResponse]
	addPerson          *connect.Client[AddPersonRequest, SplitResponse]
	updatePerson       *connect.Client[UpdatePersonRequest, SplitResponse]
	removePerson       *connect.Client[RemovePersonRequest, SplitResponse]
	addItem            *connect.Client[AddItemRequest, SplitResponse]
	updateItem         *connect.Client[UpdateItemRequest, SplitResponse]
	removeItem         *connect.Client[RemoveItemRequest, SplitResponse]
}

// NewSplitServiceClient constructs a client for the SplitService.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{clientCodec()}, opts...)
	return &SplitServiceClient{
		summarize:          connect.NewClient[SummarizeRequest, SplitResponse](httpClient, baseURL+SplitServiceSummarizeProcedure, opts...),
		toggleAssignment:   connect.NewClient[ToggleAssignmentRequest, SplitResponse](httpClient, baseURL+SplitServiceToggleAssignmentProcedure, opts...),
		setSplitPercentage: connect.NewClient[SetSplitPercentageRequest, SplitResponse](httpClient, baseURL+SplitServiceSetSplitPercentageProcedure, opts...),
		splitEvenly:        connect.NewClient[SplitEvenlyRequest, SplitResponse](httpClient, baseURL+SplitServiceSplitEvenlyProcedure, opts...),
		addPerson:          connect.NewClient[AddPersonRequest, SplitResponse](httpClient, baseURL+SplitServiceAddPersonProcedure, opts...),
		updatePerson:       connect.NewClient[UpdatePersonRequest, SplitResponse](httpClient, baseURL+SplitServiceUpdatePersonProcedure, opts...),
		removePerson:       connect.NewClient[RemovePersonRequest, SplitResponse](httpClient, baseURL+SplitServiceRemovePersonProcedure, opts...),
		addItem:            connect.NewClient[AddItemRequest, SplitResponse](httpClient, baseURL+SplitServiceAddItemProcedure, opts...),
		updateItem:         connect.NewClient[UpdateItemRequest, SplitResponse](httpClient, baseURL+SplitServiceUpdateItemProcedure, opts...),
		removeItem:         connect.NewClient[RemoveItemRequest, SplitResponse](httpClient, baseURL+SplitServiceRemoveItemProcedure, opts...),
	}
}

func (c *SplitServiceClient) Summarize(ctx context.Context, req *connect.Request[SummarizeRequest]) (*connect.Response[SplitResponse], error) {
	return c.summarize.CallUnary(ctx, req)
}

func (c *SplitServiceClient) ToggleAssignment(ctx context.Context, req *connect.Request[ToggleAssignmentRequest]) (*connect.Response[SplitResponse], error) {
	return c.toggleAssignment.CallUnary(ctx, req)
}

func (c *SplitServiceClient) SetSplitPercentage(ctx context.Context, req *connect.Request[SetSplitPercentageRequest]) (*connect.Response[SplitResponse], error) {
	return c.setSplitPercentage.CallUnary(ctx, req)
}

func (c *SplitServiceClient) SplitEvenly(ctx context.Context, req *connect.Request[SplitEvenlyRequest]) (*connect.Response[SplitResponse], error) {
	return c.splitEvenly.CallUnary(ctx, req)
}

func (c *SplitServiceClient) AddPerson(ctx context.Context, req *connect.Request[AddPersonRequest]) (*connect.Response[SplitResponse], error) {
	return c.addPerson.CallUnary(ctx, req)
}

func (c *SplitServiceClient) UpdatePerson(ctx context.Context, req *connect.Request[UpdatePersonRequest]) (*connect.Response[SplitResponse], error) {
	return c.updatePerson.CallUnary(ctx, req)
}

func (c *SplitServiceClient) RemovePerson(ctx context.Context, req *connect.Request[RemovePersonRequest]) (*connect.Response[SplitResponse], error) {
	return c.removePerson.CallUnary(ctx, req)
}

func (c *SplitServiceClient) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[SplitResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *SplitServiceClient) UpdateItem(ctx context.Context, req *connect.Request[UpdateItemRequest]) (*connect.Response[SplitResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

func (c *SplitServiceClient) RemoveItem(ctx context.Context, req *connect.Request[RemoveItemRequest]) (*connect.Response[SplitResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

// ScanServiceClient is a client for the receiptsplit.v1.ScanService service.
type ScanServiceClient struct {
	scanReceipt *connect.Client[ScanReceiptRequest, ScanReceiptResponse]
}

// NewScanServiceClient constructs a client for the ScanService.
func NewScanServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ScanServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{clientCodec()}, opts...)
	return &ScanServiceClient{
		scanReceipt: connect.NewClient[ScanReceiptRequest, ScanReceiptResponse](httpClient, baseURL+ScanServiceScanReceiptProcedure, opts...),
	}
}

func (c *ScanServiceClient) ScanReceipt(ctx context.Context, req *connect.Request[ScanReceiptRequest]) (*connect.Response[ScanReceiptResponse], error) {
	return c.scanReceipt.CallUnary(ctx, req)
}
