package api

const (
	// PackagePrefix prefixes every service name served by this package.
	PackagePrefix = "receiptsplit.v1."

	// BillServiceName is the fully-qualified name of the BillService service.
	BillServiceName = "receiptsplit.v1.BillService"
	// SplitServiceName is the fully-qualified name of the SplitService service.
	SplitServiceName = "receiptsplit.v1.SplitService"
	// ScanServiceName is the fully-qualified name of the ScanService service.
	ScanServiceName = "receiptsplit.v1.ScanService"
)

// Procedure paths. They are exposed at runtime as Spec.Procedure and used
// as the final component of the HTTP route.
const (
	BillServiceListBillsProcedure     = "/receiptsplit.v1.BillService/ListBills"
	BillServiceGetBillProcedure       = "/receiptsplit.v1.BillService/GetBill"
	BillServiceSaveBillProcedure      = "/receiptsplit.v1.BillService/SaveBill"
	BillServiceDeleteBillProcedure    = "/receiptsplit.v1.BillService/DeleteBill"
	BillServiceDuplicateBillProcedure = "/receiptsplit.v1.BillService/DuplicateBill"

	SplitServiceSummarizeProcedure          = "/receiptsplit.v1.SplitService/Summarize"
	SplitServiceToggleAssignmentProcedure   = "/receiptsplit.v1.SplitService/ToggleAssignment"
	SplitServiceSetSplitPercentageProcedure = "/receiptsplit.v1.SplitService/SetSplitPercentage"
	SplitServiceSplitEvenlyProcedure        = "/receiptsplit.v1.SplitService/SplitEvenly"
	SplitServiceAddPersonProcedure          = "/receiptsplit.v1.SplitService/AddPerson"
	SplitServiceUpdatePersonProcedure       = "/receiptsplit.v1.SplitService/UpdatePerson"
	SplitServiceRemovePersonProcedure       = "/receiptsplit.v1.SplitService/RemovePerson"
	SplitServiceAddItemProcedure            = "/receiptsplit.v1.SplitService/AddItem"
	SplitServiceUpdateItemProcedure         = "/receiptsplit.v1.SplitService/UpdateItem"
	SplitServiceRemoveItemProcedure         = "/receiptsplit.v1.SplitService/RemoveItem"

	ScanServiceScanReceiptProcedure = "/receiptsplit.v1.ScanService/ScanReceipt"
)
