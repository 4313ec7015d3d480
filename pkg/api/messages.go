// Package api defines the RPC surface of the receiptsplit server: message
// types, procedure names, handler constructors and typed clients.
//
// Messages are plain structs carried as JSON over the Connect protocol.
// Money values are rounded to two decimals before they leave the server.
package api

import "time"

// Bill is the wire form of a bill.
type Bill struct {
	ID           string     `json:"id"`
	MerchantName string     `json:"merchant_name" validate:"max=200"`
	Currency     string     `json:"currency" validate:"omitempty,len=3,alpha"`
	Items        []BillItem `json:"items" validate:"max=500,dive"`
	People       []Person   `json:"people" validate:"max=5,dive"`
	Subtotal     *float64   `json:"subtotal" validate:"omitempty,gte=0"`
	Tax          *float64   `json:"tax" validate:"omitempty,gte=0"`
	Total        *float64   `json:"total" validate:"omitempty,gte=0"`
	ImageURL     string     `json:"image_url,omitempty" validate:"omitempty,url"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BillItem is the wire form of a line item.
type BillItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" validate:"max=200"`
	Price       float64      `json:"price" validate:"gte=0"`
	Assignments []Assignment `json:"assignments" validate:"dive"`
}

// Assignment is one person's share of an item.
type Assignment struct {
	PersonID        string  `json:"person_id" validate:"required"`
	SplitPercentage float64 `json:"split_percentage" validate:"gte=0,lte=100"`
}

// Person is a participant of a bill.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// Split is the computed allocation for a bill.
type Split struct {
	People           []PersonSplit `json:"people"`
	Items            []ItemStatus  `json:"items"`
	TotalAssigned    float64       `json:"total_assigned"`
	UnassignedAmount float64       `json:"unassigned_amount"`
	Subtotal         float64       `json:"subtotal"`
	Total            float64       `json:"total"`
	// Dangling lists assignments naming people who are not on the bill.
	// They are ignored by every figure above.
	Dangling []DanglingAssignment `json:"dangling,omitempty"`
}

// PersonSplit is what one person owes.
type PersonSplit struct {
	PersonID    string       `json:"person_id"`
	Name        string       `json:"name"`
	Color       string       `json:"color"`
	ItemsTotal  float64      `json:"items_total"`
	TaxShare    float64      `json:"tax_share"`
	FinalAmount float64      `json:"final_amount"`
	Items       []PersonItem `json:"items"`
}

// PersonItem is one line of a person's breakdown.
type PersonItem struct {
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	SplitPercentage float64 `json:"split_percentage"`
}

// ItemStatus reports how completely an item is assigned:
// "unassigned", "partial", "full" or "over".
type ItemStatus struct {
	ItemID string `json:"item_id"`
	Status string `json:"status"`
}

// DanglingAssignment is an assignment whose person is missing from the bill.
type DanglingAssignment struct {
	ItemID          string  `json:"item_id"`
	PersonID        string  `json:"person_id"`
	SplitPercentage float64 `json:"split_percentage"`
}

// BillView pairs a bill with its computed split.
type BillView struct {
	Bill  Bill  `json:"bill"`
	Split Split `json:"split"`
}

// ScannedBill is the raw extraction from a receipt image.
type ScannedBill struct {
	MerchantName string        `json:"merchant_name"`
	Currency     string        `json:"currency"`
	Items        []ScannedItem `json:"items"`
	Subtotal     *float64      `json:"subtotal"`
	Tax          *float64      `json:"tax"`
	Total        *float64      `json:"total"`
}

// ScannedItem is one extracted receipt line.
type ScannedItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// BillService

type ListBillsRequest struct{}

type ListBillsResponse struct {
	Bills []BillView `json:"bills"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

type GetBillResponse struct {
	BillView
}

type SaveBillRequest struct {
	Bill Bill `json:"bill"`
}

type SaveBillResponse struct {
	BillID string `json:"bill_id"`
	BillView
}

type DeleteBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

type DeleteBillResponse struct{}

type DuplicateBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

type DuplicateBillResponse struct {
	BillID string `json:"bill_id"`
	BillView
}

// SplitService. Every request carries the current bill snapshot and every
// response returns the edited bill with its recomputed split. Snapshots are
// not range-checked so that malformed bills can still be summarised.

type SummarizeRequest struct {
	Bill Bill `json:"bill" validate:"-"`
}

type ToggleAssignmentRequest struct {
	Bill     Bill   `json:"bill" validate:"-"`
	ItemID   string `json:"item_id" validate:"required"`
	PersonID string `json:"person_id" validate:"required"`
}

type SetSplitPercentageRequest struct {
	Bill            Bill    `json:"bill" validate:"-"`
	ItemID          string  `json:"item_id" validate:"required"`
	PersonID        string  `json:"person_id" validate:"required"`
	SplitPercentage float64 `json:"split_percentage"`
}

type SplitEvenlyRequest struct {
	Bill   Bill   `json:"bill" validate:"-"`
	ItemID string `json:"item_id" validate:"required"`
}

type AddPersonRequest struct {
	Bill Bill   `json:"bill" validate:"-"`
	Name string `json:"name" validate:"max=100"`
}

type UpdatePersonRequest struct {
	Bill     Bill   `json:"bill" validate:"-"`
	PersonID string `json:"person_id" validate:"required"`
	// Name renames the person when non-empty.
	Name string `json:"name" validate:"max=100"`
	// CycleColor moves the person to the next palette colour.
	CycleColor bool `json:"cycle_color"`
}

type RemovePersonRequest struct {
	Bill     Bill   `json:"bill" validate:"-"`
	PersonID string `json:"person_id" validate:"required"`
}

type AddItemRequest struct {
	Bill  Bill    `json:"bill" validate:"-"`
	Name  string  `json:"name" validate:"max=200"`
	Price float64 `json:"price" validate:"gte=0"`
}

type UpdateItemRequest struct {
	Bill   Bill     `json:"bill" validate:"-"`
	ItemID string   `json:"item_id" validate:"required"`
	Name   *string  `json:"name" validate:"omitempty,max=200"`
	Price  *float64 `json:"price" validate:"omitempty,gte=0"`
}

type RemoveItemRequest struct {
	Bill   Bill   `json:"bill" validate:"-"`
	ItemID string `json:"item_id" validate:"required"`
}

// SplitResponse is returned by every SplitService procedure.
type SplitResponse struct {
	BillView
	// CreatedID is set by AddPerson and AddItem to the new entity's ID.
	CreatedID string `json:"created_id,omitempty"`
}

// ScanService

type ScanReceiptRequest struct {
	// Image is the raw upload, base64 encoded in JSON.
	Image       []byte `json:"image" validate:"required"`
	ContentType string `json:"content_type"`
}

type ScanReceiptResponse struct {
	Scanned  ScannedBill `json:"scanned"`
	ImageURL string      `json:"image_url"`
	// Draft is an unsaved bill seeded from the scan.
	Draft BillView `json:"draft"`
}
