// Package models defines the core domain models for receiptsplit.
//
// # Models
//
//   - Bill: a receipt being split, with its line items, people and tax
//   - BillItem: one line item and the fractional claims people hold on it
//   - ItemAssignment: a (person, percentage) pair on one item
//   - BillPerson: someone taking part in the split
//   - PersonSummary: calculated result for one person (never stored)
//   - ScannedBill: best-effort extraction returned by the receipt scanner
//
// # Design Principles
//
// 1. **Plain values**: models carry no behaviour; calculations live in the
// calculator package and bill editing in the editor package.
// 2. **IDs, not pointers**: assignments reference people by ID so a bill can be
// copied, serialised and persisted without fixing up pointers.
// 3. **Nullable money**: Subtotal, Tax and Total are pointers because a scanned
// receipt may not show them. Only Tax feeds the split.
package models
