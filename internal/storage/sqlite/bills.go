package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

const (
	newBillPrefix = "new-"
	tempIDPrefix  = "temp-"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const billColumns = "id, merchant_name, currency, subtotal, tax, total, image_url, created_at, updated_at"

// ListBills returns all bills with their children, newest first.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+billColumns+" FROM bills ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		bills = append(bills, bill)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	for _, bill := range bills {
		if err := loadChildren(ctx, s.db, bill); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

// GetBill retrieves a bill by ID, including its items, people and assignments.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := scanBill(s.db.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id = ?", billID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, billID)
	}
	if err != nil {
		return nil, err
	}

	if err := loadChildren(ctx, s.db, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// SaveBill inserts or replaces a bill inside a single transaction.
// Items, people and assignments are rewritten from scratch. Assignments
// naming a person who is not on the bill are dropped. The caller's bill only
// receives the issued IDs once the transaction has committed.
func (s *SQLiteStore) SaveBill(ctx context.Context, bill *models.Bill) (string, error) {
	saved := *bill
	saved.People = slices.Clone(bill.People)
	saved.Items = slices.Clone(bill.Items)

	if err := s.saveBill(ctx, &saved); err != nil {
		return "", err
	}
	*bill = saved
	return saved.ID, nil
}

func (s *SQLiteStore) saveBill(ctx context.Context, bill *models.Bill) error {
	ts := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if bill.ID == "" || strings.HasPrefix(bill.ID, newBillPrefix) {
		bill.ID = uuid.New().String()
	}

	var createdAt int64
	err = tx.QueryRowContext(ctx, "SELECT created_at FROM bills WHERE id = ?", bill.ID).Scan(&createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if bill.CreatedAt.IsZero() {
			bill.CreatedAt = ts
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO bills ("+billColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			bill.ID, bill.MerchantName, bill.Currency,
			nullFloat(bill.Subtotal), nullFloat(bill.Tax), nullFloat(bill.Total),
			bill.ImageURL, bill.CreatedAt.UnixMilli(), ts.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up bill: %w", err)
	default:
		bill.CreatedAt = time.UnixMilli(createdAt).UTC()
		_, err = tx.ExecContext(ctx,
			`UPDATE bills SET merchant_name = ?, currency = ?, subtotal = ?, tax = ?, total = ?,
			 image_url = ?, updated_at = ? WHERE id = ?`,
			bill.MerchantName, bill.Currency,
			nullFloat(bill.Subtotal), nullFloat(bill.Tax), nullFloat(bill.Total),
			bill.ImageURL, ts.UnixMilli(), bill.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update bill: %w", err)
		}
		if err := deleteChildren(ctx, tx, bill.ID); err != nil {
			return err
		}
	}
	bill.UpdatedAt = ts

	if err := insertChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteBill removes a bill and everything attached to it.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteChildren(ctx, tx, billID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, billID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ImageInUse reports whether a saved bill points at the uploaded image name,
// whatever base URL the link was stored under.
func (s *SQLiteStore) ImageInUse(ctx context.Context, name string) (bool, error) {
	suffix := "/images/" + name
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bills WHERE substr(image_url, -?) = ?", len(suffix), suffix,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check image usage: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*models.Bill, error) {
	var (
		bill                 models.Bill
		subtotal, tax, total sql.NullFloat64
		createdAt, updatedAt int64
	)
	err := row.Scan(&bill.ID, &bill.MerchantName, &bill.Currency,
		&subtotal, &tax, &total, &bill.ImageURL, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan bill: %w", err)
	}
	bill.Subtotal = floatPtr(subtotal)
	bill.Tax = floatPtr(tax)
	bill.Total = floatPtr(total)
	bill.CreatedAt = time.UnixMilli(createdAt).UTC()
	bill.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	bill.Items = []models.BillItem{}
	bill.People = []models.BillPerson{}
	return &bill, nil
}

// loadChildren fills in people, items and assignments. Each result set is
// drained before the next query runs.
func loadChildren(ctx context.Context, q queryer, bill *models.Bill) error {
	rows, err := q.QueryContext(ctx,
		"SELECT id, name, color FROM bill_people WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get people: %w", err)
	}
	for rows.Next() {
		var p models.BillPerson
		if err := rows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan person: %w", err)
		}
		bill.People = append(bill.People, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate people: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		"SELECT id, name, price FROM bill_items WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	index := map[string]int{}
	for rows.Next() {
		item := models.BillItem{Assignments: []models.ItemAssignment{}}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan item: %w", err)
		}
		index[item.ID] = len(bill.Items)
		bill.Items = append(bill.Items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		`SELECT a.item_id, a.person_id, a.split_percentage
		 FROM item_assignments a JOIN bill_items i ON i.id = a.item_id
		 WHERE i.bill_id = ? ORDER BY i.position, a.position`,
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get item assignments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var itemID string
		var a models.ItemAssignment
		if err := rows.Scan(&itemID, &a.PersonID, &a.SplitPercentage); err != nil {
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		if i, ok := index[itemID]; ok {
			bill.Items[i].Assignments = append(bill.Items[i].Assignments, a)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return nil
}

func deleteChildren(ctx context.Context, tx *sql.Tx, billID string) error {
	stmts := []string{
		"DELETE FROM item_assignments WHERE item_id IN (SELECT id FROM bill_items WHERE bill_id = ?)",
		"DELETE FROM bill_items WHERE bill_id = ?",
		"DELETE FROM bill_people WHERE bill_id = ?",
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, billID); err != nil {
			return fmt.Errorf("failed to clear bill children: %w", err)
		}
	}
	return nil
}

// insertChildren writes people, items and assignments, issuing permanent IDs
// where needed and writing them back into bill.
func insertChildren(ctx context.Context, tx *sql.Tx, bill *models.Bill) error {
	personIDs := make(map[string]string, len(bill.People))
	for i := range bill.People {
		p := &bill.People[i]
		id, err := permanentID(ctx, tx, "bill_people", p.ID)
		if err != nil {
			return err
		}
		personIDs[p.ID] = id
		p.ID = id

		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_people (id, bill_id, position, name, color) VALUES (?, ?, ?, ?, ?)",
			p.ID, bill.ID, i, p.Name, p.Color,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		id, err := permanentID(ctx, tx, "bill_items", item.ID)
		if err != nil {
			return err
		}
		item.ID = id

		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_items (id, bill_id, position, name, price) VALUES (?, ?, ?, ?, ?)",
			item.ID, bill.ID, i, item.Name, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		kept := make([]models.ItemAssignment, 0, len(item.Assignments))
		seen := make(map[string]bool, len(item.Assignments))
		for _, a := range item.Assignments {
			personID, ok := personIDs[a.PersonID]
			if !ok || seen[personID] {
				continue
			}
			seen[personID] = true
			a.PersonID = personID

			_, err = tx.ExecContext(ctx,
				"INSERT INTO item_assignments (item_id, person_id, position, split_percentage) VALUES (?, ?, ?, ?)",
				item.ID, a.PersonID, len(kept), a.SplitPercentage,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
			kept = append(kept, a)
		}
		item.Assignments = kept
	}
	return nil
}

// permanentID keeps id unless it is empty, temporary or already taken by
// another bill. Callers clear the bill's own rows first.
func permanentID(ctx context.Context, tx *sql.Tx, table, id string) (string, error) {
	if id == "" || strings.HasPrefix(id, tempIDPrefix) {
		return uuid.New().String(), nil
	}
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&n); err != nil {
		return "", fmt.Errorf("failed to check %s id: %w", table, err)
	}
	if n > 0 {
		return uuid.New().String(), nil
	}
	return id, nil
}
