package repositories

import (
	"canteen-pos/models"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// JournalRepository appends committed transactions to the sales_journal table.
type JournalRepository struct {
	db *pgxpool.Pool
}

func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Append(ctx context.Context, tx models.Transaction) error {
	items, err := json.Marshal(tx.Items)
	if err != nil {
		return fmt.Errorf("marshal items failed: %w", err)
	}

	query := `
		INSERT INTO sales_journal (
			reference, local_id, created_at, branch_id, branch_name, staff_id, staff_name,
			student_id, student_name, payment_method, subtotal, cash_given, change_due,
			amount_deducted, outstanding_after, items
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (reference) DO NOTHING
	`
	_, err = r.db.Exec(ctx, query,
		tx.Reference, tx.ID, tx.CreatedAt, tx.BranchID, tx.BranchName, tx.StaffID, tx.StaffName,
		tx.StudentID, tx.StudentName, string(tx.PaymentMethod),
		tx.Subtotal.StringFixed(2), tx.CashGiven.StringFixed(2), tx.ChangeDue.StringFixed(2),
		tx.AmountDeducted.StringFixed(2), tx.OutstandingAfter.StringFixed(2), items,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry failed: %w", err)
	}
	return nil
}
