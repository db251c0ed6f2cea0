package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

type Student struct {
	CardID  string          `json:"card_id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type TransactionItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Transaction is the immutable record of a committed checkout.
type Transaction struct {
	ID               int64             `json:"id"`
	Reference        string            `json:"reference"`
	CreatedAt        time.Time         `json:"created_at"`
	BranchID         int64             `json:"branch_id"`
	BranchName       string            `json:"branch_name"`
	StaffID          string            `json:"staff_id"`
	StaffName        string            `json:"staff_name"`
	StudentID        *string           `json:"student_id"`
	StudentName      *string           `json:"student_name"`
	Items            []TransactionItem `json:"items"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	PaymentMethod    PaymentMethod     `json:"payment_method"`
	CashGiven        decimal.Decimal   `json:"cash_given"`
	ChangeDue        decimal.Decimal   `json:"change_due"`
	AmountDeducted   decimal.Decimal   `json:"amount_deducted"`
	OutstandingAfter decimal.Decimal   `json:"outstanding_after"`
	BalanceBefore    *decimal.Decimal  `json:"balance_before,omitempty"`
}

func TransactionItems(lines []CartLine) []TransactionItem {
	items := make([]TransactionItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, TransactionItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
			LineTotal: l.LineTotal(),
		})
	}
	return items
}

// LedgerLine and LedgerPosting mirror the body of POST /student-transactions.
type LedgerLine struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type LedgerPosting struct {
	BarcodeValue string          `json:"barcodeValue"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
	Lines        []LedgerLine    `json:"lines"`
}
