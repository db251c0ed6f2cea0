package services

import (
	"canteen-pos/models"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutConfig struct {
	// CashAccountID is the ledger account cash sales are posted against.
	CashAccountID string
	Currency      string
}

// CheckoutService drives one checkout attempt at a time through
// Idle -> AwaitingInput -> Submitting -> Committed | Failed.
type CheckoutService struct {
	state   *State
	ledger  Ledger
	history *HistoryService
	cfg     CheckoutConfig
	logger  *log.Logger
	now     func() time.Time
}

func NewCheckoutService(state *State, ledger Ledger, history *HistoryService, cfg CheckoutConfig, logger *log.Logger) *CheckoutService {
	return &CheckoutService{
		state:   state,
		ledger:  ledger,
		history: history,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// submission is what a payment posts, captured under the state lock.
type submission struct {
	attempt *models.CheckoutAttempt
	session models.Session
	lines   []models.CartLine
	total   decimal.Decimal
}

func (s *CheckoutService) Current() (models.CheckoutAttempt, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, err := s.state.requireSessionLocked(); err != nil {
		return models.CheckoutAttempt{}, err
	}
	a := s.state.checkout
	switch a.State {
	case models.CheckoutIdle, models.CheckoutAwaitingInput, models.CheckoutFailed:
		a.Total = s.state.cart.Total()
	}
	return *a, nil
}

func (s *CheckoutService) Begin(method models.PaymentMethod) (models.CheckoutAttempt, error) {
	if method != models.PaymentCash && method != models.PaymentCard {
		return models.CheckoutAttempt{}, models.NewError(models.ErrValidation, "unknown payment method")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	a, err := s.prepareLocked(method)
	if err != nil {
		return models.CheckoutAttempt{}, err
	}
	return *a, nil
}

// prepareLocked returns the attempt for method in AwaitingInput, starting a
// new one when none is open. A Failed attempt is reopened for retry.
func (s *CheckoutService) prepareLocked(method models.PaymentMethod) (*models.CheckoutAttempt, error) {
	if _, err := s.state.requireSessionLocked(); err != nil {
		return nil, err
	}
	current := s.state.checkout
	if current.InProgress() {
		return nil, models.NewError(models.ErrValidation, "checkout in progress")
	}
	if s.state.cart.IsEmpty() {
		return nil, models.NewError(models.ErrValidation, "cart is empty")
	}

	switch {
	case current.Method == method && (current.State == models.CheckoutAwaitingInput || current.State == models.CheckoutFailed):
		current.State = models.CheckoutAwaitingInput
	default:
		current = &models.CheckoutAttempt{ID: uuid.NewString(), Method: method, State: models.CheckoutAwaitingInput}
		s.state.checkout = current
	}
	current.Total = s.state.cart.Total()
	current.UpdatedAt = s.now()
	return current, nil
}

// PayCash settles the cart with tendered cash. Insufficient or unreadable
// amounts are rejected and leave the cart and the attempt untouched.
func (s *CheckoutService) PayCash(ctx context.Context, tendered string) (models.Transaction, error) {
	s.state.mu.Lock()
	attempt, err := s.prepareLocked(models.PaymentCash)
	if err != nil {
		s.state.mu.Unlock()
		return models.Transaction{}, err
	}

	total := attempt.Total
	cash, parseErr := decimal.NewFromString(strings.TrimSpace(tendered))
	if parseErr != nil || cash.LessThan(total) {
		msg := "insufficient cash: cash received must be equal to or greater than the total"
		attempt.LastError = msg
		s.state.mu.Unlock()
		return models.Transaction{}, models.NewError(models.ErrValidation, msg)
	}
	sub := s.submitLocked(attempt)
	s.state.mu.Unlock()

	change := cash.Sub(sub.total)
	posting := models.LedgerPosting{
		BarcodeValue: s.cfg.CashAccountID,
		Amount:       sub.total,
		Note:         "Cash Purchase:\n" + s.note(sub.lines),
		Lines:        ledgerLines(sub.lines),
	}
	if err := s.ledger.PostTransaction(ctx, posting); err != nil {
		s.fail(attempt, err)
		return models.Transaction{}, err
	}

	tx := s.transaction(sub, models.PaymentCash)
	tx.CashGiven = cash
	tx.ChangeDue = change
	return s.commit(attempt, tx), nil
}

// LookupStudent fetches the balance behind a card. A failed lookup fails the
// attempt before anything is charged.
func (s *CheckoutService) LookupStudent(ctx context.Context, cardID string) (models.Student, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return models.Student{}, models.NewError(models.ErrValidation, "card ID is required")
	}

	s.state.mu.Lock()
	attempt, err := s.prepareLocked(models.PaymentCard)
	if err != nil {
		s.state.mu.Unlock()
		return models.Student{}, err
	}
	attempt.Student = nil
	s.state.mu.Unlock()

	balance, err := s.ledger.StudentBalance(ctx, cardID)
	if err != nil {
		s.fail(attempt, err)
		return models.Student{}, err
	}

	student := models.Student{
		CardID:  cardID,
		Name:    fmt.Sprintf("Student %s", cardID),
		Balance: balance,
	}

	s.state.mu.Lock()
	if s.state.checkout == attempt {
		attempt.Student = &student
		attempt.UpdatedAt = s.now()
	}
	s.state.mu.Unlock()
	return student, nil
}

// PayCard charges the cart total to a student card. The balance is looked up
// first; it is not required to cover the charge.
func (s *CheckoutService) PayCard(ctx context.Context, cardID string) (models.Transaction, error) {
	student, err := s.LookupStudent(ctx, cardID)
	if err != nil {
		return models.Transaction{}, err
	}

	s.state.mu.Lock()
	attempt, err := s.prepareLocked(models.PaymentCard)
	if err != nil {
		s.state.mu.Unlock()
		return models.Transaction{}, err
	}
	attempt.Student = &student
	sub := s.submitLocked(attempt)
	s.state.mu.Unlock()

	posting := models.LedgerPosting{
		BarcodeValue: student.CardID,
		Amount:       sub.total,
		Note:         "Canteen snacks:\n" + s.note(sub.lines),
		Lines:        ledgerLines(sub.lines),
	}
	if err := s.ledger.PostTransaction(ctx, posting); err != nil {
		s.fail(attempt, err)
		return models.Transaction{}, err
	}

	tx := s.transaction(sub, models.PaymentCard)
	tx.StudentID = &student.CardID
	tx.StudentName = &student.Name
	balance := student.Balance
	tx.BalanceBefore = &balance
	return s.commit(attempt, tx), nil
}

// Cancel abandons the open attempt. The cart is kept.
func (s *CheckoutService) Cancel() error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.state.checkout.InProgress() {
		return models.NewError(models.ErrValidation, "checkout in progress")
	}
	s.state.checkout = &models.CheckoutAttempt{State: models.CheckoutIdle}
	return nil
}

func (s *CheckoutService) submitLocked(attempt *models.CheckoutAttempt) submission {
	attempt.State = models.CheckoutSubmitting
	attempt.LastError = ""
	attempt.UpdatedAt = s.now()
	return submission{
		attempt: attempt,
		session: *s.state.session,
		lines:   s.state.cart.Lines(),
		total:   attempt.Total,
	}
}

func (s *CheckoutService) transaction(sub submission, method models.PaymentMethod) models.Transaction {
	return models.Transaction{
		BranchID:         sub.session.BranchID,
		BranchName:       sub.session.BranchName,
		StaffID:          sub.session.StaffID,
		StaffName:        sub.session.StaffName,
		Items:            models.TransactionItems(sub.lines),
		Subtotal:         sub.total,
		PaymentMethod:    method,
		CashGiven:        decimal.Zero,
		ChangeDue:        decimal.Zero,
		AmountDeducted:   sub.total,
		OutstandingAfter: decimal.Zero,
	}
}

func (s *CheckoutService) commit(attempt *models.CheckoutAttempt, tx models.Transaction) models.Transaction {
	recorded := s.history.Record(tx)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.state.cart.Clear()
	attempt.State = models.CheckoutCommitted
	attempt.Transaction = &recorded
	attempt.UpdatedAt = s.now()
	s.logger.Printf("transaction %d committed: %s %s", recorded.ID, recorded.PaymentMethod, recorded.Subtotal.StringFixed(2))
	return recorded
}

func (s *CheckoutService) fail(attempt *models.CheckoutAttempt, err error) {
	s.logger.Printf("checkout %s failed: %v", attempt.ID, err)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	attempt.State = models.CheckoutFailed
	attempt.LastError = models.Message(err)
	attempt.UpdatedAt = s.now()
}

// note renders one "<name> x<qty> @ <currency><price>" line per cart line.
func (s *CheckoutService) note(lines []models.CartLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s x%d @ %s%s", l.Name, l.Quantity, s.cfg.Currency, l.Price.StringFixed(2)))
	}
	return strings.Join(parts, "\n")
}

func ledgerLines(lines []models.CartLine) []models.LedgerLine {
	out := make([]models.LedgerLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.LedgerLine{ProductID: l.ProductID, Quantity: l.Quantity, Price: l.Price})
	}
	return out
}
