package services

import (
	"canteen-pos/models"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayCash_InsufficientKeepsCart(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)

	_, err := tm.checkout.PayCash(context.Background(), "10.00")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Contains(t, models.Message(err), "insufficient cash")

	attempt, err := tm.checkout.Current()
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutAwaitingInput, attempt.State)
	assert.NotEmpty(t, attempt.LastError)

	view, _ := tm.cart.View()
	assert.Len(t, view.Lines, 2)
	assert.Empty(t, tm.ledger.postings)
	assert.Empty(t, tm.history.List())
}

func TestPayCash_Unparseable(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)

	_, err := tm.checkout.PayCash(context.Background(), "twenty")
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Empty(t, tm.ledger.postings)
}

func TestPayCash_ExactAmount(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)

	tx, err := tm.checkout.PayCash(context.Background(), "12.50")
	require.NoError(t, err)
	assert.True(t, tx.ChangeDue.IsZero())
	assert.True(t, dec("12.50").Equal(tx.CashGiven))
}

func TestPayCash_Commits(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)

	tx, err := tm.checkout.PayCash(context.Background(), "20")
	require.NoError(t, err)

	assert.Equal(t, int64(1), tx.ID)
	assert.NotEmpty(t, tx.Reference)
	assert.Equal(t, models.PaymentCash, tx.PaymentMethod)
	assert.True(t, dec("12.50").Equal(tx.Subtotal))
	assert.True(t, dec("7.50").Equal(tx.ChangeDue))
	assert.True(t, dec("12.50").Equal(tx.AmountDeducted))
	assert.True(t, tx.OutstandingAfter.IsZero())
	assert.Nil(t, tx.StudentID)
	assert.Nil(t, tx.StudentName)
	assert.Nil(t, tx.BalanceBefore)
	assert.Equal(t, "42", tx.StaffID)
	assert.Equal(t, int64(12), tx.BranchID)
	require.Len(t, tx.Items, 2)
	assert.True(t, dec("10.00").Equal(tx.Items[0].LineTotal))

	require.Len(t, tm.ledger.postings, 1)
	posting := tm.ledger.postings[0]
	assert.Equal(t, "cashcashcash", posting.BarcodeValue)
	assert.True(t, dec("12.50").Equal(posting.Amount))
	assert.Equal(t, "Cash Purchase:\nSandwich x2 @ QR 5.00\nJuice x1 @ QR 2.50", posting.Note)
	assert.Len(t, posting.Lines, 2)

	view, _ := tm.cart.View()
	assert.Empty(t, view.Lines)
	assert.Len(t, tm.history.List(), 1)

	attempt, err := tm.checkout.Current()
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutCommitted, attempt.State)
	require.NotNil(t, attempt.Transaction)
	assert.Equal(t, tx.ID, attempt.Transaction.ID)
}

func TestPayCash_PostFailureKeepsCart(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)
	tm.ledger.postErr = models.NewError(models.ErrNetwork, "failed to record transaction on the server")

	_, err := tm.checkout.PayCash(context.Background(), "20")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNetwork))

	attempt, err := tm.checkout.Current()
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutFailed, attempt.State)
	assert.Equal(t, "failed to record transaction on the server", attempt.LastError)

	view, _ := tm.cart.View()
	assert.Len(t, view.Lines, 2)
	assert.Empty(t, tm.history.List())

	// A retry after the ledger recovers reuses the attempt.
	tm.ledger.postErr = nil
	tx, err := tm.checkout.PayCash(context.Background(), "20")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tx.ID)
	assert.Len(t, tm.history.List(), 1)
}

func TestPayCard_Commits(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)

	tx, err := tm.checkout.PayCard(context.Background(), "CARD-1")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentCard, tx.PaymentMethod)
	require.NotNil(t, tx.StudentID)
	assert.Equal(t, "CARD-1", *tx.StudentID)
	require.NotNil(t, tx.StudentName)
	assert.Equal(t, "Student CARD-1", *tx.StudentName)
	require.NotNil(t, tx.BalanceBefore)
	assert.True(t, dec("20.00").Equal(*tx.BalanceBefore))
	assert.True(t, dec("12.50").Equal(tx.AmountDeducted))
	assert.True(t, tx.CashGiven.IsZero())

	require.Len(t, tm.ledger.postings, 1)
	posting := tm.ledger.postings[0]
	assert.Equal(t, "CARD-1", posting.BarcodeValue)
	assert.Equal(t, "Canteen snacks:\nSandwich x2 @ QR 5.00\nJuice x1 @ QR 2.50", posting.Note)

	view, _ := tm.cart.View()
	assert.Empty(t, view.Lines)
}

func TestPayCard_LookupFailureDoesNotCharge(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)

	_, err := tm.checkout.PayCard(context.Background(), "UNKNOWN")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.Empty(t, tm.ledger.postings)

	attempt, err := tm.checkout.Current()
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutFailed, attempt.State)

	view, _ := tm.cart.View()
	assert.Len(t, view.Lines, 2)
}

func TestPayCard_BlankCard(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)

	_, err := tm.checkout.PayCard(context.Background(), "  ")
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Equal(t, 0, tm.ledger.balanceCalls)
}

func TestLookupStudent(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)

	student, err := tm.checkout.LookupStudent(context.Background(), "CARD-1")
	require.NoError(t, err)
	assert.True(t, dec("20.00").Equal(student.Balance))

	attempt, err := tm.checkout.Current()
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCard, attempt.Method)
	require.NotNil(t, attempt.Student)
	assert.Equal(t, "CARD-1", attempt.Student.CardID)
}

func TestBegin_EmptyCart(t *testing.T) {
	tm := loggedIn(t)

	_, err := tm.checkout.Begin(models.PaymentCash)
	require.Error(t, err)
	assert.Equal(t, "cart is empty", models.Message(err))

	_, err = tm.checkout.PayCash(context.Background(), "5")
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestBegin_SwitchMethodStartsNewAttempt(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)

	cash, err := tm.checkout.Begin(models.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutAwaitingInput, cash.State)
	assert.True(t, dec("12.50").Equal(cash.Total))

	again, err := tm.checkout.Begin(models.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, cash.ID, again.ID)

	card, err := tm.checkout.Begin(models.PaymentCard)
	require.NoError(t, err)
	assert.NotEqual(t, cash.ID, card.ID)

	_, err = tm.checkout.Begin("VOUCHER")
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestCancel_KeepsCart(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)
	_, err := tm.checkout.Begin(models.PaymentCash)
	require.NoError(t, err)

	require.NoError(t, tm.checkout.Cancel())

	attempt, err := tm.checkout.Current()
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutIdle, attempt.State)
	view, _ := tm.cart.View()
	assert.Len(t, view.Lines, 2)
}

func TestCheckout_TotalFollowsCart(t *testing.T) {
	tm := loggedIn(t)
	fillCart(t, tm)
	_, err := tm.checkout.Begin(models.PaymentCash)
	require.NoError(t, err)

	_, err = tm.cart.RemoveItem(sandwich.ID)
	require.NoError(t, err)

	attempt, err := tm.checkout.Current()
	require.NoError(t, err)
	assert.True(t, dec("2.50").Equal(attempt.Total))
}
