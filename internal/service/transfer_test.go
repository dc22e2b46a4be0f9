package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/LakshyaDuck/finance-tracker/internal/models"
)

func TestTransferConservesTotal(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	from := testAccount(t, db, user.ID, "Checking", models.AccountTypeCurrent, "100.00")
	to := testAccount(t, db, user.ID, "Savings", models.AccountTypeSavings, "0.00")
	transfers := NewTransfers(db)

	transfer, err := transfers.Execute(user.ID, TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        dec("50.00"),
		Date:          testDate,
		Description:   "rainy day",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := accountBalance(t, db, from.ID); !got.Equal(dec("50.00")) {
		t.Fatalf("from balance = %s, want 50.00", got)
	}
	if got := accountBalance(t, db, to.ID); !got.Equal(dec("50.00")) {
		t.Fatalf("to balance = %s, want 50.00", got)
	}

	var txs []models.Transaction
	if err := db.Where("transfer_id = ?", transfer.ID).Order("type ASC").Find(&txs).Error; err != nil {
		t.Fatalf("load synthetic transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("synthetic transactions = %d, want 2", len(txs))
	}

	out, in := txs[0], txs[1] // expense sorts before income
	if out.Type != models.TransactionTypeExpense || *out.AccountID != from.ID {
		t.Fatalf("outgoing leg = %+v", out)
	}
	if in.Type != models.TransactionTypeIncome || *in.AccountID != to.ID {
		t.Fatalf("incoming leg = %+v", in)
	}
	if out.CategoryID != nil || in.CategoryID != nil {
		t.Fatal("synthetic transactions must not carry a category")
	}
	if out.PersonName != "Savings" || in.PersonName != "Checking" {
		t.Fatalf("person names = %q / %q, want counterpart account names", out.PersonName, in.PersonName)
	}
	if out.Description != "Transfer to Savings - rainy day" {
		t.Fatalf("outgoing description = %q", out.Description)
	}
	if in.Description != "Transfer from Checking - rainy day" {
		t.Fatalf("incoming description = %q", in.Description)
	}
}

func TestTransferPreconditions(t *testing.T) {
	db := testDB(t)
	alice := testUser(t, db, "alice")
	mallory := testUser(t, db, "mallory")
	from := testAccount(t, db, alice.ID, "Checking", models.AccountTypeCurrent, "100.00")
	to := testAccount(t, db, alice.ID, "Savings", models.AccountTypeSavings, "0.00")
	foreign := testAccount(t, db, mallory.ID, "Foreign", models.AccountTypeCurrent, "500.00")
	transfers := NewTransfers(db)

	cases := []struct {
		name    string
		input   TransferInput
		wantErr error
	}{
		{"foreign destination", TransferInput{FromAccountID: from.ID, ToAccountID: foreign.ID, Amount: dec("10"), Date: testDate}, ErrUnauthorized},
		{"foreign source", TransferInput{FromAccountID: foreign.ID, ToAccountID: to.ID, Amount: dec("10"), Date: testDate}, ErrUnauthorized},
		{"same account", TransferInput{FromAccountID: from.ID, ToAccountID: from.ID, Amount: dec("10"), Date: testDate}, ErrValidation},
		{"insufficient balance", TransferInput{FromAccountID: from.ID, ToAccountID: to.ID, Amount: dec("100.01"), Date: testDate}, ErrInsufficientBalance},
		{"zero amount", TransferInput{FromAccountID: from.ID, ToAccountID: to.ID, Amount: dec("0"), Date: testDate}, ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := transfers.Execute(alice.ID, tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	// a rejected transfer must leave nothing behind
	if n := countRows(t, db, &models.Transfer{}, ""); n != 0 {
		t.Fatalf("transfer rows after rejections: %d", n)
	}
	if n := countRows(t, db, &models.Transaction{}, ""); n != 0 {
		t.Fatalf("transaction rows after rejections: %d", n)
	}
	if got := accountBalance(t, db, from.ID); !got.Equal(dec("100.00")) {
		t.Fatalf("from balance moved: %s", got)
	}
	if got := accountBalance(t, db, foreign.ID); !got.Equal(dec("500.00")) {
		t.Fatalf("foreign balance moved: %s", got)
	}
}

func TestDeleteSyntheticLegKeepsAuditRow(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	from := testAccount(t, db, user.ID, "Checking", models.AccountTypeCurrent, "100.00")
	to := testAccount(t, db, user.ID, "Savings", models.AccountTypeSavings, "0.00")
	transfers := NewTransfers(db)
	ledger := NewLedger(db)

	transfer, err := transfers.Execute(user.ID, TransferInput{
		FromAccountID: from.ID, ToAccountID: to.ID,
		Amount: dec("50.00"), Date: testDate,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var out models.Transaction
	if err := db.Where("transfer_id = ? AND type = ?", transfer.ID, models.TransactionTypeExpense).
		First(&out).Error; err != nil {
		t.Fatalf("load outgoing leg: %v", err)
	}
	if err := ledger.Delete(user.ID, out.ID); err != nil {
		t.Fatalf("Delete outgoing leg: %v", err)
	}

	// the expense delta is reversed on the source account only
	if got := accountBalance(t, db, from.ID); !got.Equal(dec("100.00")) {
		t.Fatalf("from balance = %s, want 100.00", got)
	}
	if got := accountBalance(t, db, to.ID); !got.Equal(dec("50.00")) {
		t.Fatalf("to balance = %s, want 50.00", got)
	}
	// the audit row and the other leg stay as they are
	if n := countRows(t, db, &models.Transfer{}, "id = ?", transfer.ID); n != 1 {
		t.Fatalf("transfer audit row count = %d, want 1", n)
	}
	if n := countRows(t, db, &models.Transaction{}, "transfer_id = ?", transfer.ID); n != 1 {
		t.Fatalf("remaining legs = %d, want 1", n)
	}
}

func TestConcurrentTransfersNeverOverdraw(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	from := testAccount(t, db, user.ID, "Checking", models.AccountTypeCurrent, "100.00")
	to := testAccount(t, db, user.ID, "Savings", models.AccountTypeSavings, "0.00")
	transfers := NewTransfers(db)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = transfers.Execute(user.ID, TransferInput{
				FromAccountID: from.ID,
				ToAccountID:   to.ID,
				Amount:        dec("80.00"),
				Date:          testDate,
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		if !errors.Is(err, ErrInsufficientBalance) && !errors.Is(err, ErrConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("successes = %d, want 1", successes)
	}

	fromBal := accountBalance(t, db, from.ID)
	if fromBal.IsNegative() {
		t.Fatalf("source balance went negative: %s", fromBal)
	}
	if !fromBal.Equal(dec("20.00")) {
		t.Fatalf("source balance = %s, want 20.00", fromBal)
	}
	if got := accountBalance(t, db, to.ID); !got.Equal(dec("80.00")) {
		t.Fatalf("destination balance = %s, want 80.00", got)
	}
}

func TestListTransfersNewestFirst(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	from := testAccount(t, db, user.ID, "Checking", models.AccountTypeCurrent, "100.00")
	to := testAccount(t, db, user.ID, "Savings", models.AccountTypeSavings, "0.00")
	transfers := NewTransfers(db)

	for _, day := range []int{1, 3, 2} {
		if _, err := transfers.Execute(user.ID, TransferInput{
			FromAccountID: from.ID, ToAccountID: to.ID,
			Amount: dec("10.00"), Date: testDate.AddDate(0, 0, day),
		}); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	list, err := transfers.List(user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.After(list[i-1].Date) {
			t.Fatalf("transfers out of order at %d: %s before %s", i, list[i-1].Date, list[i].Date)
		}
	}
}
