package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aastha-raghuvanshi/welth/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// one shared in-memory database per test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Account{}, &models.Transaction{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return New(db, nil), db
}

func seedUserAccount(t *testing.T, db *gorm.DB, username string, balanceCent int64) (*models.User, *models.Account) {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	account := &models.Account{
		UserID:      user.ID,
		Name:        username + "-checking",
		Type:        models.AccountTypeCurrent,
		BalanceCent: balanceCent,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return user, account
}

func accountBalance(t *testing.T, db *gorm.DB, accountID uint) int64 {
	t.Helper()
	var account models.Account
	if err := db.First(&account, accountID).Error; err != nil {
		t.Fatalf("load account: %v", err)
	}
	return account.BalanceCent
}

func validInput(accountID uint) TransactionInput {
	return TransactionInput{
		AccountID:  accountID,
		Type:       models.TransactionTypeExpense,
		AmountCent: 3000,
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:   "groceries",
	}
}

func TestCreateTransaction_ExpenseReducesBalance(t *testing.T) {
	svc, db := newTestService(t)
	user, account := seedUserAccount(t, db, "alice", 10000) // 100.00

	in := validInput(account.ID) // EXPENSE 30.00
	txn, err := svc.CreateTransaction(context.Background(), user.ID, in)
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}

	if txn.AmountCent != 3000 || txn.Type != models.TransactionTypeExpense {
		t.Errorf("stored txn = %s %d, want EXPENSE 3000", txn.Type, txn.AmountCent)
	}
	if got := accountBalance(t, db, account.ID); got != 7000 {
		t.Errorf("balance = %d, want 7000", got)
	}
}

func TestCreateTransaction_IncomeIncreasesBalance(t *testing.T) {
	svc, db := newTestService(t)
	user, account := seedUserAccount(t, db, "alice", 10000)

	in := validInput(account.ID)
	in.Type = models.TransactionTypeIncome
	in.AmountCent = 5000
	in.Category = "salary"

	if _, err := svc.CreateTransaction(context.Background(), user.ID, in); err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}
	if got := accountBalance(t, db, account.ID); got != 15000 {
		t.Errorf("balance = %d, want 15000", got)
	}
}

func TestCreateTransaction_RecurringSetsNextDate(t *testing.T) {
	svc, db := newTestService(t)
	user, account := seedUserAccount(t, db, "alice", 0)

	in := validInput(account.ID)
	in.Type = models.TransactionTypeIncome
	in.IsRecurring = true
	in.RecurringInterval = models.IntervalWeekly

	txn, err := svc.CreateTransaction(context.Background(), user.ID, in)
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}
	if txn.NextRecurringDate == nil {
		t.Fatal("NextRecurringDate = nil, want set")
	}
	want := time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)
	if !txn.NextRecurringDate.Equal(want) {
		t.Errorf("NextRecurringDate = %v, want %v", txn.NextRecurringDate, want)
	}
}

func TestCreateTransaction_NonRecurringHasNoNextDate(t *testing.T) {
	svc, db := newTestService(t)
	user, account := seedUserAccount(t, db, "alice", 0)

	txn, err := svc.CreateTransaction(context.Background(), user.ID, validInput(account.ID))
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}
	if txn.NextRecurringDate != nil {
		t.Errorf("NextRecurringDate = %v, want nil", txn.NextRecurringDate)
	}
}

func TestCreateTransaction_OtherUsersAccount(t *testing.T) {
	svc, db := newTestService(t)
	_, accountB := seedUserAccount(t, db, "bob", 10000)
	userA, _ := seedUserAccount(t, db, "alice", 0)

	_, err := svc.CreateTransaction(context.Background(), userA.ID, validInput(accountB.ID))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("CreateTransaction() error = %v, want ErrNotFound", err)
	}

	// nothing persisted, balance untouched
	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("transaction count = %d, want 0", count)
	}
	if got := accountBalance(t, db, accountB.ID); got != 10000 {
		t.Errorf("balance = %d, want 10000", got)
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	svc, db := newTestService(t)
	user, account := seedUserAccount(t, db, "alice", 0)

	cases := []struct {
		name   string
		mutate func(*TransactionInput)
	}{
		{"zero amount", func(in *TransactionInput) { in.AmountCent = 0 }},
		{"negative amount", func(in *TransactionInput) { in.AmountCent = -100 }},
		{"unknown type", func(in *TransactionInput) { in.Type = "TRANSFER" }},
		{"empty category", func(in *TransactionInput) { in.Category = "" }},
		{"zero date", func(in *TransactionInput) { in.Date = time.Time{} }},
		{"missing account", func(in *TransactionInput) { in.AccountID = 0 }},
		{"recurring without interval", func(in *TransactionInput) { in.IsRecurring = true }},
		{"recurring unknown interval", func(in *TransactionInput) {
			in.IsRecurring = true
			in.RecurringInterval = "HOURLY"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput(account.ID)
			tc.mutate(&in)
			_, err := svc.CreateTransaction(context.Background(), user.ID, in)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("CreateTransaction() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpdateTransaction_AppliesNetChange(t *testing.T) {
	svc, db := newTestService(t)
	// income 50.00 already applied: balance 150.00
	user, account := seedUserAccount(t, db, "alice", 10000)

	in := validInput(account.ID)
	in.Type = models.TransactionTypeIncome
	in.AmountCent = 5000
	in.Category = "salary"
	txn, err := svc.CreateTransaction(context.Background(), user.ID, in)
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}
	if got := accountBalance(t, db, account.ID); got != 15000 {
		t.Fatalf("balance after create = %d, want 15000", got)
	}

	// update to expense 20.00: net = -2000 - 5000 = -7000
	in.Type = models.TransactionTypeExpense
	in.AmountCent = 2000
	updated, err := svc.UpdateTransaction(context.Background(), user.ID, txn.ID, in)
	if err != nil {
		t.Fatalf("UpdateTransaction() error = %v, want nil", err)
	}

	if updated.Type != models.TransactionTypeExpense || updated.AmountCent != 2000 {
		t.Errorf("updated txn = %s %d, want EXPENSE 2000", updated.Type, updated.AmountCent)
	}
	if got := accountBalance(t, db, account.ID); got != 8000 {
		t.Errorf("balance = %d, want 8000", got)
	}
}

func TestUpdateTransaction_MoveBetweenAccounts(t *testing.T) {
	svc, db := newTestService(t)
	user, accountA := seedUserAccount(t, db, "alice", 10000)
	accountB := &models.Account{UserID: user.ID, Name: "savings", Type: models.AccountTypeSavings, BalanceCent: 500}
	if err := db.Create(accountB).Error; err != nil {
		t.Fatalf("seed second account: %v", err)
	}

	txn, err := svc.CreateTransaction(context.Background(), user.ID, validInput(accountA.ID)) // EXPENSE 3000
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}

	in := validInput(accountB.ID)
	in.AmountCent = 1000
	if _, err := svc.UpdateTransaction(context.Background(), user.ID, txn.ID, in); err != nil {
		t.Fatalf("UpdateTransaction() error = %v, want nil", err)
	}

	// old account gets its 30.00 back, new account pays 10.00
	if got := accountBalance(t, db, accountA.ID); got != 10000 {
		t.Errorf("account A balance = %d, want 10000", got)
	}
	if got := accountBalance(t, db, accountB.ID); got != -500 {
		t.Errorf("account B balance = %d, want -500", got)
	}
}

func TestUpdateTransaction_NotOwned(t *testing.T) {
	svc, db := newTestService(t)
	userB, accountB := seedUserAccount(t, db, "bob", 10000)
	userA, accountA := seedUserAccount(t, db, "alice", 0)

	txn, err := svc.CreateTransaction(context.Background(), userB.ID, validInput(accountB.ID))
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}

	_, err = svc.UpdateTransaction(context.Background(), userA.ID, txn.ID, validInput(accountA.ID))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTransaction() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateTransaction_RollsBackOnBadTargetAccount(t *testing.T) {
	svc, db := newTestService(t)
	user, account := seedUserAccount(t, db, "alice", 10000)

	in := validInput(account.ID)
	in.Type = models.TransactionTypeIncome
	in.AmountCent = 5000
	in.Category = "salary"
	txn, err := svc.CreateTransaction(context.Background(), user.ID, in)
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}

	// target account does not exist: the balance step fails after the record
	// update, and the whole transaction must roll back
	in.AccountID = 99999
	in.Type = models.TransactionTypeExpense
	in.AmountCent = 2000
	if _, err := svc.UpdateTransaction(context.Background(), user.ID, txn.ID, in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateTransaction() error = %v, want ErrNotFound", err)
	}

	var reloaded models.Transaction
	if err := db.First(&reloaded, txn.ID).Error; err != nil {
		t.Fatalf("reload txn: %v", err)
	}
	if reloaded.Type != models.TransactionTypeIncome || reloaded.AmountCent != 5000 || reloaded.AccountID != account.ID {
		t.Errorf("txn after failed update = %s %d on account %d, want INCOME 5000 on %d",
			reloaded.Type, reloaded.AmountCent, reloaded.AccountID, account.ID)
	}
	if got := accountBalance(t, db, account.ID); got != 15000 {
		t.Errorf("balance = %d, want 15000 (unchanged)", got)
	}
}

func TestGetTransaction_Idempotent(t *testing.T) {
	svc, db := newTestService(t)
	user, account := seedUserAccount(t, db, "alice", 10000)

	created, err := svc.CreateTransaction(context.Background(), user.ID, validInput(account.ID))
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}

	first, err := svc.GetTransaction(context.Background(), user.ID, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v, want nil", err)
	}
	second, err := svc.GetTransaction(context.Background(), user.ID, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v, want nil", err)
	}

	if first.ID != second.ID || first.AmountCent != second.AmountCent ||
		first.Type != second.Type || !first.Date.Equal(second.Date) {
		t.Errorf("repeated reads differ: %+v vs %+v", first, second)
	}
}

func TestGetTransaction_OwnershipIsolation(t *testing.T) {
	svc, db := newTestService(t)
	userB, accountB := seedUserAccount(t, db, "bob", 10000)
	userA, _ := seedUserAccount(t, db, "alice", 0)

	txn, err := svc.CreateTransaction(context.Background(), userB.ID, validInput(accountB.ID))
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}

	if _, err := svc.GetTransaction(context.Background(), userA.ID, txn.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTransaction() error = %v, want ErrNotFound", err)
	}
}

func TestListTransactions_NewestFirstWithAccount(t *testing.T) {
	svc, db := newTestService(t)
	user, account := seedUserAccount(t, db, "alice", 100000)

	dates := []time.Time{
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		in := validInput(account.ID)
		in.Date = d
		if _, err := svc.CreateTransaction(context.Background(), user.ID, in); err != nil {
			t.Fatalf("CreateTransaction() error = %v, want nil", err)
		}
	}

	txns, err := svc.ListTransactions(context.Background(), user.ID, Filter{})
	if err != nil {
		t.Fatalf("ListTransactions() error = %v, want nil", err)
	}
	if len(txns) != 3 {
		t.Fatalf("len = %d, want 3", len(txns))
	}
	for i := 1; i < len(txns); i++ {
		if txns[i].Date.After(txns[i-1].Date) {
			t.Errorf("transactions not in date-descending order: %v before %v", txns[i-1].Date, txns[i].Date)
		}
	}
	if txns[0].Account.ID != account.ID {
		t.Errorf("related account not loaded, got id %d", txns[0].Account.ID)
	}
}

func TestListTransactions_Filter(t *testing.T) {
	svc, db := newTestService(t)
	user, account := seedUserAccount(t, db, "alice", 100000)

	income := validInput(account.ID)
	income.Type = models.TransactionTypeIncome
	income.Category = "salary"
	if _, err := svc.CreateTransaction(context.Background(), user.ID, income); err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}
	if _, err := svc.CreateTransaction(context.Background(), user.ID, validInput(account.ID)); err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil", err)
	}

	txns, err := svc.ListTransactions(context.Background(), user.ID, Filter{Type: models.TransactionTypeIncome})
	if err != nil {
		t.Fatalf("ListTransactions() error = %v, want nil", err)
	}
	if len(txns) != 1 || txns[0].Type != models.TransactionTypeIncome {
		t.Errorf("filtered list = %d items, want exactly the income transaction", len(txns))
	}

	// filters never leak other users' data
	userB, _ := seedUserAccount(t, db, "bob", 0)
	txns, err = svc.ListTransactions(context.Background(), userB.ID, Filter{})
	if err != nil {
		t.Fatalf("ListTransactions() error = %v, want nil", err)
	}
	if len(txns) != 0 {
		t.Errorf("other user sees %d transactions, want 0", len(txns))
	}
}
