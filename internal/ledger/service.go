package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aastha-raghuvanshi/welth/internal/models"
	"github.com/aastha-raghuvanshi/welth/internal/util"

	"gorm.io/gorm"
)

// Service owns transaction records and the account balances derived from
// them. All mutations run inside a single database transaction: the record
// write and the balance adjustment either both persist or neither does.
// Balance adjustments are storage-level increments, never read-then-write,
// so concurrent writers on the same account cannot lose updates.
type Service struct {
	db  *gorm.DB
	inv Invalidator
}

// New constructs the service around an injected connection pool.
func New(db *gorm.DB, inv Invalidator) *Service {
	return &Service{db: db, inv: inv}
}

// TransactionInput carries the mutable fields of a transaction. AmountCent is
// always positive; Type applies the sign.
type TransactionInput struct {
	AccountID         uint
	Type              string
	AmountCent        int64
	Date              time.Time
	Category          string
	Description       string
	IsRecurring       bool
	RecurringInterval string
}

func validateInput(in TransactionInput) error {
	if in.AccountID == 0 {
		return fmt.Errorf("%w: account is required", ErrValidation)
	}
	if err := util.ValidateTransactionType(in.Type); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := util.ValidateAmountCents(in.AmountCent); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := util.ValidateCategory(in.Category); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if in.IsRecurring {
		if err := util.ValidateRecurringInterval(in.RecurringInterval); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return nil
}

// nextDate computes the stored next-recurrence pointer: set iff recurring.
func nextDate(in TransactionInput) *time.Time {
	if !in.IsRecurring || in.RecurringInterval == "" {
		return nil
	}
	d := NextRecurringDate(in.Date, in.RecurringInterval)
	return &d
}

// CreateTransaction inserts a transaction for one of the user's accounts and
// applies its signed amount to that account's balance.
func (s *Service) CreateTransaction(ctx context.Context, userID uint, in TransactionInput) (*models.Transaction, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	txn := models.Transaction{
		UserID:            userID,
		AccountID:         in.AccountID,
		Type:              in.Type,
		AmountCent:        in.AmountCent,
		Date:              in.Date,
		Category:          in.Category,
		Description:       in.Description,
		IsRecurring:       in.IsRecurring,
		RecurringInterval: in.RecurringInterval,
		NextRecurringDate: nextDate(in),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.Where("id = ? AND user_id = ?", in.AccountID, userID).
			First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load account: %w", err)
		}

		if err := tx.Create(&txn).Error; err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		return applyBalanceDelta(tx, in.AccountID, userID, txn.SignedCents())
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(txn.AccountID)
	return &txn, nil
}

// UpdateTransaction full-replaces the mutable fields of an owned transaction
// and adjusts balances by the net signed difference. Moving the transaction
// to another owned account removes the old contribution from the previous
// account and applies the new one to the target.
func (s *Service) UpdateTransaction(ctx context.Context, userID, txnID uint, in TransactionInput) (*models.Transaction, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var updated models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", txnID, userID).
			First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load transaction: %w", err)
		}

		oldAccountID := txn.AccountID
		oldSigned := txn.SignedCents()

		txn.AccountID = in.AccountID
		txn.Type = in.Type
		txn.AmountCent = in.AmountCent
		txn.Date = in.Date
		txn.Category = in.Category
		txn.Description = in.Description
		txn.IsRecurring = in.IsRecurring
		txn.RecurringInterval = in.RecurringInterval
		txn.NextRecurringDate = nextDate(in)

		if err := tx.Save(&txn).Error; err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}

		updated = txn

		newSigned := txn.SignedCents()
		if in.AccountID == oldAccountID {
			return applyBalanceDelta(tx, oldAccountID, userID, newSigned-oldSigned)
		}
		if err := applyBalanceDelta(tx, oldAccountID, userID, -oldSigned); err != nil {
			return err
		}
		return applyBalanceDelta(tx, in.AccountID, userID, newSigned)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(updated.AccountID)
	return &updated, nil
}

// GetTransaction returns an owned transaction by id.
func (s *Service) GetTransaction(ctx context.Context, userID, txnID uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", txnID, userID).
		First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load transaction: %w", err)
	}
	return &txn, nil
}

// Filter narrows ListTransactions. Zero values mean "no constraint".
type Filter struct {
	AccountID   uint
	Type        string
	Category    string
	IsRecurring *bool
	From        time.Time
	To          time.Time // exclusive
}

// ListTransactions returns the user's transactions matching the filter,
// related account attached, newest first (date DESC, id DESC for ties).
func (s *Service) ListTransactions(ctx context.Context, userID uint, f Filter) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).
		Preload("Account").
		Where("user_id = ?", userID)

	if f.AccountID != 0 {
		q = q.Where("account_id = ?", f.AccountID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.IsRecurring != nil {
		q = q.Where("is_recurring = ?", *f.IsRecurring)
	}
	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("date < ?", f.To)
	}

	var txns []models.Transaction
	if err := q.Order("date DESC, id DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// applyBalanceDelta increments an owned account's balance at the storage
// level. RowsAffected == 0 means the account is absent or not owned; inside
// a transaction closure that error rolls back everything written so far.
func applyBalanceDelta(tx *gorm.DB, accountID, userID uint, deltaCent int64) error {
	res := tx.Model(&models.Account{}).
		Where("id = ? AND user_id = ?", accountID, userID).
		Update("balance_cent", gorm.Expr("balance_cent + ?", deltaCent))
	if res.Error != nil {
		return fmt.Errorf("update balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) invalidate(accountID uint) {
	if s.inv == nil {
		return
	}
	s.inv.Invalidate(DashboardKey, AccountKey(accountID))
}
