package services

import (
	"errors"
	"fmt"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"
	"github.com/squarepicks/squares-backend/utils/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultCurrency = "USD"

// applyLedger records one completed transaction and moves the cached balance
// by the same signed amount, inside the caller's DB transaction. The ledger
// row is created first so a reused Reference fails on the unique index before
// any balance movement; debits are guarded by a conditional update so the
// balance can never go negative.
func applyLedger(tx *gorm.DB, t *models.Transaction) error {
	if t.Reference == "" {
		t.Reference = uuid.NewString()
	}
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	t.Status = models.TransactionCompleted

	if err := tx.Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTransaction
		}
		return err
	}

	if t.Amount.IsNegative() {
		res := tx.Model(&models.User{}).
			Where("id = ? AND balance >= ?", t.UserID, t.Amount.Neg()).
			Update("balance", gorm.Expr("balance + ?", t.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", t.UserID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrUserNotFound
			}
			return ErrInsufficientFunds
		}
		return nil
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", t.UserID).
		Update("balance", gorm.Expr("balance + ?", t.Amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Deposit credits a user's wallet and appends a deposit transaction.
func Deposit(userID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("deposit amount must be positive")
	}

	t := &models.Transaction{
		UserID:      userID,
		Type:        models.DepositTransaction,
		Amount:      amount,
		Description: fmt.Sprintf("Deposit of %s %s", amount.StringFixed(2), DefaultCurrency),
	}
	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return applyLedger(tx, t)
	}); err != nil {
		return nil, err
	}

	Notify(userID, models.NotifyDeposit, "Deposit received",
		fmt.Sprintf("$%s has been added to your wallet.", amount.StringFixed(2)), nil)
	return t, nil
}

// Withdraw debits a user's wallet and appends a withdrawal transaction.
func Withdraw(userID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("withdrawal amount must be positive")
	}

	t := &models.Transaction{
		UserID:      userID,
		Type:        models.WithdrawalTransaction,
		Amount:      amount.Neg(),
		Description: fmt.Sprintf("Withdrawal of %s %s", amount.StringFixed(2), DefaultCurrency),
	}
	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return applyLedger(tx, t)
	}); err != nil {
		return nil, err
	}

	Notify(userID, models.NotifyWithdrawal, "Withdrawal processed",
		fmt.Sprintf("$%s has been withdrawn from your wallet.", amount.StringFixed(2)), nil)
	return t, nil
}

// LedgerBalance recomputes a user's balance from their completed transactions.
// The cached User.Balance is a projection of this sum; the two must agree.
func LedgerBalance(userID uint) (decimal.Decimal, error) {
	var txs []models.Transaction
	if err := config.DB.
		Where("user_id = ? AND status = ?", userID, models.TransactionCompleted).
		Find(&txs).Error; err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, t := range txs {
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

// ReconcileWallet logs a mismatch between the cached balance and the ledger
// sum. Duplication or drift here is a data-integrity condition for manual
// review, never auto-corrected.
func ReconcileWallet(userID uint) (bool, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	sum, err := LedgerBalance(userID)
	if err != nil {
		return false, err
	}

	if !user.Balance.Equal(sum) {
		logger.Errorf("[Wallet] balance mismatch for user %d: cached=%s ledger=%s",
			userID, user.Balance.String(), sum.String())
		return false, nil
	}
	return true, nil
}
