package services

import (
	"errors"
	"fmt"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"
	"github.com/squarepicks/squares-backend/utils/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// settleableStatuses are the board states eligible for period settlement.
var settleableStatuses = []models.BoardStatus{
	models.BoardActive,
	models.BoardInProgressQ1,
	models.BoardInProgressQ2,
	models.BoardHalftime,
	models.BoardInProgressQ3,
	models.BoardInProgressQ4,
	models.BoardOvertime,
	models.BoardFinal,
}

// SettleGamePeriod settles one checkpoint (q1, half, q3, final) for every
// eligible board on a game.
func SettleGamePeriod(gameID uint, period string, homeScore, awayScore int) error {
	var boards []models.Board
	if err := config.DB.
		Where("game_id = ? AND status IN ?", gameID, settleableStatuses).
		Find(&boards).Error; err != nil {
		return err
	}

	for i := range boards {
		if err := SettleBoardPeriod(&boards[i], period, homeScore, awayScore); err != nil {
			if errors.Is(err, ErrAlreadySettled) {
				continue
			}
			return err
		}
	}
	return nil
}

// SettleBoardPeriod settles a single board for one period. The settlement row
// is created under the unique (board, period) index before any funds move, so
// a duplicated or retried trigger can never pay twice: the second attempt
// fails the claim and returns ErrAlreadySettled. A house square (no entry on
// the winning index) is recorded with no winner and no payout. The same
// square winning multiple periods is paid once per period.
func SettleBoardPeriod(board *models.Board, period string, homeScore, awayScore int) error {
	if !board.HasNumbers() {
		return fmt.Errorf("board %d has no axis numbers assigned", board.ID)
	}

	idx := winningIndex(board.HomeNumbers, board.AwayNumbers, homeScore, awayScore)
	if idx < 0 {
		return fmt.Errorf("board %d axis numbers are not valid permutations", board.ID)
	}

	settlement := models.Settlement{
		BoardID:      board.ID,
		Period:       period,
		WinningIndex: idx,
		HomeDigit:    homeScore % 10,
		AwayDigit:    awayScore % 10,
		Amount:       decimal.Zero,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var entry models.SquareEntry
		err := tx.Where("board_id = ? AND square_index = ?", board.ID, idx).First(&entry).Error
		switch {
		case err == nil:
			settlement.WinnerUserID = &entry.UserID
			if board.Payout.IsPositive() {
				settlement.Amount = board.Payout
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// House square: no owner, no payout.
		default:
			return err
		}

		if err := tx.Create(&settlement).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadySettled
			}
			return err
		}

		if settlement.WinnerUserID != nil && settlement.Amount.IsPositive() {
			bid := board.ID
			return applyLedger(tx, &models.Transaction{
				UserID:      *settlement.WinnerUserID,
				Type:        models.PayoutTransaction,
				Amount:      settlement.Amount,
				BoardID:     &bid,
				Reference:   fmt.Sprintf("payout:%d:%s", board.ID, period),
				Description: fmt.Sprintf("Winnings for %s on board %d (square %d)", period, board.ID, idx),
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if settlement.WinnerUserID == nil {
		logger.Infof("[Board %d] %s winner is a house square (index %d), no payout",
			board.ID, period, idx)
		return nil
	}

	logger.Infof("[Board %d] %s settled: square %d, user %d, amount %s",
		board.ID, period, idx, *settlement.WinnerUserID, settlement.Amount.StringFixed(2))

	if settlement.Amount.IsPositive() {
		bid := board.ID
		Notify(*settlement.WinnerUserID, models.NotifyWinnings, "You won!",
			fmt.Sprintf("Your square hit for %s on board %d. $%s has been credited to your wallet.",
				period, board.ID, settlement.Amount.StringFixed(2)), &bid)
	}
	BroadcastBoard(board.ID)
	return nil
}

// RefundBoard returns entry fees for an unfilled board: one refund
// transaction per distinct user covering all their squares. The deterministic
// reference key makes each user's refund idempotent, so a retried trigger
// (or a crash mid-batch) resumes without double-crediting anyone.
func RefundBoard(board *models.Board) error {
	var entries []models.SquareEntry
	if err := config.DB.Where("board_id = ?", board.ID).Find(&entries).Error; err != nil {
		return err
	}

	counts := make(map[uint]int)
	for _, e := range entries {
		counts[e.UserID]++
	}

	for userID, count := range counts {
		amount := board.Amount.Mul(decimal.NewFromInt(int64(count)))
		bid := board.ID
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			if err := applyLedger(tx, &models.Transaction{
				UserID:      userID,
				Type:        models.RefundTransaction,
				Amount:      amount,
				BoardID:     &bid,
				Reference:   fmt.Sprintf("refund:%d:%d", board.ID, userID),
				Description: fmt.Sprintf("Refund for %d square(s) on board %d", count, board.ID),
			}); err != nil {
				return err
			}
			return tx.Model(&models.SquareEntry{}).
				Where("board_id = ? AND user_id = ?", board.ID, userID).
				Update("refunded", true).Error
		})
		if errors.Is(err, ErrDuplicateTransaction) {
			logger.Infof("[Board %d] refund for user %d already recorded, skipping", board.ID, userID)
			continue
		}
		if err != nil {
			return err
		}

		logger.Infof("[Board %d] refunded %s to user %d (%d squares)",
			board.ID, amount.StringFixed(2), userID, count)
		Notify(userID, models.NotifyRefund, "Refund issued",
			fmt.Sprintf("Board %d did not fill. $%s has been returned to your wallet.",
				board.ID, amount.StringFixed(2)), &bid)
	}
	return nil
}
