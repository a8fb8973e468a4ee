package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"
	"github.com/squarepicks/squares-backend/utils/logger"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// payoutShare is the fraction of the pot paid per winning period. Four equal
// shares (Q1, half, Q3, final); the platform retains the remaining 20%.
var payoutShare = decimal.NewFromFloat(0.20)

// EnterBoard records a user's purchase of one or more squares. Validation,
// the entry-fee debit, the entry rows and the board update all commit in a
// single DB transaction; the 100th square flips the board to full and assigns
// the axis numbers inside that same transaction. Every state transition is a
// conditional update on the expected prior status, so concurrent entries
// racing the fill trigger resolve to exactly one full transition.
func EnterBoard(userID uint, boardID uint, indexes []int) error {
	if len(indexes) == 0 {
		return ErrInvalidIndex
	}
	seen := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= models.BoardCapacity || seen[idx] {
			return ErrInvalidIndex
		}
		seen[idx] = true
	}

	var board models.Board
	becameFull := false

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// Write the board row first: the conditional update doubles as the
		// row lock, so concurrent purchases on one board serialize here and
		// every read below sees the prior buyer's commit.
		res := tx.Model(&models.Board{}).
			Where("id = ? AND status = ?", boardID, models.BoardOpen).
			Update("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Board{}).Where("id = ?", boardID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrBoardNotFound
			}
			return ErrBoardNotOpen
		}
		if err := tx.First(&board, boardID).Error; err != nil {
			return err
		}

		// The entry rows are the source of truth for claimed squares; the
		// board's selected_indexes column is only a cached projection.
		var claimed []int
		if err := tx.Model(&models.SquareEntry{}).
			Where("board_id = ?", board.ID).
			Order("square_index").
			Pluck("square_index", &claimed).Error; err != nil {
			return err
		}
		if len(claimed)+len(indexes) > models.BoardCapacity {
			return ErrNotEnoughSquares
		}

		taken := make(map[int]bool, len(claimed))
		for _, idx := range claimed {
			taken[idx] = true
		}
		for _, idx := range indexes {
			if taken[idx] {
				return ErrSquareTaken
			}
		}

		if !board.IsFree() {
			fee := board.Amount.Mul(decimal.NewFromInt(int64(len(indexes))))
			bid := board.ID
			if err := applyLedger(tx, &models.Transaction{
				UserID:      userID,
				Type:        models.EntryFeeTransaction,
				Amount:      fee.Neg(),
				BoardID:     &bid,
				Description: fmt.Sprintf("Entry fee for %d square(s) on board %d", len(indexes), board.ID),
			}); err != nil {
				return err
			}
		}

		for _, idx := range indexes {
			entry := models.SquareEntry{
				BoardID:     board.ID,
				GameID:      board.GameID,
				UserID:      userID,
				SquareIndex: idx,
			}
			if err := tx.Create(&entry).Error; err != nil {
				// A concurrent buyer claimed the square between our read and
				// this insert; the unique (board, index) key is the arbiter.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrSquareTaken
				}
				return err
			}
		}

		newIndexes := append(append([]int(nil), claimed...), indexes...)
		updates := map[string]interface{}{
			"selected_indexes": datatypes.NewJSONSlice(newIndexes),
		}

		if len(newIndexes) == models.BoardCapacity {
			becameFull = true
			pot := board.Amount.Mul(decimal.NewFromInt(models.BoardCapacity))
			updates["status"] = models.BoardFull
			updates["home_numbers"] = datatypes.NewJSONSlice(shuffledDigits())
			updates["away_numbers"] = datatypes.NewJSONSlice(shuffledDigits())
			updates["pot"] = pot
			updates["payout"] = pot.Mul(payoutShare)
		}

		res = tx.Model(&models.Board{}).
			Where("id = ? AND status = ?", board.ID, models.BoardOpen).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBoardNotOpen
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Infof("[Board %d] user %d entered %d square(s)", board.ID, userID, len(indexes))

	bid := board.ID
	Notify(userID, models.NotifyBoardEntry, "Entry confirmed",
		fmt.Sprintf("You picked %d square(s) on board %d.", len(indexes), board.ID), &bid)

	if becameFull {
		logger.Infof("[Board %d] full, axis numbers assigned", board.ID)
		notifyBoardUsers(board.ID, models.NotifyBoardFull, "Board full",
			fmt.Sprintf("Board %d is full. Numbers have been drawn.", board.ID))
	}

	BroadcastBoard(boardID)
	return nil
}

// UserSelections returns the square indexes a user holds on a board.
func UserSelections(userID, boardID uint) ([]int, error) {
	var entries []models.SquareEntry
	if err := config.DB.
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Order("square_index").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(entries))
	for _, e := range entries {
		indexes = append(indexes, e.SquareIndex)
	}
	return indexes, nil
}

// IsParticipant reports whether a user holds any square on a board.
func IsParticipant(userID, boardID uint) (bool, error) {
	var count int64
	err := config.DB.Model(&models.SquareEntry{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	return count > 0, err
}

// HandleGameLive reacts to a game's isLive flipping true: full boards
// activate, free boards proceed regardless of fill, and paid unfilled boards
// close and refund. Safe to invoke more than once; every transition is a
// conditional update and refunds are keyed per user.
func HandleGameLive(gameID uint) error {
	var boards []models.Board
	if err := config.DB.
		Where("game_id = ? AND status IN ?", gameID,
			[]models.BoardStatus{models.BoardOpen, models.BoardFull, models.BoardUnfilled}).
		Find(&boards).Error; err != nil {
		return err
	}

	for i := range boards {
		board := &boards[i]
		var err error
		switch {
		case board.Status == models.BoardFull:
			err = activateBoard(board, models.BoardFull)
		case board.IsFree():
			err = activateBoard(board, models.BoardOpen)
		default:
			// Covers both the first pass (open) and a resumed pass for a
			// board left unfilled by an interrupted refund batch.
			err = closeUnfilledBoard(board)
		}
		if err != nil {
			logger.Errorf("[Board %d] game-live handling failed: %v", board.ID, err)
			return err
		}
	}
	return nil
}

// activateBoard transitions full (or open free) boards to active at kickoff.
// A free board that never filled gets its axis numbers here; its unclaimed
// squares become non-winning house squares.
func activateBoard(board *models.Board, from models.BoardStatus) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.BoardActive,
		"activated_at": &now,
	}
	if !board.HasNumbers() {
		updates["home_numbers"] = datatypes.NewJSONSlice(shuffledDigits())
		updates["away_numbers"] = datatypes.NewJSONSlice(shuffledDigits())
	}

	res := config.DB.Model(&models.Board{}).
		Where("id = ? AND status = ?", board.ID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race to another trigger; the transition already happened.
		return nil
	}

	logger.Infof("[Board %d] activated", board.ID)
	notifyBoardUsers(board.ID, models.NotifyBoardActive, "Board active",
		fmt.Sprintf("The game has started. Board %d is now live.", board.ID))
	BroadcastBoard(board.ID)
	return nil
}

// closeUnfilledBoard handles a paid board that missed kickoff short of 100
// squares: open -> unfilled, refunds issued per user, then unfilled ->
// cancelled only once every refund is durably recorded. A retried trigger
// resumes where the last attempt stopped.
func closeUnfilledBoard(board *models.Board) error {
	now := time.Now()
	res := config.DB.Model(&models.Board{}).
		Where("id = ? AND status = ?", board.ID, models.BoardOpen).
		Updates(map[string]interface{}{
			"status":         models.BoardUnfilled,
			"closed_at":      &now,
			"closure_reason": models.ClosureGameStartedUnfilled,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logger.Infof("[Board %d] unfilled at kickoff, issuing refunds", board.ID)
		notifyBoardUsers(board.ID, models.NotifyBoardUnfilled, "Board did not fill",
			fmt.Sprintf("Board %d did not fill before kickoff and has been closed.", board.ID))
	}

	if err := RefundBoard(board); err != nil {
		return err
	}

	res = config.DB.Model(&models.Board{}).
		Where("id = ? AND status = ?", board.ID, models.BoardUnfilled).
		Update("status", models.BoardCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logger.Infof("[Board %d] cancelled (%s)", board.ID, models.ClosureGameStartedUnfilled)
	}
	BroadcastBoard(board.ID)
	return nil
}

// progressStatuses are the board states a live game advances through.
var progressStatuses = []models.BoardStatus{
	models.BoardActive,
	models.BoardInProgressQ1,
	models.BoardInProgressQ2,
	models.BoardHalftime,
	models.BoardInProgressQ3,
	models.BoardInProgressQ4,
	models.BoardOvertime,
}

// boardStatusForGame maps live game state onto the board progress status.
func boardStatusForGame(game *models.Game) models.BoardStatus {
	if game.Status == models.GameFinal {
		return models.BoardFinal
	}
	if game.IsHalftime {
		return models.BoardHalftime
	}
	switch game.Period {
	case models.PeriodQ1:
		return models.BoardInProgressQ1
	case models.PeriodQ2:
		return models.BoardInProgressQ2
	case models.PeriodQ3:
		return models.BoardInProgressQ3
	case models.PeriodQ4:
		return models.BoardInProgressQ4
	case models.PeriodOvertime:
		return models.BoardOvertime
	default:
		return models.BoardActive
	}
}

// AdvanceBoards moves every in-play board for a game to the status implied by
// the game's current period.
func AdvanceBoards(game *models.Game) error {
	status := boardStatusForGame(game)
	res := config.DB.Model(&models.Board{}).
		Where("game_id = ? AND status IN ?", game.ID, progressStatuses).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		BroadcastGameBoards(game.ID)
	}
	return nil
}

// notifyBoardUsers emits one notification per distinct entrant on a board.
func notifyBoardUsers(boardID uint, tag, title, message string) {
	var userIDs []uint
	if err := config.DB.Model(&models.SquareEntry{}).
		Where("board_id = ?", boardID).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		logger.Errorf("[Board %d] failed to list entrants for notification: %v", boardID, err)
		return
	}
	bid := boardID
	for _, uid := range userIDs {
		Notify(uid, tag, title, message, &bid)
	}
}
