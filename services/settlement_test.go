package services

import (
	"testing"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// fixedNumbers pins both axes to the identity permutation so the winning
// index for scores (h, a) is simply (h%10)*10 + a%10.
func fixedNumbers(t *testing.T, boardID uint) {
	t.Helper()
	identity := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if err := config.DB.Model(&models.Board{}).
		Where("id = ?", boardID).
		Updates(map[string]interface{}{
			"home_numbers": datatypes.NewJSONSlice(identity),
			"away_numbers": datatypes.NewJSONSlice(identity),
		}).Error; err != nil {
		t.Fatalf("failed to pin axis numbers: %v", err)
	}
}

// fullActiveBoard builds a $5 board fully owned by one user and activates it.
func fullActiveBoard(t *testing.T, gameID uint, owner uint) *models.Board {
	t.Helper()
	board := createTestBoard(t, gameID, decimal.NewFromInt(5))
	if err := EnterBoard(owner, board.ID, allIndexes()); err != nil {
		t.Fatalf("filling board failed: %v", err)
	}
	if err := HandleGameLive(gameID); err != nil {
		t.Fatalf("activation failed: %v", err)
	}
	fixedNumbers(t, board.ID)
	return reloadBoard(t, board.ID)
}

// Scenario: full board, Q1 ends 7-3. The square at (7,3) pays 20% of pot.
func TestSettleQ1PaysWinner(t *testing.T) {
	setupTestDB(t)
	game := createTestGame(t, "game-1")
	owner := createTestUser(t, "owner", decimal.NewFromInt(1000))
	board := fullActiveBoard(t, game.ID, owner.ID)

	balanceBefore := reloadUser(t, owner.ID).Balance

	if err := SettleGamePeriod(game.ID, models.PeriodLabelQ1, 7, 3); err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	var settlement models.Settlement
	if err := config.DB.Where("board_id = ? AND period = ?", board.ID, models.PeriodLabelQ1).
		First(&settlement).Error; err != nil {
		t.Fatalf("settlement record missing: %v", err)
	}
	if settlement.WinningIndex != 73 {
		t.Errorf("expected winning index 73 for 7-3, got %d", settlement.WinningIndex)
	}
	if settlement.WinnerUserID == nil || *settlement.WinnerUserID != owner.ID {
		t.Errorf("expected winner %d, got %v", owner.ID, settlement.WinnerUserID)
	}
	if !settlement.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected payout 100 (20%% of 500 pot), got %s", settlement.Amount)
	}

	balanceAfter := reloadUser(t, owner.ID).Balance
	if !balanceAfter.Sub(balanceBefore).Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected balance to grow by 100, grew by %s", balanceAfter.Sub(balanceBefore))
	}
	if n := countTransactions(t, owner.ID, models.PayoutTransaction); n != 1 {
		t.Errorf("expected 1 payout transaction, got %d", n)
	}
}

// Idempotence: settling the same board+period twice pays exactly once.
func TestSettlementIdempotent(t *testing.T) {
	setupTestDB(t)
	game := createTestGame(t, "game-1")
	owner := createTestUser(t, "owner", decimal.NewFromInt(1000))
	board := fullActiveBoard(t, game.ID, owner.ID)

	if err := SettleGamePeriod(game.ID, models.PeriodLabelQ1, 7, 3); err != nil {
		t.Fatalf("first settlement failed: %v", err)
	}
	if err := SettleGamePeriod(game.ID, models.PeriodLabelQ1, 7, 3); err != nil {
		t.Fatalf("duplicate settlement must no-op, got %v", err)
	}

	if n := countTransactions(t, owner.ID, models.PayoutTransaction); n != 1 {
		t.Errorf("expected exactly 1 payout after duplicate trigger, got %d", n)
	}
	var settlements int64
	config.DB.Model(&models.Settlement{}).Where("board_id = ?", board.ID).Count(&settlements)
	if settlements != 1 {
		t.Errorf("expected 1 settlement row, got %d", settlements)
	}
}

// A single square can win several periods; each pays independently.
func TestSameSquareWinsMultiplePeriods(t *testing.T) {
	setupTestDB(t)
	game := createTestGame(t, "game-1")
	owner := createTestUser(t, "owner", decimal.NewFromInt(1000))
	_ = fullActiveBoard(t, game.ID, owner.ID)

	for _, period := range []string{
		models.PeriodLabelQ1,
		models.PeriodLabelHalf,
		models.PeriodLabelQ3,
		models.PeriodLabelFinal,
	} {
		if err := SettleGamePeriod(game.ID, period, 7, 3); err != nil {
			t.Fatalf("settlement for %s failed: %v", period, err)
		}
	}

	if n := countTransactions(t, owner.ID, models.PayoutTransaction); n != 4 {
		t.Errorf("expected 4 payouts across the periods, got %d", n)
	}
}

// House square on a free board: settlement is recorded, nothing is paid.
func TestHouseSquareNoPayout(t *testing.T) {
	setupTestDB(t)
	game := createTestGame(t, "game-1")
	board := createTestBoard(t, game.ID, decimal.Zero)
	user := createTestUser(t, "alice", decimal.NewFromInt(10))

	// Claim squares 0-39; the winner square for 7-3 (index 73) stays unclaimed.
	if err := EnterBoard(user.ID, board.ID, allIndexes()[:40]); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := HandleGameLive(game.ID); err != nil {
		t.Fatalf("activation failed: %v", err)
	}
	fixedNumbers(t, board.ID)

	if err := SettleGamePeriod(game.ID, models.PeriodLabelQ1, 7, 3); err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	var settlement models.Settlement
	if err := config.DB.Where("board_id = ? AND period = ?", board.ID, models.PeriodLabelQ1).
		First(&settlement).Error; err != nil {
		t.Fatalf("settlement record missing: %v", err)
	}
	if settlement.WinnerUserID != nil {
		t.Errorf("expected house square with no winner, got user %d", *settlement.WinnerUserID)
	}
	if n := countTransactions(t, user.ID, models.PayoutTransaction); n != 0 {
		t.Errorf("house square must not pay out, got %d payouts", n)
	}
}

// Cancelled boards never settle.
func TestCancelledBoardNotSettled(t *testing.T) {
	setupTestDB(t)
	game := createTestGame(t, "game-1")
	board := createTestBoard(t, game.ID, decimal.NewFromInt(5))
	user := createTestUser(t, "alice", decimal.NewFromInt(100))

	if err := EnterBoard(user.ID, board.ID, []int{0, 1}); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := HandleGameLive(game.ID); err != nil {
		t.Fatalf("game live handling failed: %v", err)
	}

	if err := SettleGamePeriod(game.ID, models.PeriodLabelQ1, 7, 3); err != nil {
		t.Fatalf("settlement pass failed: %v", err)
	}

	var settlements int64
	config.DB.Model(&models.Settlement{}).Where("board_id = ?", board.ID).Count(&settlements)
	if settlements != 0 {
		t.Errorf("cancelled board must not settle, got %d settlement rows", settlements)
	}
	if n := countTransactions(t, user.ID, models.PayoutTransaction); n != 0 {
		t.Errorf("cancelled board must not pay, got %d payouts", n)
	}
}
