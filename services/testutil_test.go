package services

import (
	"fmt"
	"testing"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int

// setupTestDB points config.DB at a fresh in-memory SQLite database with the
// full schema migrated. Each call gets its own named shared-cache database so
// the connection pool sees one store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:testdb_%s_%d?mode=memory&cache=shared", t.Name(), testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, username string, balance decimal.Decimal) *models.User {
	t.Helper()
	user := models.User{Username: username, Balance: balance}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createTestGame(t *testing.T, sid string) *models.Game {
	t.Helper()
	game := models.Game{
		SID:      sid,
		Sport:    "football",
		HomeTeam: "Home",
		AwayTeam: "Away",
		Status:   models.GameScheduled,
	}
	if err := config.DB.Create(&game).Error; err != nil {
		t.Fatalf("failed to create game %s: %v", sid, err)
	}
	return &game
}

func createTestBoard(t *testing.T, gameID uint, amount decimal.Decimal) *models.Board {
	t.Helper()
	board := models.Board{
		GameID: gameID,
		Amount: amount,
		Status: models.BoardOpen,
	}
	if err := config.DB.Create(&board).Error; err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	return &board
}

func reloadBoard(t *testing.T, id uint) *models.Board {
	t.Helper()
	var board models.Board
	if err := config.DB.First(&board, id).Error; err != nil {
		t.Fatalf("failed to reload board %d: %v", id, err)
	}
	return &board
}

func reloadUser(t *testing.T, id uint) *models.User {
	t.Helper()
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		t.Fatalf("failed to reload user %d: %v", id, err)
	}
	return &user
}

func allIndexes() []int {
	indexes := make([]int, models.BoardCapacity)
	for i := range indexes {
		indexes[i] = i
	}
	return indexes
}

func countTransactions(t *testing.T, userID uint, txType models.TransactionType) int64 {
	t.Helper()
	var count int64
	if err := config.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, txType).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return count
}

func assertPermutation(t *testing.T, numbers []int) {
	t.Helper()
	if len(numbers) != 10 {
		t.Fatalf("expected 10 digits, got %d", len(numbers))
	}
	seen := make(map[int]bool, 10)
	for _, n := range numbers {
		if n < 0 || n > 9 || seen[n] {
			t.Fatalf("not a permutation of 0-9: %v", numbers)
		}
		seen[n] = true
	}
}
