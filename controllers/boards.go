package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"
	"github.com/squarepicks/squares-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EnterBoardRequest accepts both call forms the client uses: a single
// selectedNumber or a batch selectedSquareIndexes array. They are normalized
// into one index slice before hitting the engine.
type EnterBoardRequest struct {
	UserID                uint  `json:"userId" binding:"required"`
	SelectedNumber        *int  `json:"selectedNumber"`
	SelectedSquareIndexes []int `json:"selectedSquareIndexes"`
}

// EnterBoard handles a square purchase on a board. Every rejection returns a
// non-empty error string; nothing is mutated on a failed call.
func EnterBoard(c *gin.Context) {
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid board id"})
		return
	}

	var req EnterBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	indexes := req.SelectedSquareIndexes
	if len(indexes) == 0 && req.SelectedNumber != nil {
		indexes = []int{*req.SelectedNumber}
	}

	if err := services.EnterBoard(req.UserID, uint(boardID), indexes); err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, services.ErrBoardNotFound), errors.Is(err, services.ErrUserNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrInsufficientFunds),
			errors.Is(err, services.ErrSquareTaken),
			errors.Is(err, services.ErrNotEnoughSquares),
			errors.Is(err, services.ErrBoardNotOpen),
			errors.Is(err, services.ErrInvalidIndex):
			status = http.StatusBadRequest
		default:
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetBoard returns a single board document.
func GetBoard(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board id"})
		return
	}

	var board models.Board
	if err := config.DB.First(&board, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, board)
}

// GetBoardUserSelections returns the caller's square indexes on a board.
func GetBoardUserSelections(c *gin.Context) {
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board id"})
		return
	}
	userID, err := strconv.ParseUint(c.Query("user"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid user query param"})
		return
	}

	indexes, err := services.UserSelections(uint(userID), uint(boardID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch selections"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"selectedIndexes": indexes})
}

// CheckSweepstakesParticipation reports whether the caller holds a square on
// the given sweepstakes board.
func CheckSweepstakesParticipation(c *gin.Context) {
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sweepstakes id"})
		return
	}
	userID, err := strconv.ParseUint(c.Query("user"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid user query param"})
		return
	}

	participant, err := services.IsParticipant(uint(userID), uint(boardID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check participation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isParticipant": participant})
}
