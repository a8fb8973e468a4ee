package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListGames returns all games
func ListGames(c *gin.Context) {
	var games []models.Game
	config.DB.Order("start_time").Find(&games)
	c.JSON(http.StatusOK, games)
}

// GetGame returns single game info
func GetGame(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	var game models.Game
	if err := config.DB.First(&game, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, game)
}

// ListGameBoards returns every board tied to a game.
func ListGameBoards(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	var boards []models.Board
	if err := config.DB.Where("game_id = ?", uint(id)).Order("amount").Find(&boards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch boards"})
		return
	}

	c.JSON(http.StatusOK, boards)
}
