package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"
	"github.com/squarepicks/squares-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletRequest struct {
	UserID uint            `json:"userId" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// Deposit handles adding funds to user wallet
func Deposit(c *gin.Context) {
	var req WalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := services.Deposit(req.UserID, req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// Withdraw handles user withdrawal
func Withdraw(c *gin.Context) {
	var req WalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := services.Withdraw(req.UserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, services.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// ListTransactions returns a user's ledger history, newest first.
func ListTransactions(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var txs []models.Transaction
	if err := config.DB.
		Where("user_id = ?", uint(userID)).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}
