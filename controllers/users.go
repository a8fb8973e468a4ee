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

// RegisterUserRequest is the signup payload. Balance is deliberately absent:
// funds only ever enter through the deposit ledger.
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
}

// RegisterUser registers a new user
func RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := models.User{Username: req.Username, Email: req.Email}

	// check if already exists
	var existing models.User
	if err := config.DB.Where("username = ?", user.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser fetches a user by id
func GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// VerifyLocationRequest carries the caller's coordinates.
type VerifyLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// VerifyLocation resolves coordinates to a two-letter region code.
func VerifyLocation(c *gin.Context) {
	var req VerifyLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := services.VerifyLocation(*req.Latitude, *req.Longitude)
	if err != nil {
		if errors.Is(err, services.ErrRegionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not-found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Location verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}
