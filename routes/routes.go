package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/squarepicks/squares-backend/controllers"
)

func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ----------------------
	// User routes
	// ----------------------
	api.POST("/users", controllers.RegisterUser)
	api.GET("/users/:id", controllers.GetUser)
	api.GET("/users/:id/transactions", controllers.ListTransactions)
	api.GET("/users/:id/notifications", controllers.ListNotifications)

	// ----------------------
	// Game routes
	// ----------------------
	api.GET("/games", controllers.ListGames)
	api.GET("/games/:id", controllers.GetGame)
	api.GET("/games/:id/boards", controllers.ListGameBoards)

	// ----------------------
	// Board routes
	// ----------------------
	api.GET("/boards/:id", controllers.GetBoard)
	api.POST("/boards/:id/enter", controllers.EnterBoard)
	api.GET("/boards/:id/selections", controllers.GetBoardUserSelections)
	api.GET("/sweepstakes/:id/participation", controllers.CheckSweepstakesParticipation)

	// ----------------------
	// Wallet routes
	// ----------------------
	api.POST("/deposit", controllers.Deposit)
	api.POST("/withdraw", controllers.Withdraw)

	// ----------------------
	// Location verification
	// ----------------------
	api.POST("/location/verify", controllers.VerifyLocation)

	// ----------------------
	// Notifications / ops
	// ----------------------
	api.PATCH("/notifications/:id/read", controllers.MarkNotificationRead)
	api.POST("/feed/score", controllers.PushScoreUpdate)
}
