package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/corebank/txledger/internal/application/transactionservice"
	"github.com/corebank/txledger/internal/server/websocket"
	"github.com/corebank/txledger/pkg/config"
)

type Handlers struct {
	TransactionSvc transactionservice.ITransactionService
	Logger         zerolog.Logger
	Config         *config.Config
	WsHub          *websocket.WsHub
}

func New(transactionSvc transactionservice.ITransactionService, logger zerolog.Logger, config *config.Config, wsHub *websocket.WsHub) *Handlers {
	return &Handlers{
		TransactionSvc: transactionSvc,
		Logger:         logger,
		Config:         config,
		WsHub:          wsHub,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine) {
	transactionHandler := NewTransactionHandler(h.TransactionSvc, h.WsHub, h.Logger)
	accountHandler := NewAccountHandler(h.TransactionSvc, h.Logger)
	wsHandler := NewWebSocketHandler(h.WsHub, h.Config.WebSocket)
	healthHandler := NewHealthHandler()

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Live feed of created transactions
	router.GET("/ws/transactions", wsHandler.HandleConnection)

	api := router.Group("/api")
	{
		transactions := api.Group("/transactions")
		{
			transactions.POST("", transactionHandler.CreateTransaction)
			transactions.GET("", transactionHandler.ListTransactions)
			transactions.GET("/export", transactionHandler.ExportTransactions)
			transactions.GET("/:id", transactionHandler.GetTransactionByID)
		}

		accounts := api.Group("/accounts")
		{
			accounts.GET("/:accountId/balance", accountHandler.GetBalance)
			accounts.GET("/:accountId/summary", accountHandler.GetSummary)
			accounts.GET("/:accountId/interest", accountHandler.GetInterest)
		}
	}
}
