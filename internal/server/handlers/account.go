package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/corebank/txledger/internal/application/transactionservice"
)

type AccountHandler struct {
	transactionService transactionservice.ITransactionService
	logger             zerolog.Logger
}

func NewAccountHandler(transactionService transactionservice.ITransactionService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// GetBalance handles GET /api/accounts/:accountId/balance. Unknown
// accounts are not an error: they report a zero balance.
func (h *AccountHandler) GetBalance(c *gin.Context) {
	accountID := c.Param("accountId")

	balance, err := h.transactionService.GetAccountBalance(c.Request.Context(), accountID)
	if err != nil {
		h.logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to fetch balance")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to fetch balance",
		})
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetSummary handles GET /api/accounts/:accountId/summary
func (h *AccountHandler) GetSummary(c *gin.Context) {
	accountID := c.Param("accountId")

	summary, err := h.transactionService.GetAccountSummary(c.Request.Context(), accountID)
	if err != nil {
		h.logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to compute summary")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to compute summary",
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetInterest handles GET /api/accounts/:accountId/interest?rate=&days=.
// Rate is an annual fraction (0.05 means 5%), days a positive day count.
func (h *AccountHandler) GetInterest(c *gin.Context) {
	accountID := c.Param("accountId")

	rate, err := decimal.NewFromString(c.Query("rate"))
	if err != nil || rate.Sign() < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "rate must be a non-negative decimal fraction, e.g. 0.05",
		})
		return
	}

	days, err := strconv.Atoi(c.Query("days"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "days must be a positive integer",
		})
		return
	}

	result, err := h.transactionService.CalculateInterest(c.Request.Context(), accountID, rate, days)
	if err != nil {
		h.logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to calculate interest")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to calculate interest",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
