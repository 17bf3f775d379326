package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/corebank/txledger/internal/application/transactionservice"
	"github.com/corebank/txledger/internal/domain/models"
	"github.com/corebank/txledger/internal/repositories/ledgerrepo"
	"github.com/corebank/txledger/internal/server/websocket"
	"github.com/corebank/txledger/internal/validation"
)

type TransactionHandler struct {
	transactionService transactionservice.ITransactionService
	wsHub              *websocket.WsHub
	logger             zerolog.Logger
}

func NewTransactionHandler(transactionService transactionservice.ITransactionService, wsHub *websocket.WsHub, logger zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		wsHub:              wsHub,
		logger:             logger,
	}
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	// All field violations are collected and reported together.
	if violations := validation.ValidateCreateRequest(&req); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Details: violations,
		})
		return
	}

	txType, _ := models.ParseTransactionType(req.Type)
	tx := &models.Transaction{
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
		Amount:      *req.Amount,
		Currency:    req.Currency,
		Type:        txType,
	}

	created, err := h.transactionService.Create(c.Request.Context(), tx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create transaction")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to create transaction",
		})
		return
	}

	h.wsHub.BroadcastTransaction(created)

	c.JSON(http.StatusCreated, created)
}

// ListTransactions handles GET /api/transactions with optional accountId,
// type, from and to query filters.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	filter := ledgerrepo.Filter{AccountID: c.Query("accountId")}

	if raw := c.Query("type"); raw != "" {
		txType, err := models.ParseTransactionType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "type must be one of DEPOSIT, WITHDRAWAL, TRANSFER",
			})
			return
		}
		filter.Type = txType
	}

	var ok bool
	if filter.From, ok = parseInstantParam(c, "from"); !ok {
		return
	}
	if filter.To, ok = parseInstantParam(c, "to"); !ok {
		return
	}

	transactions, err := h.transactionService.ListFiltered(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list transactions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list transactions",
		})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetTransactionByID handles GET /api/transactions/:id
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	id := c.Param("id")

	tx, err := h.transactionService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ledgerrepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "Transaction not found with id: " + id,
			})
			return
		}
		h.logger.Error().Err(err).Str("transaction_id", id).Msg("Failed to fetch transaction")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to fetch transaction",
		})
		return
	}

	c.JSON(http.StatusOK, tx)
}

// ExportTransactions handles GET /api/transactions/export
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	doc, err := h.transactionService.ExportCSV(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to export transactions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to export transactions",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(doc))
}

// parseInstantParam reads an optional RFC 3339 instant query parameter.
// On a malformed value it writes the 400 response and reports !ok.
func parseInstantParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": name + " must be an ISO-8601 instant, e.g. 2026-01-02T15:04:05Z",
		})
		return nil, false
	}
	return &t, true
}
