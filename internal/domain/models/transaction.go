package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of supported transaction kinds
type TransactionType string

const (
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
	TypeTransfer   TransactionType = "TRANSFER"
)

// ParseTransactionType parses the wire form of a transaction type
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeDeposit:
		return TypeDeposit, nil
	case TypeWithdrawal:
		return TypeWithdrawal, nil
	case TypeTransfer:
		return TypeTransfer, nil
	default:
		return "", fmt.Errorf("unknown transaction type: %q", s)
	}
}

// TransactionStatus represents the settlement state of a transaction.
// The create path completes synchronously, so every stored transaction
// carries StatusCompleted; StatusPending and StatusFailed are reserved
// for an asynchronous settlement pipeline that does not exist yet.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is a single ledger entry. Immutable once stored.
type Transaction struct {
	ID          string            `json:"id"`
	FromAccount string            `json:"fromAccount"`
	ToAccount   string            `json:"toAccount"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency"`
	Type        TransactionType   `json:"type"`
	Timestamp   time.Time         `json:"timestamp"`
	Status      TransactionStatus `json:"status"`
}

// CreateTransactionRequest is the inbound shape for POST /api/transactions.
// Pointer fields distinguish "absent" from zero values so the boundary
// validator can report missing fields by name.
type CreateTransactionRequest struct {
	FromAccount string           `json:"fromAccount"`
	ToAccount   string           `json:"toAccount"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    string           `json:"currency"`
	Type        string           `json:"type"`
}

// AccountBalanceResponse reports the running balance of an account.
// Currency is always the fixed display currency; balances are summed
// per account id regardless of the transactions' currencies.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// AccountSummaryResponse is the account-relative aggregation view.
// Incoming transfers count as deposits and outgoing transfers as
// withdrawals, so the totals do not reconcile with the signed running
// balance.
type AccountSummaryResponse struct {
	AccountID                 string          `json:"accountId"`
	TotalDeposits             decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals          decimal.Decimal `json:"totalWithdrawals"`
	TransactionCount          int             `json:"transactionCount"`
	MostRecentTransactionDate *time.Time      `json:"mostRecentTransactionDate"`
}

// InterestCalculationResponse is the simple-interest projection over an
// account's current balance.
type InterestCalculationResponse struct {
	AccountID    string          `json:"accountId"`
	Principal    decimal.Decimal `json:"principal"`
	Rate         decimal.Decimal `json:"rate"`
	Days         int             `json:"days"`
	Interest     decimal.Decimal `json:"interest"`
	FinalBalance decimal.Decimal `json:"finalBalance"`
	Currency     string          `json:"currency"`
}

// ValidationError is a single boundary violation
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error body for 4xx responses
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details,omitempty"`
}

// TransactionEvent is the payload pushed to websocket subscribers when a
// transaction is stored
type TransactionEvent struct {
	Type        string       `json:"type"`
	Transaction *Transaction `json:"transaction"`
	Timestamp   time.Time    `json:"timestamp"`
}
