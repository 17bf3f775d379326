package ledgerrepo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/txledger/internal/domain/models"
)

// ErrNotFound is returned by FindByID when no transaction has the id.
var ErrNotFound = errors.New("transaction not found")

// Filter is the optional predicate set for FindByFilters. Nil / empty
// fields mean "no constraint"; supplied predicates combine as a strict
// conjunction.
type Filter struct {
	AccountID string
	Type      models.TransactionType
	From      *time.Time
	To        *time.Time
}

// ILedgerRepository is the single source of truth for transactions and
// derived account balances. Save applies the transaction's balance delta
// atomically with the insert; everything else is read-only.
type ILedgerRepository interface {
	Save(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	FindAll(ctx context.Context) ([]*models.Transaction, error)
	FindByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error)
	FindByFilters(ctx context.Context, filter Filter) ([]*models.Transaction, error)
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	Reset(ctx context.Context) error
}
