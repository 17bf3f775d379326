package transactionservice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/corebank/txledger/internal/domain/models"
	"github.com/corebank/txledger/internal/repositories/ledgerrepo"
)

// ITransactionService is the application surface over the ledger store:
// transaction creation plus the read-only query and aggregation views.
type ITransactionService interface {
	Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context) ([]*models.Transaction, error)
	ListFiltered(ctx context.Context, filter ledgerrepo.Filter) ([]*models.Transaction, error)
	GetAccountBalance(ctx context.Context, accountID string) (*models.AccountBalanceResponse, error)
	GetAccountSummary(ctx context.Context, accountID string) (*models.AccountSummaryResponse, error)
	CalculateInterest(ctx context.Context, accountID string, rate decimal.Decimal, days int) (*models.InterestCalculationResponse, error)
	ExportCSV(ctx context.Context) (string, error)
}
