package transactionservice

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/corebank/txledger/internal/domain/models"
	"github.com/corebank/txledger/internal/repositories/ledgerrepo"
)

// DisplayCurrency is the fixed currency reported on balance and interest
// responses. Balances are currency-agnostic sums per account id, so the
// underlying transactions' currencies are not consulted.
const DisplayCurrency = "USD"

var daysPerYear = decimal.NewFromInt(365)

type TransactionService struct {
	repo   ledgerrepo.ILedgerRepository
	logger zerolog.Logger
}

func New(repo ledgerrepo.ILedgerRepository, logger zerolog.Logger) ITransactionService {
	return &TransactionService{
		repo:   repo,
		logger: logger,
	}
}

// Create stamps the transaction with a server-authoritative timestamp,
// marks it completed and hands it to the store, which assigns the id and
// applies the balance delta. There is no asynchronous settlement: the
// pending and failed states are never produced here.
func (s *TransactionService) Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	tx.Timestamp = time.Now().UTC()
	tx.Status = models.StatusCompleted

	stored, err := s.repo.Save(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	s.logger.Info().
		Str("transaction_id", stored.ID).
		Str("type", string(stored.Type)).
		Str("from_account", stored.FromAccount).
		Str("to_account", stored.ToAccount).
		Str("amount", stored.Amount.String()).
		Str("currency", stored.Currency).
		Msg("Transaction created")

	return stored, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TransactionService) List(ctx context.Context) ([]*models.Transaction, error) {
	return s.repo.FindAll(ctx)
}

func (s *TransactionService) ListFiltered(ctx context.Context, filter ledgerrepo.Filter) ([]*models.Transaction, error) {
	return s.repo.FindByFilters(ctx, filter)
}

func (s *TransactionService) GetAccountBalance(ctx context.Context, accountID string) (*models.AccountBalanceResponse, error) {
	balance, err := s.repo.GetBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &models.AccountBalanceResponse{
		AccountID: accountID,
		Balance:   balance,
		Currency:  DisplayCurrency,
	}, nil
}

// GetAccountSummary aggregates the account-relative view: incoming
// transfers count toward totalDeposits and outgoing transfers toward
// totalWithdrawals, independent of the signed running balance.
func (s *TransactionService) GetAccountSummary(ctx context.Context, accountID string) (*models.AccountSummaryResponse, error) {
	transactions, err := s.repo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	totalDeposits := decimal.Zero
	totalWithdrawals := decimal.Zero
	var mostRecent *time.Time

	for _, tx := range transactions {
		switch {
		case tx.Type == models.TypeDeposit && tx.ToAccount == accountID:
			totalDeposits = totalDeposits.Add(tx.Amount)
		case tx.Type == models.TypeWithdrawal && tx.FromAccount == accountID:
			totalWithdrawals = totalWithdrawals.Add(tx.Amount)
		case tx.Type == models.TypeTransfer && tx.ToAccount == accountID:
			totalDeposits = totalDeposits.Add(tx.Amount)
		case tx.Type == models.TypeTransfer && tx.FromAccount == accountID:
			totalWithdrawals = totalWithdrawals.Add(tx.Amount)
		}

		if !tx.Timestamp.IsZero() && (mostRecent == nil || tx.Timestamp.After(*mostRecent)) {
			ts := tx.Timestamp
			mostRecent = &ts
		}
	}

	return &models.AccountSummaryResponse{
		AccountID:                 accountID,
		TotalDeposits:             totalDeposits,
		TotalWithdrawals:          totalWithdrawals,
		TransactionCount:          len(transactions),
		MostRecentTransactionDate: mostRecent,
	}, nil
}

// CalculateInterest projects simple interest on the account's current
// balance: principal * rate * days / 365, rounded half-even to 2 places.
// Rate is an annual fraction (0.05 means 5%).
func (s *TransactionService) CalculateInterest(ctx context.Context, accountID string, rate decimal.Decimal, days int) (*models.InterestCalculationResponse, error) {
	principal, err := s.repo.GetBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	interest := principal.
		Mul(rate).
		Mul(decimal.NewFromInt(int64(days))).
		Div(daysPerYear).
		RoundBank(2)

	return &models.InterestCalculationResponse{
		AccountID:    accountID,
		Principal:    principal,
		Rate:         rate,
		Days:         days,
		Interest:     interest,
		FinalBalance: principal.Add(interest),
		Currency:     DisplayCurrency,
	}, nil
}

// csvHeader is the fixed export header; the column order is part of the
// export contract.
var csvHeader = []string{"id", "fromAccount", "toAccount", "amount", "currency", "type", "timestamp", "status"}

// ExportCSV renders every stored transaction as an RFC 4180 CSV document.
// Absent fields render as empty strings; timestamps use RFC 3339.
func (s *TransactionService) ExportCSV(ctx context.Context) (string, error) {
	transactions, err := s.repo.FindAll(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, tx := range transactions {
		timestamp := ""
		if !tx.Timestamp.IsZero() {
			timestamp = tx.Timestamp.Format(time.RFC3339Nano)
		}
		record := []string{
			tx.ID,
			tx.FromAccount,
			tx.ToAccount,
			tx.Amount.String(),
			tx.Currency,
			string(tx.Type),
			timestamp,
			string(tx.Status),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
