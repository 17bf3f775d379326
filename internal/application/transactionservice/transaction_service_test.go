package transactionservice_test

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/corebank/txledger/internal/application/transactionservice"
	"github.com/corebank/txledger/internal/domain/models"
	"github.com/corebank/txledger/internal/repositories/ledgerrepo"
)

func newService(t *testing.T) (transactionservice.ITransactionService, ledgerrepo.ILedgerRepository) {
	t.Helper()
	repo := ledgerrepo.New(0, zerolog.Nop())
	return transactionservice.New(repo, zerolog.Nop()), repo
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func create(t *testing.T, svc transactionservice.ITransactionService, from, to string, txType models.TransactionType, amount string) *models.Transaction {
	t.Helper()
	tx, err := svc.Create(context.Background(), &models.Transaction{
		FromAccount: from,
		ToAccount:   to,
		Amount:      dec(t, amount),
		Currency:    "USD",
		Type:        txType,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return tx
}

func TestCreateStampsTransaction(t *testing.T) {
	svc, _ := newService(t)

	before := time.Now().UTC()
	tx := create(t, svc, "", "ACC-00001", models.TypeDeposit, "42.00")
	after := time.Now().UTC()

	if tx.ID == "" {
		t.Fatal("expected assigned id")
	}
	if tx.Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", tx.Status)
	}
	if tx.Timestamp.Before(before) || tx.Timestamp.After(after) {
		t.Fatalf("timestamp %s outside [%s, %s]", tx.Timestamp, before, after)
	}
}

// DEPOSIT 1000 to A, WITHDRAWAL 200 from A, TRANSFER 300 from A to B:
// A's summary counts the outgoing transfer as a withdrawal while the
// running balances stay signed.
func TestAccountSummaryReconciliationExample(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	create(t, svc, "", "ACC-AAAAA", models.TypeDeposit, "1000")
	create(t, svc, "ACC-AAAAA", "", models.TypeWithdrawal, "200")
	create(t, svc, "ACC-AAAAA", "ACC-BBBBB", models.TypeTransfer, "300")

	summary, err := svc.GetAccountSummary(ctx, "ACC-AAAAA")
	if err != nil {
		t.Fatal(err)
	}
	if !summary.TotalDeposits.Equal(dec(t, "1000")) {
		t.Fatalf("totalDeposits = %s, want 1000", summary.TotalDeposits)
	}
	if !summary.TotalWithdrawals.Equal(dec(t, "500")) {
		t.Fatalf("totalWithdrawals = %s, want 500", summary.TotalWithdrawals)
	}
	if summary.TransactionCount != 3 {
		t.Fatalf("transactionCount = %d, want 3", summary.TransactionCount)
	}
	if summary.MostRecentTransactionDate == nil {
		t.Fatal("expected mostRecentTransactionDate")
	}

	balA, err := repo.GetBalance(ctx, "ACC-AAAAA")
	if err != nil {
		t.Fatal(err)
	}
	if !balA.Equal(dec(t, "500")) {
		t.Fatalf("balance A = %s, want 500", balA)
	}
	balB, err := repo.GetBalance(ctx, "ACC-BBBBB")
	if err != nil {
		t.Fatal(err)
	}
	if !balB.Equal(dec(t, "300")) {
		t.Fatalf("balance B = %s, want 300", balB)
	}

	// B's view of the same transfer counts as a deposit.
	summaryB, err := svc.GetAccountSummary(ctx, "ACC-BBBBB")
	if err != nil {
		t.Fatal(err)
	}
	if !summaryB.TotalDeposits.Equal(dec(t, "300")) || summaryB.TransactionCount != 1 {
		t.Fatalf("summary B = %+v, want deposits 300 count 1", summaryB)
	}
}

func TestAccountSummaryEmptyAccount(t *testing.T) {
	svc, _ := newService(t)

	summary, err := svc.GetAccountSummary(context.Background(), "ACC-EMPTY")
	if err != nil {
		t.Fatal(err)
	}
	if summary.TransactionCount != 0 {
		t.Fatalf("transactionCount = %d, want 0", summary.TransactionCount)
	}
	if !summary.TotalDeposits.Equal(decimal.Zero) || !summary.TotalWithdrawals.Equal(decimal.Zero) {
		t.Fatalf("expected zero totals, got %+v", summary)
	}
	if summary.MostRecentTransactionDate != nil {
		t.Fatalf("expected no mostRecentTransactionDate, got %v", summary.MostRecentTransactionDate)
	}
}

func TestGetAccountBalanceReportsDisplayCurrency(t *testing.T) {
	svc, _ := newService(t)

	resp, err := svc.GetAccountBalance(context.Background(), "ACC-NOONE")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Currency != transactionservice.DisplayCurrency {
		t.Fatalf("currency = %s, want %s", resp.Currency, transactionservice.DisplayCurrency)
	}
	if !resp.Balance.Equal(decimal.Zero) {
		t.Fatalf("balance = %s, want 0", resp.Balance)
	}
}

func TestCalculateInterest(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	create(t, svc, "", "ACC-SAVER", models.TypeDeposit, "1000.00")

	// 1000 * 0.05 * 73 / 365 = 10.00
	result, err := svc.CalculateInterest(ctx, "ACC-SAVER", dec(t, "0.05"), 73)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Principal.Equal(dec(t, "1000.00")) {
		t.Fatalf("principal = %s, want 1000.00", result.Principal)
	}
	if !result.Interest.Equal(dec(t, "10")) {
		t.Fatalf("interest = %s, want 10", result.Interest)
	}
	if !result.FinalBalance.Equal(dec(t, "1010")) {
		t.Fatalf("finalBalance = %s, want 1010", result.FinalBalance)
	}
	if result.Days != 73 {
		t.Fatalf("days = %d, want 73", result.Days)
	}
}

func TestExportCSVShapeAndQuoting(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	create(t, svc, "ACC-11111", "ACC-22222", models.TypeTransfer, "10.50")

	// Fields containing separators and quotes must survive the round trip.
	tricky := `ACC,"Q
X`
	if _, err := repo.Save(ctx, &models.Transaction{
		FromAccount: tricky,
		ToAccount:   "ACC-33333",
		Amount:      dec(t, "1.00"),
		Currency:    "EUR",
		Type:        models.TypeWithdrawal,
		Timestamp:   time.Now().UTC(),
		Status:      models.StatusCompleted,
	}); err != nil {
		t.Fatal(err)
	}

	doc, err := svc.ExportCSV(ctx)
	if err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(strings.NewReader(doc)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}

	wantHeader := "id,fromAccount,toAccount,amount,currency,type,timestamp,status"
	if strings.Join(records[0], ",") != wantHeader {
		t.Fatalf("header = %v, want %s", records[0], wantHeader)
	}

	for _, row := range records {
		if len(row) != 8 {
			t.Fatalf("row %v has %d fields, want 8", row, len(row))
		}
	}

	found := false
	for _, row := range records[1:] {
		if row[1] == tricky {
			found = true
			if row[4] != "EUR" || row[5] != "WITHDRAWAL" || row[7] != "completed" {
				t.Fatalf("tricky row mismatch: %v", row)
			}
		}
	}
	if !found {
		t.Fatalf("quoted field did not round-trip; records: %v", records)
	}
}

func TestExportCSVRendersAbsentTimestampAsEmpty(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	if _, err := repo.Save(ctx, &models.Transaction{
		ToAccount: "ACC-44444",
		Amount:    dec(t, "5.00"),
		Currency:  "USD",
		Type:      models.TypeDeposit,
	}); err != nil {
		t.Fatal(err)
	}

	doc, err := svc.ExportCSV(ctx)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(strings.NewReader(doc)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1][6] != "" {
		t.Fatalf("timestamp field = %q, want empty", records[1][6])
	}
}

func TestGetByIDPropagatesNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for missing transaction")
	}
}
