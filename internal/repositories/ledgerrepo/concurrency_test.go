package ledgerrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/txledger/internal/domain/models"
)

// Concurrent writers to the same account must not lose balance updates.
func TestConcurrentDepositsToOneAccount(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := repo.Save(ctx, &models.Transaction{
					ToAccount: "ACC-HOTTT",
					Amount:    decimal.NewFromFloat(1.25),
					Type:      models.TypeDeposit,
					Timestamp: time.Now(),
					Status:    models.StatusCompleted,
				})
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	want := decimal.NewFromFloat(1.25).Mul(decimal.NewFromInt(workers * perWorker))
	got := balance(t, repo, "ACC-HOTTT")
	if !got.Equal(want) {
		t.Fatalf("balance = %s, want %s (lost updates)", got, want)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != workers*perWorker {
		t.Fatalf("stored %d transactions, want %d", len(all), workers*perWorker)
	}
}

// Mixed deposits and withdrawals interleaved across goroutines still sum
// to the signed total.
func TestConcurrentMixedWritersOnOneAccount(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	const n = 200

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			repo.Save(ctx, &models.Transaction{
				ToAccount: "ACC-MIXED",
				Amount:    decimal.NewFromInt(3),
				Type:      models.TypeDeposit,
				Timestamp: time.Now(),
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			repo.Save(ctx, &models.Transaction{
				FromAccount: "ACC-MIXED",
				Amount:      decimal.NewFromInt(1),
				Type:        models.TypeWithdrawal,
				Timestamp:   time.Now(),
			})
		}
	}()
	wg.Wait()

	want := decimal.NewFromInt(2 * n)
	if got := balance(t, repo, "ACC-MIXED"); !got.Equal(want) {
		t.Fatalf("balance = %s, want %s", got, want)
	}
}

// Transfers between two accounts from many goroutines: money is conserved
// and both running totals land on the expected values.
func TestConcurrentTransfersBetweenAccounts(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				repo.Save(ctx, &models.Transaction{
					FromAccount: "ACC-SRC01",
					ToAccount:   "ACC-DST01",
					Amount:      decimal.NewFromInt(1),
					Type:        models.TypeTransfer,
					Timestamp:   time.Now(),
				})
			}
		}()
	}
	wg.Wait()

	total := decimal.NewFromInt(workers * perWorker)
	if got := balance(t, repo, "ACC-SRC01"); !got.Equal(total.Neg()) {
		t.Fatalf("source balance = %s, want %s", got, total.Neg())
	}
	if got := balance(t, repo, "ACC-DST01"); !got.Equal(total) {
		t.Fatalf("destination balance = %s, want %s", got, total)
	}
}

// Readers running against concurrent writers: every observed balance must
// be a multiple of the deposit amount, i.e. no torn read-modify-write.
func TestReadersSeeConsistentBalances(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	const n = 300
	step := decimal.NewFromInt(7)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			repo.Save(ctx, &models.Transaction{
				ToAccount: "ACC-READ1",
				Amount:    step,
				Type:      models.TypeDeposit,
				Timestamp: time.Now(),
			})
		}
	}()

	for {
		select {
		case <-done:
			if got := balance(t, repo, "ACC-READ1"); !got.Equal(step.Mul(decimal.NewFromInt(n))) {
				t.Fatalf("final balance = %s, want %s", got, step.Mul(decimal.NewFromInt(n)))
			}
			return
		default:
			got := balance(t, repo, "ACC-READ1")
			if !got.Mod(step).Equal(decimal.Zero) {
				t.Fatalf("observed torn balance %s", got)
			}
		}
	}
}
