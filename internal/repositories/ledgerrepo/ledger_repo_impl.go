package ledgerrepo

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/corebank/txledger/internal/domain/models"
)

const defaultShardCount = 32

// balanceShard owns a slice of the balance table. Every read-modify-write
// of a balance entry happens under the shard mutex, which serializes
// concurrent writers per account without a store-wide lock.
type balanceShard struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

// LedgerRepository is the in-memory ledger store. The transaction set and
// the balance table are updated as one logical step in Save: the balance
// shards of the affected accounts stay locked from before the insert until
// after the deltas are applied, so a balance reader can never observe a
// stored transaction without its balance effect.
type LedgerRepository struct {
	logger zerolog.Logger

	txMu         sync.RWMutex
	transactions map[string]*models.Transaction

	shards []*balanceShard
}

func New(shardCount int, logger zerolog.Logger) ILedgerRepository {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	shards := make([]*balanceShard, shardCount)
	for i := range shards {
		shards[i] = &balanceShard{balances: make(map[string]decimal.Decimal)}
	}
	return &LedgerRepository{
		logger:       logger,
		transactions: make(map[string]*models.Transaction),
		shards:       shards,
	}
}

func (r *LedgerRepository) shardIndex(accountID string) int {
	h := fnv.New32a()
	h.Write([]byte(accountID))
	return int(h.Sum32() % uint32(len(r.shards)))
}

// affectedAccounts lists the accounts whose balance the transaction moves.
func affectedAccounts(tx *models.Transaction) ([]string, error) {
	switch tx.Type {
	case models.TypeDeposit:
		return []string{tx.ToAccount}, nil
	case models.TypeWithdrawal:
		return []string{tx.FromAccount}, nil
	case models.TypeTransfer:
		return []string{tx.FromAccount, tx.ToAccount}, nil
	default:
		return nil, fmt.Errorf("unsupported transaction type %q", tx.Type)
	}
}

func (r *LedgerRepository) Save(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	accounts, err := affectedAccounts(tx)
	if err != nil {
		return nil, err
	}

	// The store owns identity; any caller-supplied id is discarded.
	tx.ID = uuid.NewString()

	// Lock the affected shards in ascending index order so two concurrent
	// transfers touching the same pair of shards cannot deadlock.
	indexes := make([]int, 0, 2)
	seen := make(map[int]bool, 2)
	for _, acc := range accounts {
		idx := r.shardIndex(acc)
		if !seen[idx] {
			seen[idx] = true
			indexes = append(indexes, idx)
		}
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		r.shards[idx].mu.Lock()
	}
	defer func() {
		for i := len(indexes) - 1; i >= 0; i-- {
			r.shards[indexes[i]].mu.Unlock()
		}
	}()

	r.txMu.Lock()
	r.transactions[tx.ID] = tx
	r.txMu.Unlock()

	r.applyDelta(tx)

	r.logger.Debug().
		Str("transaction_id", tx.ID).
		Str("type", string(tx.Type)).
		Str("amount", tx.Amount.String()).
		Msg("Transaction stored")

	return tx, nil
}

// applyDelta mutates the balance table per the delta rule. Callers must
// hold the shard locks of every affected account. Overdrafts are allowed:
// withdrawals and transfers may drive a balance negative.
func (r *LedgerRepository) applyDelta(tx *models.Transaction) {
	switch tx.Type {
	case models.TypeDeposit:
		r.add(tx.ToAccount, tx.Amount)
	case models.TypeWithdrawal:
		r.add(tx.FromAccount, tx.Amount.Neg())
	case models.TypeTransfer:
		r.add(tx.FromAccount, tx.Amount.Neg())
		r.add(tx.ToAccount, tx.Amount)
	}
}

func (r *LedgerRepository) add(accountID string, delta decimal.Decimal) {
	shard := r.shards[r.shardIndex(accountID)]
	shard.balances[accountID] = shard.balances[accountID].Add(delta)
}

func (r *LedgerRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	r.txMu.RLock()
	defer r.txMu.RUnlock()

	tx, ok := r.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return tx, nil
}

func (r *LedgerRepository) FindAll(ctx context.Context) ([]*models.Transaction, error) {
	r.txMu.RLock()
	defer r.txMu.RUnlock()

	result := make([]*models.Transaction, 0, len(r.transactions))
	for _, tx := range r.transactions {
		result = append(result, tx)
	}
	return result, nil
}

func (r *LedgerRepository) FindByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	return r.FindByFilters(ctx, Filter{AccountID: accountID})
}

func (r *LedgerRepository) FindByFilters(ctx context.Context, filter Filter) ([]*models.Transaction, error) {
	r.txMu.RLock()
	defer r.txMu.RUnlock()

	result := make([]*models.Transaction, 0)
	for _, tx := range r.transactions {
		if matches(tx, filter) {
			result = append(result, tx)
		}
	}
	return result, nil
}

// matches applies the filter predicates as a strict conjunction. The date
// bounds are inclusive and independent of each other; an inverted range
// simply matches nothing.
func matches(tx *models.Transaction, f Filter) bool {
	if f.AccountID != "" && tx.FromAccount != f.AccountID && tx.ToAccount != f.AccountID {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.From != nil && (tx.Timestamp.IsZero() || tx.Timestamp.Before(*f.From)) {
		return false
	}
	if f.To != nil && (tx.Timestamp.IsZero() || tx.Timestamp.After(*f.To)) {
		return false
	}
	return true
}

func (r *LedgerRepository) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	shard := r.shards[r.shardIndex(accountID)]
	shard.mu.Lock()
	defer shard.mu.Unlock()

	balance, ok := shard.balances[accountID]
	if !ok {
		return decimal.Zero, nil
	}
	return balance, nil
}

// Reset clears all transactions and balances. Administrative only; used to
// reinitialize state between independent runs.
func (r *LedgerRepository) Reset(ctx context.Context) error {
	for _, shard := range r.shards {
		shard.mu.Lock()
	}
	r.txMu.Lock()
	r.transactions = make(map[string]*models.Transaction)
	r.txMu.Unlock()
	for i := len(r.shards) - 1; i >= 0; i-- {
		r.shards[i].balances = make(map[string]decimal.Decimal)
		r.shards[i].mu.Unlock()
	}

	r.logger.Info().Msg("Ledger store reset")
	return nil
}
