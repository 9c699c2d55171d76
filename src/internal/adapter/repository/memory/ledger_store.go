package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/boundary"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerStore keeps accounts and the transaction log in process memory. Readers
// only ever see committed state: boundaries stage their writes and publish them
// under the write lock on commit.
type LedgerStore struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	idsByName    map[string]string
	records      []domain.TransactionRecord
	nextRecordID int64

	slot *boundary.WriterSlot
	now  func() time.Time
}

var _ repo_interfaces.LedgerStore = (*LedgerStore)(nil)

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		accounts:  make(map[string]domain.Account),
		idsByName: make(map[string]string),
		slot:      boundary.NewWriterSlot(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *LedgerStore) GetAccount(_ context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[strings.TrimSpace(id)]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return account, nil
}

func (s *LedgerStore) GetAccountByName(_ context.Context, displayName string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idsByName[strings.TrimSpace(displayName)]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return s.accounts[id], nil
}

func (s *LedgerStore) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayName < out[j].DisplayName
	})
	return out, nil
}

func (s *LedgerStore) CreateAccount(_ context.Context, account domain.Account) (domain.Account, error) {
	account.DisplayName = strings.TrimSpace(account.DisplayName)
	if account.DisplayName == "" {
		return domain.Account{}, fmt.Errorf("displayName is required: %w", domain.ErrInvalidInput)
	}
	if account.Balance.IsNegative() {
		return domain.Account{}, domain.ErrNegativeBalance
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.idsByName[account.DisplayName]; exists {
		return domain.Account{}, domain.ErrDuplicateAccount
	}
	if _, exists := s.accounts[account.ID]; exists {
		return domain.Account{}, domain.ErrDuplicateAccount
	}

	now := s.now()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.ID] = account
	s.idsByName[account.DisplayName] = account.ID

	return account, nil
}

func (s *LedgerStore) Begin(ctx context.Context) (repo_interfaces.Boundary, error) {
	if err := s.slot.Acquire(ctx); err != nil {
		return nil, err
	}

	return &memoryBoundary{
		store:    s,
		guard:    boundary.NewGuard(s.slot),
		balances: make(map[string]decimal.Decimal),
	}, nil
}

func (s *LedgerStore) AppendRecord(_ context.Context, record domain.TransactionRecord) (domain.TransactionRecord, error) {
	if err := validateRecord(record); err != nil {
		return domain.TransactionRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record = s.stampLocked(record)
	s.records = append(s.records, record)
	return cloneRecord(record), nil
}

func (s *LedgerStore) ListRecords(_ context.Context, participantID *string) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TransactionRecord, 0, len(s.records))
	for _, record := range s.records {
		if participantID != nil && !record.Involves(*participantID) {
			continue
		}
		out = append(out, cloneRecord(record))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// stampLocked assigns the next record id and the insertion time.
func (s *LedgerStore) stampLocked(record domain.TransactionRecord) domain.TransactionRecord {
	s.nextRecordID++
	record = cloneRecord(record)
	record.ID = s.nextRecordID
	record.CreatedAt = s.now()
	return record
}

func validateRecord(record domain.TransactionRecord) error {
	if !record.Amount.IsPositive() {
		return fmt.Errorf("record amount must be positive: %w", domain.ErrInvalidInput)
	}
	if record.SourceAccountID == nil && record.DestinationAccountID == nil {
		return fmt.Errorf("record needs at least one participant: %w", domain.ErrInvalidInput)
	}
	switch record.Outcome {
	case domain.TransactionOutcomeCommitted, domain.TransactionOutcomeRolledBack:
	default:
		return fmt.Errorf("unknown record outcome %q: %w", record.Outcome, domain.ErrInvalidInput)
	}
	return nil
}

func cloneRecord(record domain.TransactionRecord) domain.TransactionRecord {
	record.SourceAccountID = cloneString(record.SourceAccountID)
	record.DestinationAccountID = cloneString(record.DestinationAccountID)
	return record
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
