package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

// MockAccountRepository is an in-memory AccountRepository. Set the Func
// fields to override individual methods.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, orgID, id string) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, orgID string, ids []string) ([]*domain.Account, error)
	ApplyDeltaFunc        func(ctx context.Context, tx usecase.Transaction, orgID, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	SetActiveFunc         func(ctx context.Context, orgID, id string, active bool, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, orgID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok && acc.OrganizationID == orgID {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, orgID, id)
	}
	return m.GetByID(ctx, orgID, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, orgID string, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, orgID, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok && acc.OrganizationID == orgID {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, orgID, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	if m.ApplyDeltaFunc != nil {
		return m.ApplyDeltaFunc(ctx, tx, orgID, id, delta, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok || acc.OrganizationID != orgID {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	acc.CurrentBalance = acc.CurrentBalance.Add(delta)
	acc.UpdatedAt = updatedAt
	return acc.CurrentBalance, nil
}

func (m *MockAccountRepository) SetActive(ctx context.Context, orgID, id string, active bool, updatedAt time.Time) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, orgID, id, active, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok || acc.OrganizationID != orgID {
		return domain.ErrAccountNotFound
	}
	acc.Active = active
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, orgID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.OrganizationID == orgID {
			accounts = append(accounts, acc)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	if offset >= len(accounts) {
		return nil, nil
	}
	accounts = accounts[offset:]
	if limit > 0 && limit < len(accounts) {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

// MockTransactionRepository is an in-memory TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc                  func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc                 func(ctx context.Context, orgID, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc        func(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Transaction, error)
	GetPairPartnerForUpdateFunc func(ctx context.Context, tx usecase.Transaction, orgID, pairID, excludeID string) (*domain.Transaction, error)
	UpdateDetailsFunc           func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	UpdateTransferStatusFunc    func(ctx context.Context, tx usecase.Transaction, orgID, pairID string, status domain.TransferStatus, updatedAt time.Time) error
	DeleteFunc                  func(ctx context.Context, tx usecase.Transaction, orgID, id string) error
	DeleteByPairFunc            func(ctx context.Context, tx usecase.Transaction, orgID, pairID string) error
	ListFunc                    func(ctx context.Context, orgID string, filter usecase.TransactionFilter) ([]*domain.Transaction, int, error)
	SummaryFunc                 func(ctx context.Context, orgID string, filter usecase.TransactionFilter) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, orgID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok && txn.OrganizationID == orgID {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, orgID, id)
	}
	return m.GetByID(ctx, orgID, id)
}

func (m *MockTransactionRepository) GetPairPartnerForUpdate(ctx context.Context, tx usecase.Transaction, orgID, pairID, excludeID string) (*domain.Transaction, error) {
	if m.GetPairPartnerForUpdateFunc != nil {
		return m.GetPairPartnerForUpdateFunc(ctx, tx, orgID, pairID, excludeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.transactions {
		if txn.OrganizationID == orgID && txn.TransferPairID == pairID && txn.ID != excludeID {
			return txn, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) UpdateDetails(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateDetailsFunc != nil {
		return m.UpdateDetailsFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[txn.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) UpdateTransferStatus(ctx context.Context, tx usecase.Transaction, orgID, pairID string, status domain.TransferStatus, updatedAt time.Time) error {
	if m.UpdateTransferStatusFunc != nil {
		return m.UpdateTransferStatusFunc(ctx, tx, orgID, pairID, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, txn := range m.transactions {
		if txn.OrganizationID == orgID && txn.TransferPairID == pairID {
			txn.TransferStatus = status
			txn.UpdatedAt = updatedAt
		}
	}
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, orgID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, orgID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok || txn.OrganizationID != orgID {
		return domain.ErrTransactionNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *MockTransactionRepository) DeleteByPair(ctx context.Context, tx usecase.Transaction, orgID, pairID string) error {
	if m.DeleteByPairFunc != nil {
		return m.DeleteByPairFunc(ctx, tx, orgID, pairID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, txn := range m.transactions {
		if txn.OrganizationID == orgID && txn.TransferPairID == pairID {
			delete(m.transactions, id)
		}
	}
	return nil
}

func (m *MockTransactionRepository) List(ctx context.Context, orgID string, filter usecase.TransactionFilter) ([]*domain.Transaction, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, orgID, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.OrganizationID != orgID {
			continue
		}
		if filter.AccountID != "" && txn.AccountID != filter.AccountID {
			continue
		}
		if filter.Direction != "" && txn.Direction != filter.Direction {
			continue
		}
		out = append(out, txn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *MockTransactionRepository) Summary(ctx context.Context, orgID string, filter usecase.TransactionFilter) (decimal.Decimal, decimal.Decimal, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, orgID, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	credits, debits := decimal.Zero, decimal.Zero
	for _, txn := range m.transactions {
		if txn.OrganizationID != orgID {
			continue
		}
		if filter.AccountID != "" && txn.AccountID != filter.AccountID {
			continue
		}
		if txn.Direction == domain.DirectionCredit {
			credits = credits.Add(txn.Amount)
		} else {
			debits = debits.Add(txn.Amount)
		}
	}
	return credits, debits, nil
}

func (m *MockTransactionRepository) SumSignedByAccount(ctx context.Context, orgID, accountID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, txn := range m.transactions {
		if txn.OrganizationID == orgID && txn.AccountID == accountID {
			sum = sum.Add(txn.SignedAmount())
		}
	}
	return sum, nil
}

func (m *MockTransactionRepository) SumLinkedContributions(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, txn := range m.transactions {
		if txn.OrganizationID != orgID {
			continue
		}
		if k, id, ok := txn.Linked(); ok && k == kind && id == recordID {
			sum = sum.Add(txn.LinkedContribution())
		}
	}
	return sum, nil
}

func (m *MockTransactionRepository) ClearRecordLinks(ctx context.Context, tx usecase.Transaction, orgID string, kind domain.RecordKind, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, txn := range m.transactions {
		if txn.OrganizationID != orgID {
			continue
		}
		if k, id, ok := txn.Linked(); ok && k == kind && id == recordID {
			txn.SaleID = ""
			txn.ExpenseID = ""
		}
	}
	return nil
}

func recordKey(kind domain.RecordKind, id string) string {
	return string(kind) + "/" + id
}

// MockRecordRepository is an in-memory RecordRepository.
type MockRecordRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Record

	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, orgID string, kind domain.RecordKind, id string) (*domain.Record, error)
	UpdateCollectedFunc  func(ctx context.Context, tx usecase.Transaction, rec *domain.Record) error
}

func NewMockRecordRepository() *MockRecordRepository {
	return &MockRecordRepository{
		records: make(map[string]*domain.Record),
	}
}

func (m *MockRecordRepository) Create(ctx context.Context, tx usecase.Transaction, rec *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey(rec.Kind, rec.ID)] = rec
	return nil
}

func (m *MockRecordRepository) GetByID(ctx context.Context, orgID string, kind domain.RecordKind, id string) (*domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.records[recordKey(kind, id)]; ok && rec.OrganizationID == orgID {
		return rec, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (m *MockRecordRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID string, kind domain.RecordKind, id string) (*domain.Record, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, orgID, kind, id)
	}
	return m.GetByID(ctx, orgID, kind, id)
}

func (m *MockRecordRepository) UpdateCollected(ctx context.Context, tx usecase.Transaction, rec *domain.Record) error {
	if m.UpdateCollectedFunc != nil {
		return m.UpdateCollectedFunc(ctx, tx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[recordKey(rec.Kind, rec.ID)]; !ok {
		return domain.ErrRecordNotFound
	}
	m.records[recordKey(rec.Kind, rec.ID)] = rec
	return nil
}

func (m *MockRecordRepository) Delete(ctx context.Context, tx usecase.Transaction, orgID string, kind domain.RecordKind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey(kind, id)]
	if !ok || rec.OrganizationID != orgID {
		return domain.ErrRecordNotFound
	}
	delete(m.records, recordKey(kind, id))
	return nil
}

func (m *MockRecordRepository) List(ctx context.Context, orgID string, kind domain.RecordKind, limit, offset int) ([]*domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Record
	for _, rec := range m.records {
		if rec.OrganizationID == orgID && rec.Kind == kind {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockRecordRepository) ListOutstanding(ctx context.Context, orgID string, kind domain.RecordKind, dueBefore time.Time) ([]*domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Record
	for _, rec := range m.records {
		if rec.OrganizationID != orgID || rec.Kind != kind {
			continue
		}
		if rec.Status == domain.PaymentPaid {
			continue
		}
		if rec.DueDate != nil && rec.DueDate.After(dueBefore) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockInstallmentRepository is an in-memory InstallmentRepository.
type MockInstallmentRepository struct {
	mu           sync.RWMutex
	installments map[string]*domain.Installment
}

func NewMockInstallmentRepository() *MockInstallmentRepository {
	return &MockInstallmentRepository{
		installments: make(map[string]*domain.Installment),
	}
}

func (m *MockInstallmentRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, installments []*domain.Installment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range installments {
		m.installments[inst.ID] = inst
	}
	return nil
}

func (m *MockInstallmentRepository) DeleteForRecord(ctx context.Context, tx usecase.Transaction, orgID string, kind domain.RecordKind, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, inst := range m.installments {
		if inst.OrganizationID == orgID && inst.RecordKind == kind && inst.RecordID == recordID {
			delete(m.installments, id)
		}
	}
	return nil
}

func (m *MockInstallmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Installment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inst, ok := m.installments[id]; ok && inst.OrganizationID == orgID {
		return inst, nil
	}
	return nil, domain.ErrInstallmentNotFound
}

func (m *MockInstallmentRepository) UpdatePaid(ctx context.Context, tx usecase.Transaction, inst *domain.Installment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.installments[inst.ID]; !ok {
		return domain.ErrInstallmentNotFound
	}
	m.installments[inst.ID] = inst
	return nil
}

func (m *MockInstallmentRepository) ListByRecord(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) ([]*domain.Installment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Installment
	for _, inst := range m.installments {
		if inst.OrganizationID == orgID && inst.RecordKind == kind && inst.RecordID == recordID {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// MockPaymentRepository is an in-memory PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, p *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok && p.OrganizationID == orgID {
		return p, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Payment, error) {
	return m.GetByID(ctx, orgID, id)
}

func (m *MockPaymentRepository) GetByTransactionID(ctx context.Context, tx usecase.Transaction, orgID, transactionID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.OrganizationID == orgID && p.TransactionID == transactionID {
			return p, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) Delete(ctx context.Context, tx usecase.Transaction, orgID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || p.OrganizationID != orgID {
		return domain.ErrPaymentNotFound
	}
	delete(m.payments, id)
	return nil
}

func (m *MockPaymentRepository) ListByRecord(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Payment
	for _, p := range m.payments {
		if p.OrganizationID == orgID && p.RecordKind == kind && p.RecordID == recordID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
