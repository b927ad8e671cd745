package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents a bank account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	BankName       string          `json:"bank_name,omitempty"`
	AccountNumber  string          `json:"account_number,omitempty"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Active         bool            `json:"active"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		BankName:       a.BankName,
		AccountNumber:  a.AccountNumber,
		Currency:       a.Currency,
		InitialBalance: a.InitialBalance,
		CurrentBalance: a.CurrentBalance,
		Active:         a.Active,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// BalanceResponse carries an account's current balance.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"account_id"`
	Direction        string          `json:"direction"`
	Amount           decimal.Decimal `json:"amount"`
	GrossAmount      decimal.Decimal `json:"gross_amount,omitempty"`
	Date             time.Time       `json:"date"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category,omitempty"`
	Reference        string          `json:"reference,omitempty"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	ContactID        string          `json:"contact_id,omitempty"`
	SaleID           string          `json:"sale_id,omitempty"`
	ExpenseID        string          `json:"expense_id,omitempty"`
	InternalTransfer bool            `json:"internal_transfer"`
	TransferPairID   string          `json:"transfer_pair_id,omitempty"`
	TransferStatus   string          `json:"transfer_status,omitempty"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:               t.ID,
		AccountID:        t.AccountID,
		Direction:        string(t.Direction),
		Amount:           t.Amount,
		GrossAmount:      t.GrossAmount,
		Date:             t.Date,
		Description:      t.Description,
		Category:         t.Category,
		Reference:        t.Reference,
		PaymentMethod:    t.PaymentMethod,
		Notes:            t.Notes,
		ContactID:        t.ContactID,
		SaleID:           t.SaleID,
		ExpenseID:        t.ExpenseID,
		InternalTransfer: t.InternalTransfer,
		TransferPairID:   t.TransferPairID,
		TransferStatus:   string(t.TransferStatus),
		BalanceAfter:     t.BalanceAfter,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransactionListResponse is a page of ledger entries with the total
// match count for pagination.
type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int                    `json:"total"`
}

// SummaryResponse holds credit/debit totals for a filtered set of
// ledger entries.
type SummaryResponse struct {
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
	Net     decimal.Decimal `json:"net"`
}

// SummaryFromUseCase converts a use case summary to a response.
func SummaryFromUseCase(s *usecase.TransactionSummary) *SummaryResponse {
	return &SummaryResponse{
		Credits: s.Credits,
		Debits:  s.Debits,
		Net:     s.Net,
	}
}

// TransferResponse represents both legs of an internal transfer.
type TransferResponse struct {
	PairID      string               `json:"pair_id"`
	DebitEntry  *TransactionResponse `json:"debit_entry"`
	CreditEntry *TransactionResponse `json:"credit_entry"`
}

// TransferFromUseCase converts a transfer result to a response.
func TransferFromUseCase(t *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		PairID:      t.PairID,
		DebitEntry:  TransactionFromDomain(t.DebitEntry),
		CreditEntry: TransactionFromDomain(t.CreditEntry),
	}
}

// RecordResponse represents a sale or expense in API responses.
type RecordResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	ContactID      string          `json:"contact_id,omitempty"`
	Number         string          `json:"number,omitempty"`
	Date           time.Time       `json:"date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Total          decimal.Decimal `json:"total"`
	Collected      decimal.Decimal `json:"collected"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Status         string          `json:"status"`
	PrimaryEntryID string          `json:"primary_entry_id,omitempty"`
	Currency       string          `json:"currency,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RecordFromDomain converts a domain record to a response.
func RecordFromDomain(r *domain.Record) *RecordResponse {
	return &RecordResponse{
		ID:             r.ID,
		Kind:           string(r.Kind),
		ContactID:      r.ContactID,
		Number:         r.Number,
		Date:           r.Date,
		DueDate:        r.DueDate,
		Total:          r.Total,
		Collected:      r.Collected,
		Outstanding:    r.Outstanding(),
		Status:         string(r.Status),
		PrimaryEntryID: r.PrimaryEntryID,
		Currency:       r.Currency,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// RecordsFromDomain converts domain records to responses.
func RecordsFromDomain(records []*domain.Record) []*RecordResponse {
	result := make([]*RecordResponse, len(records))
	for i, r := range records {
		result[i] = RecordFromDomain(r)
	}
	return result
}

// InstallmentResponse represents one scheduled installment.
type InstallmentResponse struct {
	ID        string          `json:"id"`
	Number    int             `json:"number"`
	DueDate   time.Time       `json:"due_date"`
	Amount    decimal.Decimal `json:"amount"`
	Paid      decimal.Decimal `json:"paid"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InstallmentFromDomain converts a domain installment to a response.
func InstallmentFromDomain(i *domain.Installment) *InstallmentResponse {
	return &InstallmentResponse{
		ID:        i.ID,
		Number:    i.Number,
		DueDate:   i.DueDate,
		Amount:    i.Amount,
		Paid:      i.Paid,
		Status:    string(i.Status),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// InstallmentsFromDomain converts domain installments to responses.
func InstallmentsFromDomain(installments []*domain.Installment) []*InstallmentResponse {
	result := make([]*InstallmentResponse, len(installments))
	for i, inst := range installments {
		result[i] = InstallmentFromDomain(inst)
	}
	return result
}

// PaymentResponse represents a recorded settlement.
type PaymentResponse struct {
	ID            string          `json:"id"`
	RecordKind    string          `json:"record_kind"`
	RecordID      string          `json:"record_id"`
	InstallmentID string          `json:"installment_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentFromDomain converts a domain payment to a response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		RecordKind:    string(p.RecordKind),
		RecordID:      p.RecordID,
		InstallmentID: p.InstallmentID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Date:          p.Date,
		Method:        p.Method,
		Reference:     p.Reference,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// PendingItemResponse is one unsettled record in a pending summary.
type PendingItemResponse struct {
	Record      *RecordResponse `json:"record"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Overdue     bool            `json:"overdue"`
}

// PendingSummaryResponse aggregates unsettled records of one kind.
type PendingSummaryResponse struct {
	Count            int                   `json:"count"`
	TotalOutstanding decimal.Decimal       `json:"total_outstanding"`
	Items            []PendingItemResponse `json:"items"`
}

// PendingSummaryFromUseCase converts a pending summary to a response.
func PendingSummaryFromUseCase(s *usecase.PendingSummary) *PendingSummaryResponse {
	items := make([]PendingItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = PendingItemResponse{
			Record:      RecordFromDomain(item.Record),
			Outstanding: item.Outstanding,
			Overdue:     item.Overdue,
		}
	}

	return &PendingSummaryResponse{
		Count:            s.Count,
		TotalOutstanding: s.TotalOutstanding,
		Items:            items,
	}
}

// AccountDriftResponse is one drifting account in a reconciliation report.
type AccountDriftResponse struct {
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Stored    decimal.Decimal `json:"stored"`
	Computed  decimal.Decimal `json:"computed"`
	Drift     decimal.Decimal `json:"drift"`
}

// RecordDriftResponse is one drifting record in a reconciliation report.
type RecordDriftResponse struct {
	RecordKind string          `json:"record_kind"`
	RecordID   string          `json:"record_id"`
	Stored     decimal.Decimal `json:"stored"`
	Linked     decimal.Decimal `json:"linked"`
	Drift      decimal.Decimal `json:"drift"`
}

// ReconciliationResponse reports every drifting row found in a pass.
type ReconciliationResponse struct {
	Clean           bool                   `json:"clean"`
	AccountsChecked int                    `json:"accounts_checked"`
	RecordsChecked  int                    `json:"records_checked"`
	AccountDrifts   []AccountDriftResponse `json:"account_drifts"`
	RecordDrifts    []RecordDriftResponse  `json:"record_drifts"`
}

// ReconciliationFromUseCase converts a reconciliation report to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationReport) *ReconciliationResponse {
	accounts := make([]AccountDriftResponse, len(r.AccountDrifts))
	for i, d := range r.AccountDrifts {
		accounts[i] = AccountDriftResponse{
			AccountID: d.AccountID,
			Name:      d.Name,
			Stored:    d.Stored,
			Computed:  d.Computed,
			Drift:     d.Drift,
		}
	}

	records := make([]RecordDriftResponse, len(r.RecordDrifts))
	for i, d := range r.RecordDrifts {
		records[i] = RecordDriftResponse{
			RecordKind: string(d.RecordKind),
			RecordID:   d.RecordID,
			Stored:     d.Stored,
			Linked:     d.Linked,
			Drift:      d.Drift,
		}
	}

	return &ReconciliationResponse{
		Clean:           r.Clean(),
		AccountsChecked: r.AccountsChecked,
		RecordsChecked:  r.RecordsChecked,
		AccountDrifts:   accounts,
		RecordDrifts:    records,
	}
}
