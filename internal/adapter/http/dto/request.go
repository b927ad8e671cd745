package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

var validate = validator.New()

// Validate runs struct-tag validation on a request.
func Validate(req any) error {
	return validate.Struct(req)
}

// CreateAccountRequest represents a request to create a bank account.
type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required,max=255"`
	BankName       string          `json:"bank_name" validate:"max=255"`
	AccountNumber  string          `json:"account_number" validate:"max=64"`
	Currency       string          `json:"currency" validate:"required,len=3"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Notes          string          `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(orgID, userID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OrganizationID: orgID,
		Name:           r.Name,
		BankName:       r.BankName,
		AccountNumber:  r.AccountNumber,
		Currency:       r.Currency,
		InitialBalance: r.InitialBalance,
		Notes:          r.Notes,
		CreatedBy:      userID,
	}
}

// AdjustBalanceRequest represents a request to reconcile an account's
// balance to a target value via an adjustment entry.
type AdjustBalanceRequest struct {
	TargetBalance decimal.Decimal `json:"target_balance"`
	Reason        string          `json:"reason" validate:"max=500"`
}

// CreateTransactionRequest represents a request to create a ledger entry.
type CreateTransactionRequest struct {
	AccountID     string          `json:"account_id" validate:"required"`
	Direction     string          `json:"direction" validate:"required,oneof=credit debit"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description" validate:"max=500"`
	Category      string          `json:"category" validate:"max=100"`
	Reference     string          `json:"reference" validate:"max=100"`
	PaymentMethod string          `json:"payment_method" validate:"max=50"`
	Notes         string          `json:"notes"`
	ContactID     string          `json:"contact_id"`
	SaleID        string          `json:"sale_id"`
	ExpenseID     string          `json:"expense_id"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput(orgID, userID string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		OrganizationID: orgID,
		AccountID:      r.AccountID,
		Direction:      domain.Direction(r.Direction),
		Amount:         r.Amount,
		GrossAmount:    r.GrossAmount,
		Date:           r.Date,
		Description:    r.Description,
		Category:       r.Category,
		Reference:      r.Reference,
		PaymentMethod:  r.PaymentMethod,
		Notes:          r.Notes,
		ContactID:      r.ContactID,
		SaleID:         r.SaleID,
		ExpenseID:      r.ExpenseID,
		CreatedBy:      userID,
	}
}

// LinkChangeRequest moves a ledger entry's sale/expense link.
type LinkChangeRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=sale expense"`
	RecordID string `json:"record_id" validate:"required"`
}

// UpdateTransactionRequest represents a request to edit a ledger entry.
// Absent fields are left untouched.
type UpdateTransactionRequest struct {
	Description   *string            `json:"description,omitempty"`
	Category      *string            `json:"category,omitempty"`
	Reference     *string            `json:"reference,omitempty"`
	PaymentMethod *string            `json:"payment_method,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	ContactID     *string            `json:"contact_id,omitempty"`
	Link          *LinkChangeRequest `json:"link,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(orgID, id, userID string) usecase.UpdateTransactionInput {
	input := usecase.UpdateTransactionInput{
		OrganizationID: orgID,
		ID:             id,
		Description:    r.Description,
		Category:       r.Category,
		Reference:      r.Reference,
		PaymentMethod:  r.PaymentMethod,
		Notes:          r.Notes,
		ContactID:      r.ContactID,
		UpdatedBy:      userID,
	}

	if r.Link != nil {
		input.Link = &usecase.LinkChange{
			Kind:     domain.RecordKind(r.Link.Kind),
			RecordID: r.Link.RecordID,
		}
	}

	return input
}

// ConvertTransactionRequest turns an unlinked ledger entry into a new
// sale or expense it settles. All fields are optional overrides.
type ConvertTransactionRequest struct {
	ContactID string `json:"contact_id" validate:"omitempty,max=100"`
	Number    string `json:"number" validate:"omitempty,max=100"`
	Notes     string `json:"notes" validate:"omitempty,max=1000"`
}

// ToUseCaseInput converts to use case input.
func (r *ConvertTransactionRequest) ToUseCaseInput(orgID, id, userID string) usecase.ConvertTransactionInput {
	return usecase.ConvertTransactionInput{
		OrganizationID: orgID,
		TransactionID:  id,
		ContactID:      r.ContactID,
		Number:         r.Number,
		Notes:          r.Notes,
		ConvertedBy:    userID,
	}
}

// CreateTransferRequest represents a request to move money between two
// accounts of the same organization.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id" validate:"required"`
	ToAccountID   string          `json:"to_account_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description" validate:"max=500"`
	Reference     string          `json:"reference" validate:"max=100"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput(orgID, userID string) usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		OrganizationID: orgID,
		FromAccountID:  r.FromAccountID,
		ToAccountID:    r.ToAccountID,
		Amount:         r.Amount,
		Date:           r.Date,
		Description:    r.Description,
		Reference:      r.Reference,
		CreatedBy:      userID,
	}
}

// UpdateTransferStatusRequest changes the advisory status of a transfer pair.
type UpdateTransferStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=received in_transit in_account"`
}

// CreateRecordRequest represents a request to create a sale or expense.
type CreateRecordRequest struct {
	ContactID string          `json:"contact_id"`
	Number    string          `json:"number" validate:"max=100"`
	Date      time.Time       `json:"date"`
	DueDate   *time.Time      `json:"due_date,omitempty"`
	Total     decimal.Decimal `json:"total" validate:"required"`
	Currency  string          `json:"currency" validate:"omitempty,len=3"`
	Notes     string          `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRecordRequest) ToUseCaseInput(orgID string, kind domain.RecordKind, userID string) usecase.CreateRecordInput {
	return usecase.CreateRecordInput{
		OrganizationID: orgID,
		Kind:           kind,
		ContactID:      r.ContactID,
		Number:         r.Number,
		Date:           r.Date,
		DueDate:        r.DueDate,
		Total:          r.Total,
		Currency:       r.Currency,
		Notes:          r.Notes,
		CreatedBy:      userID,
	}
}

// InstallmentItem is one scheduled installment in a schedule request.
type InstallmentItem struct {
	DueDate time.Time       `json:"due_date" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"required"`
}

// CreateScheduleRequest replaces a record's payment schedule.
type CreateScheduleRequest struct {
	Installments []InstallmentItem `json:"installments" validate:"required,min=1,dive"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateScheduleRequest) ToUseCaseInput(orgID string, kind domain.RecordKind, recordID, userID string) usecase.CreateScheduleInput {
	installments := make([]usecase.InstallmentInput, len(r.Installments))
	for i, item := range r.Installments {
		installments[i] = usecase.InstallmentInput{
			DueDate: item.DueDate,
			Amount:  item.Amount,
		}
	}

	return usecase.CreateScheduleInput{
		OrganizationID: orgID,
		RecordKind:     kind,
		RecordID:       recordID,
		Installments:   installments,
		CreatedBy:      userID,
	}
}

// RecordPaymentRequest represents a request to settle part of a sale or
// expense, optionally against one installment and through one account.
type RecordPaymentRequest struct {
	InstallmentID string          `json:"installment_id"`
	AccountID     string          `json:"account_id"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Date          time.Time       `json:"date"`
	Method        string          `json:"method" validate:"required"`
	Reference     string          `json:"reference" validate:"max=100"`
	Notes         string          `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput(orgID string, kind domain.RecordKind, recordID, userID string) usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		OrganizationID: orgID,
		RecordKind:     kind,
		RecordID:       recordID,
		InstallmentID:  r.InstallmentID,
		AccountID:      r.AccountID,
		Amount:         r.Amount,
		Date:           r.Date,
		Method:         r.Method,
		Reference:      r.Reference,
		Notes:          r.Notes,
		CreatedBy:      userID,
	}
}
