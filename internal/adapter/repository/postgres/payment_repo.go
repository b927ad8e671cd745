package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

const paymentColumns = `
	id, organization_id, record_kind, record_id, installment_id,
	transaction_id, amount, date, method, reference, notes, created_by,
	created_at`

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create inserts a payment inside the caller's transaction.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, p *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := txQuerier(tx).Exec(ctx, query,
		p.ID,
		p.OrganizationID,
		string(p.RecordKind),
		p.RecordID,
		p.InstallmentID,
		p.TransactionID,
		decimalToNumeric(p.Amount),
		timeToPgTimestamptz(p.Date),
		p.Method,
		p.Reference,
		p.Notes,
		p.CreatedBy,
		timeToPgTimestamptz(p.CreatedAt),
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE organization_id = $1 AND id = $2`

	return scanPayment(r.pool.QueryRow(ctx, query, orgID, id))
}

// GetByIDForUpdate retrieves a payment with a FOR UPDATE lock.
func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE organization_id = $1 AND id = $2
		FOR UPDATE`

	return scanPayment(txQuerier(tx).QueryRow(ctx, query, orgID, id))
}

// GetByTransactionID finds the payment that created the given bank
// entry. Holds the row lock so a concurrent cancellation cannot race
// the caller.
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, tx usecase.Transaction, orgID, transactionID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE organization_id = $1 AND transaction_id = $2
		FOR UPDATE`

	return scanPayment(txQuerier(tx).QueryRow(ctx, query, orgID, transactionID))
}

// Delete removes a payment.
func (r *PaymentRepository) Delete(ctx context.Context, tx usecase.Transaction, orgID, id string) error {
	query := `DELETE FROM payments WHERE organization_id = $1 AND id = $2`

	tag, err := txQuerier(tx).Exec(ctx, query, orgID, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

// ListByRecord retrieves a record's payments, newest first.
func (r *PaymentRepository) ListByRecord(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE organization_id = $1 AND record_kind = $2 AND record_id = $3
		ORDER BY date DESC, created_at DESC, id`

	rows, err := r.pool.Query(ctx, query, orgID, string(kind), recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment

	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, err
		}

		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	p, err := scanPaymentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	return p, nil
}

func scanPaymentRow(row pgx.Row) (*domain.Payment, error) {
	var (
		p             domain.Payment
		kind          string
		amount        pgtype.Numeric
		date, created pgtype.Timestamptz
	)

	err := row.Scan(
		&p.ID,
		&p.OrganizationID,
		&kind,
		&p.RecordID,
		&p.InstallmentID,
		&p.TransactionID,
		&amount,
		&date,
		&p.Method,
		&p.Reference,
		&p.Notes,
		&p.CreatedBy,
		&created,
	)
	if err != nil {
		return nil, err
	}

	p.RecordKind = domain.RecordKind(kind)
	p.Amount = numericToDecimal(amount)
	p.Date = date.Time
	p.CreatedAt = created.Time

	return &p, nil
}
