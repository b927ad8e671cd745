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

const installmentColumns = `
	id, organization_id, record_kind, record_id, number, due_date,
	amount, paid, status, created_at, updated_at`

// InstallmentRepository implements usecase.InstallmentRepository.
type InstallmentRepository struct {
	pool *pgxpool.Pool
}

// NewInstallmentRepository creates a new InstallmentRepository.
func NewInstallmentRepository(pool *pgxpool.Pool) *InstallmentRepository {
	return &InstallmentRepository{pool: pool}
}

// CreateBatch inserts a full schedule inside the caller's transaction.
func (r *InstallmentRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, installments []*domain.Installment) error {
	query := `
		INSERT INTO payment_schedules (` + installmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	q := txQuerier(tx)

	for _, inst := range installments {
		_, err := q.Exec(ctx, query,
			inst.ID,
			inst.OrganizationID,
			string(inst.RecordKind),
			inst.RecordID,
			inst.Number,
			timeToPgTimestamptz(inst.DueDate),
			decimalToNumeric(inst.Amount),
			decimalToNumeric(inst.Paid),
			string(inst.Status),
			timeToPgTimestamptz(inst.CreatedAt),
			timeToPgTimestamptz(inst.UpdatedAt),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// DeleteForRecord removes a record's whole schedule.
func (r *InstallmentRepository) DeleteForRecord(ctx context.Context, tx usecase.Transaction, orgID string, kind domain.RecordKind, recordID string) error {
	query := `
		DELETE FROM payment_schedules
		WHERE organization_id = $1 AND record_kind = $2 AND record_id = $3`

	_, err := txQuerier(tx).Exec(ctx, query, orgID, string(kind), recordID)

	return err
}

// GetByIDForUpdate retrieves an installment with a FOR UPDATE lock.
func (r *InstallmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM payment_schedules
		WHERE organization_id = $1 AND id = $2
		FOR UPDATE`

	inst, err := scanInstallmentRow(txQuerier(tx).QueryRow(ctx, query, orgID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInstallmentNotFound
		}

		return nil, err
	}

	return inst, nil
}

// UpdatePaid persists the paid total and derived status.
func (r *InstallmentRepository) UpdatePaid(ctx context.Context, tx usecase.Transaction, inst *domain.Installment) error {
	query := `
		UPDATE payment_schedules
		SET paid = $3, status = $4, updated_at = $5
		WHERE organization_id = $1 AND id = $2`

	tag, err := txQuerier(tx).Exec(ctx, query,
		inst.OrganizationID,
		inst.ID,
		decimalToNumeric(inst.Paid),
		string(inst.Status),
		timeToPgTimestamptz(inst.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrInstallmentNotFound
	}

	return nil
}

// ListByRecord retrieves a record's schedule ordered by number.
func (r *InstallmentRepository) ListByRecord(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) ([]*domain.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM payment_schedules
		WHERE organization_id = $1 AND record_kind = $2 AND record_id = $3
		ORDER BY number`

	rows, err := r.pool.Query(ctx, query, orgID, string(kind), recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []*domain.Installment

	for rows.Next() {
		inst, err := scanInstallmentRow(rows)
		if err != nil {
			return nil, err
		}

		installments = append(installments, inst)
	}

	return installments, rows.Err()
}

func scanInstallmentRow(row pgx.Row) (*domain.Installment, error) {
	var (
		inst                      domain.Installment
		kind, status              string
		amount, paid              pgtype.Numeric
		dueDate, created, updated pgtype.Timestamptz
	)

	err := row.Scan(
		&inst.ID,
		&inst.OrganizationID,
		&kind,
		&inst.RecordID,
		&inst.Number,
		&dueDate,
		&amount,
		&paid,
		&status,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	inst.RecordKind = domain.RecordKind(kind)
	inst.Status = domain.PaymentStatus(status)
	inst.Amount = numericToDecimal(amount)
	inst.Paid = numericToDecimal(paid)
	inst.DueDate = dueDate.Time
	inst.CreatedAt = created.Time
	inst.UpdatedAt = updated.Time

	return &inst, nil
}
