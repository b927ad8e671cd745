package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

const recordColumns = `
	id, organization_id, contact_id, number, date, due_date, total,
	collected, status, primary_entry_id, currency, notes, created_by,
	created_at, updated_at`

// recordTable maps a record kind to its table. Sales and expenses share
// a shape but live in separate tables.
func recordTable(kind domain.RecordKind) (string, error) {
	switch kind {
	case domain.RecordKindSale:
		return "sales", nil
	case domain.RecordKindExpense:
		return "expenses", nil
	default:
		return "", domain.ErrRecordNotFound
	}
}

// RecordRepository implements usecase.RecordRepository over the sales
// and expenses tables.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// Create inserts a sale or expense, inside the caller's transaction
// when one is given.
func (r *RecordRepository) Create(ctx context.Context, tx usecase.Transaction, rec *domain.Record) error {
	table, err := recordTable(rec.Kind)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ` + table + ` (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	var dueDate pgtype.Timestamptz
	if rec.DueDate != nil {
		dueDate = timeToPgTimestamptz(*rec.DueDate)
	}

	var q querier = r.pool
	if tx != nil {
		q = txQuerier(tx)
	}

	_, err = q.Exec(ctx, query,
		rec.ID,
		rec.OrganizationID,
		rec.ContactID,
		rec.Number,
		timeToPgTimestamptz(rec.Date),
		dueDate,
		decimalToNumeric(rec.Total),
		decimalToNumeric(rec.Collected),
		string(rec.Status),
		rec.PrimaryEntryID,
		rec.Currency,
		rec.Notes,
		rec.CreatedBy,
		timeToPgTimestamptz(rec.CreatedAt),
		timeToPgTimestamptz(rec.UpdatedAt),
	)

	return err
}

// GetByID retrieves a record by ID.
func (r *RecordRepository) GetByID(ctx context.Context, orgID string, kind domain.RecordKind, id string) (*domain.Record, error) {
	table, err := recordTable(kind)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + recordColumns + `
		FROM ` + table + `
		WHERE organization_id = $1 AND id = $2`

	return scanRecord(r.pool.QueryRow(ctx, query, orgID, id), kind)
}

// GetByIDForUpdate retrieves a record with a FOR UPDATE lock.
func (r *RecordRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID string, kind domain.RecordKind, id string) (*domain.Record, error) {
	table, err := recordTable(kind)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + recordColumns + `
		FROM ` + table + `
		WHERE organization_id = $1 AND id = $2
		FOR UPDATE`

	return scanRecord(txQuerier(tx).QueryRow(ctx, query, orgID, id), kind)
}

// UpdateCollected persists the collected total, derived status, and
// primary link.
func (r *RecordRepository) UpdateCollected(ctx context.Context, tx usecase.Transaction, rec *domain.Record) error {
	table, err := recordTable(rec.Kind)
	if err != nil {
		return err
	}

	query := `
		UPDATE ` + table + `
		SET collected = $3, status = $4, primary_entry_id = $5, updated_at = $6
		WHERE organization_id = $1 AND id = $2`

	tag, err := txQuerier(tx).Exec(ctx, query,
		rec.OrganizationID,
		rec.ID,
		decimalToNumeric(rec.Collected),
		string(rec.Status),
		rec.PrimaryEntryID,
		timeToPgTimestamptz(rec.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// Delete removes a record.
func (r *RecordRepository) Delete(ctx context.Context, tx usecase.Transaction, orgID string, kind domain.RecordKind, id string) error {
	table, err := recordTable(kind)
	if err != nil {
		return err
	}

	query := `DELETE FROM ` + table + ` WHERE organization_id = $1 AND id = $2`

	tag, err := txQuerier(tx).Exec(ctx, query, orgID, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// List retrieves the organization's records of one kind, newest first.
func (r *RecordRepository) List(ctx context.Context, orgID string, kind domain.RecordKind, limit, offset int) ([]*domain.Record, error) {
	table, err := recordTable(kind)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + recordColumns + `
		FROM ` + table + `
		WHERE organization_id = $1
		ORDER BY date DESC, id
		LIMIT $2 OFFSET $3`

	return r.queryRecords(ctx, kind, query, orgID, limit, offset)
}

// ListOutstanding retrieves unsettled records due on or before the
// given date, or with no due date at all.
func (r *RecordRepository) ListOutstanding(ctx context.Context, orgID string, kind domain.RecordKind, dueBefore time.Time) ([]*domain.Record, error) {
	table, err := recordTable(kind)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + recordColumns + `
		FROM ` + table + `
		WHERE organization_id = $1
		  AND status <> 'paid'
		  AND (due_date IS NULL OR due_date <= $2)
		ORDER BY due_date NULLS LAST, id`

	return r.queryRecords(ctx, kind, query, orgID, timeToPgTimestamptz(dueBefore))
}

func (r *RecordRepository) queryRecords(ctx context.Context, kind domain.RecordKind, query string, args ...any) ([]*domain.Record, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.Record

	for rows.Next() {
		rec, err := scanRecordRow(rows, kind)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

func scanRecord(row pgx.Row, kind domain.RecordKind) (*domain.Record, error) {
	rec, err := scanRecordRow(row, kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return rec, nil
}

func scanRecordRow(row pgx.Row, kind domain.RecordKind) (*domain.Record, error) {
	var (
		rec              domain.Record
		status           string
		total, collected pgtype.Numeric
		date, dueDate    pgtype.Timestamptz
		created, updated pgtype.Timestamptz
	)

	err := row.Scan(
		&rec.ID,
		&rec.OrganizationID,
		&rec.ContactID,
		&rec.Number,
		&date,
		&dueDate,
		&total,
		&collected,
		&status,
		&rec.PrimaryEntryID,
		&rec.Currency,
		&rec.Notes,
		&rec.CreatedBy,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	rec.Kind = kind
	rec.Status = domain.PaymentStatus(status)
	rec.Total = numericToDecimal(total)
	rec.Collected = numericToDecimal(collected)
	rec.Date = date.Time
	rec.CreatedAt = created.Time
	rec.UpdatedAt = updated.Time

	if dueDate.Valid {
		t := dueDate.Time
		rec.DueDate = &t
	}

	return &rec, nil
}
