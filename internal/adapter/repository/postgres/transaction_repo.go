package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

const transactionColumns = `
	id, organization_id, account_id, direction, amount, gross_amount,
	date, description, category, reference, payment_method, notes,
	contact_id, sale_id, expense_id, is_internal_transfer,
	transfer_pair_id, transfer_status, balance_after, created_by,
	created_at, updated_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a ledger entry inside the caller's transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	query := `
		INSERT INTO bank_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	_, err := txQuerier(tx).Exec(ctx, query,
		txn.ID,
		txn.OrganizationID,
		txn.AccountID,
		string(txn.Direction),
		decimalToNumeric(txn.Amount),
		decimalToNumeric(txn.GrossAmount),
		timeToPgTimestamptz(txn.Date),
		txn.Description,
		txn.Category,
		txn.Reference,
		txn.PaymentMethod,
		txn.Notes,
		txn.ContactID,
		txn.SaleID,
		txn.ExpenseID,
		txn.InternalTransfer,
		txn.TransferPairID,
		string(txn.TransferStatus),
		decimalToNumeric(txn.BalanceAfter),
		txn.CreatedBy,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	return err
}

// GetByID retrieves an entry by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE organization_id = $1 AND id = $2`

	return scanTransaction(r.pool.QueryRow(ctx, query, orgID, id))
}

// GetByIDForUpdate retrieves an entry by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE organization_id = $1 AND id = $2
		FOR UPDATE`

	return scanTransaction(txQuerier(tx).QueryRow(ctx, query, orgID, id))
}

// GetPairPartnerForUpdate locates the other leg of a transfer pair.
func (r *TransactionRepository) GetPairPartnerForUpdate(ctx context.Context, tx usecase.Transaction, orgID, pairID, excludeID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE organization_id = $1 AND transfer_pair_id = $2 AND id <> $3
		FOR UPDATE`

	return scanTransaction(txQuerier(tx).QueryRow(ctx, query, orgID, pairID, excludeID))
}

// UpdateDetails persists descriptive fields and the sale/expense link.
func (r *TransactionRepository) UpdateDetails(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	query := `
		UPDATE bank_transactions
		SET description = $3, category = $4, reference = $5,
		    payment_method = $6, notes = $7, contact_id = $8,
		    sale_id = $9, expense_id = $10, updated_at = $11
		WHERE organization_id = $1 AND id = $2`

	tag, err := txQuerier(tx).Exec(ctx, query,
		txn.OrganizationID,
		txn.ID,
		txn.Description,
		txn.Category,
		txn.Reference,
		txn.PaymentMethod,
		txn.Notes,
		txn.ContactID,
		txn.SaleID,
		txn.ExpenseID,
		timeToPgTimestamptz(txn.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// UpdateTransferStatus sets the status on every leg of a pair.
func (r *TransactionRepository) UpdateTransferStatus(ctx context.Context, tx usecase.Transaction, orgID, pairID string, status domain.TransferStatus, updatedAt time.Time) error {
	query := `
		UPDATE bank_transactions
		SET transfer_status = $3, updated_at = $4
		WHERE organization_id = $1 AND transfer_pair_id = $2`

	_, err := txQuerier(tx).Exec(ctx, query, orgID, pairID, string(status), timeToPgTimestamptz(updatedAt))

	return err
}

// Delete removes a single entry.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, orgID, id string) error {
	query := `DELETE FROM bank_transactions WHERE organization_id = $1 AND id = $2`

	tag, err := txQuerier(tx).Exec(ctx, query, orgID, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// DeleteByPair removes both legs of a transfer pair.
func (r *TransactionRepository) DeleteByPair(ctx context.Context, tx usecase.Transaction, orgID, pairID string) error {
	query := `DELETE FROM bank_transactions WHERE organization_id = $1 AND transfer_pair_id = $2`

	_, err := txQuerier(tx).Exec(ctx, query, orgID, pairID)

	return err
}

// buildFilter renders the WHERE clauses of a filtered listing. The
// organization clause is always first.
func buildFilter(orgID string, filter usecase.TransactionFilter) (string, []any) {
	clauses := []string{"organization_id = $1"}
	args := []any{orgID}

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.AccountID != "" {
		add("account_id = $%d", filter.AccountID)
	}

	if filter.Direction != "" {
		add("direction = $%d", string(filter.Direction))
	}

	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}

	if filter.ContactID != "" {
		add("contact_id = $%d", filter.ContactID)
	}

	if filter.StartDate != nil {
		add("date >= $%d", timeToPgTimestamptz(*filter.StartDate))
	}

	if filter.EndDate != nil {
		add("date <= $%d", timeToPgTimestamptz(*filter.EndDate))
	}

	if filter.Linked != nil {
		if *filter.Linked {
			clauses = append(clauses, "(sale_id <> '' OR expense_id <> '')")
		} else {
			clauses = append(clauses, "sale_id = '' AND expense_id = ''")
		}
	}

	if filter.Search != "" {
		args = append(args, filter.Search)
		clauses = append(clauses, fmt.Sprintf(
			"(description ILIKE '%%' || $%d || '%%' OR reference ILIKE '%%' || $%d || '%%')",
			len(args), len(args),
		))
	}

	return strings.Join(clauses, " AND "), args
}

// List retrieves entries matching the filter, newest first, plus the
// total match count.
func (r *TransactionRepository) List(ctx context.Context, orgID string, filter usecase.TransactionFilter) ([]*domain.Transaction, int, error) {
	where, args := buildFilter(orgID, filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM bank_transactions WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+transactionColumns+`
		FROM bank_transactions
		WHERE `+where+`
		ORDER BY date DESC, created_at DESC, id
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction

	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, 0, err
		}

		transactions = append(transactions, txn)
	}

	return transactions, total, rows.Err()
}

// Summary returns credit and debit totals matching the filter.
func (r *TransactionRepository) Summary(ctx context.Context, orgID string, filter usecase.TransactionFilter) (decimal.Decimal, decimal.Decimal, error) {
	where, args := buildFilter(orgID, filter)

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = 'credit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE direction = 'debit'), 0)
		FROM bank_transactions
		WHERE ` + where

	var credits, debits pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&credits, &debits); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(credits), numericToDecimal(debits), nil
}

// SumSignedByAccount returns the signed total of an account's entries.
func (r *TransactionRepository) SumSignedByAccount(ctx context.Context, orgID, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END), 0)
		FROM bank_transactions
		WHERE organization_id = $1 AND account_id = $2`

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, orgID, accountID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// SumLinkedContributions totals what the linked entries contribute to a
// record: the gross amount for sales when set, the amount otherwise.
func (r *TransactionRepository) SumLinkedContributions(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) (decimal.Decimal, error) {
	var query string

	switch kind {
	case domain.RecordKindSale:
		query = `
			SELECT COALESCE(SUM(CASE WHEN gross_amount <> 0 THEN gross_amount ELSE amount END), 0)
			FROM bank_transactions
			WHERE organization_id = $1 AND sale_id = $2`
	case domain.RecordKindExpense:
		query = `
			SELECT COALESCE(SUM(amount), 0)
			FROM bank_transactions
			WHERE organization_id = $1 AND expense_id = $2`
	default:
		return decimal.Zero, domain.ErrRecordNotFound
	}

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, orgID, recordID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// ClearRecordLinks detaches every entry pointing at a record without
// touching balances.
func (r *TransactionRepository) ClearRecordLinks(ctx context.Context, tx usecase.Transaction, orgID string, kind domain.RecordKind, recordID string) error {
	var query string

	switch kind {
	case domain.RecordKindSale:
		query = `UPDATE bank_transactions SET sale_id = '' WHERE organization_id = $1 AND sale_id = $2`
	case domain.RecordKindExpense:
		query = `UPDATE bank_transactions SET expense_id = '' WHERE organization_id = $1 AND expense_id = $2`
	default:
		return domain.ErrRecordNotFound
	}

	_, err := txQuerier(tx).Exec(ctx, query, orgID, recordID)

	return err
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	txn, err := scanTransactionRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return txn, nil
}

func scanTransactionRow(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn                    domain.Transaction
		direction, status      string
		amount, gross, balance pgtype.Numeric
		date, created, updated pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.OrganizationID,
		&txn.AccountID,
		&direction,
		&amount,
		&gross,
		&date,
		&txn.Description,
		&txn.Category,
		&txn.Reference,
		&txn.PaymentMethod,
		&txn.Notes,
		&txn.ContactID,
		&txn.SaleID,
		&txn.ExpenseID,
		&txn.InternalTransfer,
		&txn.TransferPairID,
		&status,
		&balance,
		&txn.CreatedBy,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	txn.Direction = domain.Direction(direction)
	txn.TransferStatus = domain.TransferStatus(status)
	txn.Amount = numericToDecimal(amount)
	txn.GrossAmount = numericToDecimal(gross)
	txn.BalanceAfter = numericToDecimal(balance)
	txn.Date = date.Time
	txn.CreatedAt = created.Time
	txn.UpdatedAt = updated.Time

	return &txn, nil
}
