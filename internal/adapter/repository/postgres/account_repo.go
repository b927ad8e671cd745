package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

const accountColumns = `
	id, organization_id, name, bank_name, account_number, currency,
	initial_balance, current_balance, active, notes, created_by,
	created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new bank account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO bank_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.OrganizationID,
		account.Name,
		account.BankName,
		account.AccountNumber,
		account.Currency,
		decimalToNumeric(account.InitialBalance),
		decimalToNumeric(account.CurrentBalance),
		account.Active,
		account.Notes,
		account.CreatedBy,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM bank_accounts
		WHERE organization_id = $1 AND id = $2`

	return scanAccount(r.pool.QueryRow(ctx, query, orgID, id))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM bank_accounts
		WHERE organization_id = $1 AND id = $2
		FOR UPDATE`

	return scanAccount(txQuerier(tx).QueryRow(ctx, query, orgID, id))
}

// GetByIDsForUpdate retrieves multiple accounts with FOR UPDATE locks.
// Rows lock in the order the sorted id list visits them.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, orgID string, ids []string) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM bank_accounts
		WHERE organization_id = $1 AND id = ANY($2)
		ORDER BY id
		FOR UPDATE`

	rows, err := txQuerier(tx).Query(ctx, query, orgID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account

	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// ApplyDelta adds a signed amount to the stored balance and returns the
// new value. The caller holds the row lock already; the arithmetic runs
// in the database so the stored balance is never overwritten from a
// stale read.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, orgID, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE bank_accounts
		SET current_balance = current_balance + $3, updated_at = $4
		WHERE organization_id = $1 AND id = $2
		RETURNING current_balance`

	var balance pgtype.Numeric

	err := txQuerier(tx).QueryRow(ctx, query, orgID, id, decimalToNumeric(delta), timeToPgTimestamptz(updatedAt)).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}

		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// SetActive flips the active flag.
func (r *AccountRepository) SetActive(ctx context.Context, orgID, id string, active bool, updatedAt time.Time) error {
	query := `
		UPDATE bank_accounts
		SET active = $3, updated_at = $4
		WHERE organization_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, orgID, id, active, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List retrieves the organization's accounts.
func (r *AccountRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM bank_accounts
		WHERE organization_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account

	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	account, err := scanAccountRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

func scanAccountRow(row pgx.Row) (*domain.Account, error) {
	var (
		account            domain.Account
		initial, current   pgtype.Numeric
		createdAt, updated pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.OrganizationID,
		&account.Name,
		&account.BankName,
		&account.AccountNumber,
		&account.Currency,
		&initial,
		&current,
		&account.Active,
		&account.Notes,
		&account.CreatedBy,
		&createdAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	account.InitialBalance = numericToDecimal(initial)
	account.CurrentBalance = numericToDecimal(current)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updated.Time

	return &account, nil
}
