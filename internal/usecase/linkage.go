package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
)

// attachRecord adds a ledger contribution to a sale's or expense's
// collected total inside the caller's transaction. The record row is
// locked first so concurrent attach/detach events serialize.
func attachRecord(
	ctx context.Context,
	tx Transaction,
	records RecordRepository,
	orgID string,
	kind domain.RecordKind,
	recordID string,
	amount decimal.Decimal,
	entryID string,
	now time.Time,
) (*domain.Record, error) {
	rec, err := records.GetByIDForUpdate(ctx, tx, orgID, kind, recordID)
	if err != nil {
		return nil, err
	}

	rec.Attach(amount, entryID)
	rec.UpdatedAt = now

	if err := records.UpdateCollected(ctx, tx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// detachRecord reverses a previously attached contribution. The
// collected total floors at zero; the primary link is cleared only if
// it pointed at the detached entry.
func detachRecord(
	ctx context.Context,
	tx Transaction,
	records RecordRepository,
	orgID string,
	kind domain.RecordKind,
	recordID string,
	amount decimal.Decimal,
	entryID string,
	now time.Time,
) (*domain.Record, error) {
	rec, err := records.GetByIDForUpdate(ctx, tx, orgID, kind, recordID)
	if err != nil {
		return nil, err
	}

	rec.Detach(amount, entryID)
	rec.UpdatedAt = now

	if err := records.UpdateCollected(ctx, tx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}
