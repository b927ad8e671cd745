package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is an audit trail entry for ledger mutations.
type AuditLog struct {
	ID             string
	OrganizationID string
	UserID         string
	Action         string
	ResourceType   string
	ResourceID     string
	RequestID      string
	BeforeState    JSON
	AfterState     JSON
	Status         string
	ErrorMessage   string
	CreatedAt      time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionAccountCreate      AuditAction = "account.create"
	AuditActionAccountAdjust      AuditAction = "account.adjust"
	AuditActionTransactionCreate  AuditAction = "transaction.create"
	AuditActionTransactionUpdate  AuditAction = "transaction.update"
	AuditActionTransactionDelete  AuditAction = "transaction.delete"
	AuditActionTransactionConvert AuditAction = "transaction.convert"
	AuditActionTransferCreate     AuditAction = "transfer.create"
	AuditActionTransferReverse    AuditAction = "transfer.reverse"
	AuditActionPaymentRecord      AuditAction = "payment.record"
	AuditActionPaymentCancel      AuditAction = "payment.cancel"
	AuditActionScheduleCreate     AuditAction = "schedule.create"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	var out JSON
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}

	return out
}
