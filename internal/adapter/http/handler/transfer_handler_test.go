package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/adapter/http/dto"
	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

type transferServiceStub struct {
	transferFn     func(ctx context.Context, input usecase.CreateTransferInput) (*usecase.TransferResult, error)
	getFn          func(ctx context.Context, orgID, entryID string) (*usecase.TransferResult, error)
	reverseFn      func(ctx context.Context, orgID, entryID, reversedBy string) error
	updateStatusFn func(ctx context.Context, orgID, entryID string, status domain.TransferStatus) error
}

func (s *transferServiceStub) Transfer(ctx context.Context, input usecase.CreateTransferInput) (*usecase.TransferResult, error) {
	return s.transferFn(ctx, input)
}

func (s *transferServiceStub) GetTransfer(ctx context.Context, orgID, entryID string) (*usecase.TransferResult, error) {
	return s.getFn(ctx, orgID, entryID)
}

func (s *transferServiceStub) ReverseTransfer(ctx context.Context, orgID, entryID, reversedBy string) error {
	return s.reverseFn(ctx, orgID, entryID, reversedBy)
}

func (s *transferServiceStub) UpdateTransferStatus(ctx context.Context, orgID, entryID string, status domain.TransferStatus) error {
	return s.updateStatusFn(ctx, orgID, entryID, status)
}

func transferResult() *usecase.TransferResult {
	amount := decimal.RequireFromString("200")
	return &usecase.TransferResult{
		PairID: "pair-1",
		DebitEntry: &domain.Transaction{
			ID:        "txn-out",
			AccountID: "acc-from",
			Direction: domain.DirectionDebit,
			Amount:    amount,
		},
		CreditEntry: &domain.Transaction{
			ID:        "txn-in",
			AccountID: "acc-to",
			Direction: domain.DirectionCredit,
			Amount:    amount,
		},
	}
}

func TestTransferHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateTransferInput
	handler := NewTransferHandler(&transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.CreateTransferInput) (*usecase.TransferResult, error) {
			captured = input
			return transferResult(), nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAccountID: "acc-from",
		ToAccountID:   "acc-to",
		Amount:        decimal.RequireFromString("200"),
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := serveAsTenant(handler.Create, req, "org-1")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.OrganizationID != "org-1" || captured.FromAccountID != "acc-from" {
		t.Fatalf("expected input to carry tenant and accounts, got %+v", captured)
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PairID != "pair-1" {
		t.Fatalf("expected pair-1, got %s", resp.PairID)
	}
	if resp.DebitEntry.ID != "txn-out" || resp.CreditEntry.ID != "txn-in" {
		t.Fatalf("expected both legs in response, got %+v", resp)
	}
}

func TestTransferHandler_Create_InsufficientFunds(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.CreateTransferInput) (*usecase.TransferResult, error) {
			return nil, domain.ErrInsufficientFunds
		},
	})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAccountID: "acc-from",
		ToAccountID:   "acc-to",
		Amount:        decimal.RequireFromString("9999"),
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := serveAsTenant(handler.Create, req, "org-1")

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestTransferHandler_UpdateStatus_InvalidValue(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		updateStatusFn: func(ctx context.Context, orgID, entryID string, status domain.TransferStatus) error {
			t.Fatal("UpdateTransferStatus should not be called for an unknown status")
			return nil
		},
	})

	body, _ := json.Marshal(dto.UpdateTransferStatusRequest{Status: "teleported"})

	req := httptest.NewRequest(http.MethodPatch, "/transfers/txn-out/status", bytes.NewReader(body))
	req = withURLParam(req, "id", "txn-out")
	rec := serveAsTenant(handler.UpdateStatus, req, "org-1")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransferHandler_Reverse_Success(t *testing.T) {
	var reversedID string
	handler := NewTransferHandler(&transferServiceStub{
		reverseFn: func(ctx context.Context, orgID, entryID, reversedBy string) error {
			reversedID = entryID
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/transfers/txn-out", nil)
	req = withURLParam(req, "id", "txn-out")
	rec := serveAsTenant(handler.Reverse, req, "org-1")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if reversedID != "txn-out" {
		t.Fatalf("expected reversal of txn-out, got %q", reversedID)
	}
}

func TestTransferHandler_Get_NotFound(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		getFn: func(ctx context.Context, orgID, entryID string) (*usecase.TransferResult, error) {
			return nil, domain.ErrTransactionNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transfers/missing", nil)
	req = withURLParam(req, "id", "missing")
	rec := serveAsTenant(handler.Get, req, "org-1")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
