package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trunohq/truno-ledger/internal/adapter/http/dto"
	"github.com/trunohq/truno-ledger/internal/adapter/http/middleware"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

// PaymentHandler handles payment HTTP requests.
type PaymentHandler struct {
	paymentUC *usecase.PaymentUseCase
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentUC *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// Create records a settlement against a sale or expense.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKindParam(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid record kind", "kind must be sale or expense")
		return
	}

	recordID := chi.URLParam(r, "id")

	var req dto.RecordPaymentRequest
	if !decode(w, r, &req) {
		return
	}

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	payment, err := h.paymentUC.RecordPayment(r.Context(), req.ToUseCaseInput(orgID, kind, recordID, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromDomain(payment))
}

// List lists the payments recorded against a record.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKindParam(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid record kind", "kind must be sale or expense")
		return
	}

	recordID := chi.URLParam(r, "id")

	payments, err := h.paymentUC.ListPayments(r.Context(), middleware.OrganizationID(r.Context()), kind, recordID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentsFromDomain(payments))
}

// Cancel reverses a payment: collected totals, installment paid totals,
// and any bank entry created alongside.
func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	if err := h.paymentUC.CancelPayment(r.Context(), orgID, paymentID, userID); err != nil {
		writeError(w, mapDomainError(err), "failed to cancel payment", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Pending summarizes records still owed as of an optional date.
func (h *PaymentHandler) Pending(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKindParam(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid record kind", "kind must be sale or expense")
		return
	}

	asOf := time.Now().UTC()
	if t := parseTimeQuery(r, "as_of"); t != nil {
		asOf = *t
	}

	summary, err := h.paymentUC.PendingPayments(r.Context(), middleware.OrganizationID(r.Context()), kind, asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to summarize pending payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PendingSummaryFromUseCase(summary))
}
