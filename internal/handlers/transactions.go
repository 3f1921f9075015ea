package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/forms"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/response"
	"github.com/GregMSThompson/ascend-backend/internal/services"
)

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	RecordSvc       RecordService
	Clock           func() time.Time
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{ResponseHandler: deps.ResponseHandler, RecordSvc: deps.RecordSvc, Clock: deps.now}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTransactions)
	r.Post("/", h.CreateTransaction)
	r.Patch("/{id}", h.UpdateTransaction)
	r.Delete("/{id}", h.DeleteTransaction)
	r.Post("/{id}/toggle", h.ToggleTransaction)
	return r
}

// ListTransactions returns overdue first, then newest. A date window is
// applied only when one is given.
func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	s, err := observing(r, models.KindTransactions)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	txs := s.Transactions()
	q := r.URL.Query()
	if q.Get("preset") != "" || q.Get("start") != "" || q.Get("end") != "" {
		now := h.Clock()
		window, field, err := dateWindow(r, now)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		txs = services.FilterTransactions(txs, window, field, now)
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, txs)
}

func (h *transactionHandlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.TransactionInput
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	id, err := h.RecordSvc.CreateTransaction(r.Context(), s.Actor(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	next := forms.AfterSubmit(models.KindTransactions, true, keepOpen(r), formContext(r), h.Clock())
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, created{ID: id, Next: next})
}

func (h *transactionHandlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.TransactionPatch
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.UpdateTransaction(r.Context(), s.Actor(), chi.URLParam(r, "id"), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *transactionHandlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.Delete(r.Context(), s.Actor(), models.KindTransactions, chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *transactionHandlers) ToggleTransaction(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	status, err := h.RecordSvc.ToggleTransaction(r.Context(), s.Actor(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]models.TransactionStatus{"status": status})
}
