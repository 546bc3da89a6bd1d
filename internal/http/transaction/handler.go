package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmartins/centsible/internal/receipt"
	"github.com/mmartins/centsible/internal/transaction"
)

type Handler struct {
	svc     *transaction.Service
	locator *receipt.Locator
}

func NewHandler(svc *transaction.Service, locator *receipt.Locator) *Handler {
	return &Handler{svc: svc, locator: locator}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/receipt", h.updateReceipt)
	r.Post("/{id}/receipt/search", h.searchReceipt)
}

// IngestRoutes mounts the ingestion endpoint, kept separate so the
// router can give it its own path.
func (h *Handler) IngestRoutes(r chi.Router) {
	r.Post("/", h.ingest)
}

type ingestRequest struct {
	Date          string `json:"date"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	Direction     string `json:"direction"`
	RawDescriptor string `json:"raw_descriptor"`
	MCC           string `json:"mcc"`
	Memo          string `json:"memo"`
	SourceAccount string `json:"source_account"`
	HashID        string `json:"hash_id"`
}

func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Ingest(r.Context(), transaction.IngestParams{
		Date:          date,
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		Direction:     transaction.Direction(req.Direction),
		RawDescriptor: req.RawDescriptor,
		MCC:           req.MCC,
		Memo:          req.Memo,
		SourceAccount: req.SourceAccount,
		HashID:        req.HashID,
	})
	if err != nil {
		if errors.Is(err, transaction.ErrInvalidDirection) {
			http.Error(w, "direction must be debit or credit", http.StatusBadRequest)
			return
		}

		http.Error(w, "failed to ingest transaction", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateReceiptRequest struct {
	ReceiptURL string `json:"receipt_url"`
}

func (h *Handler) updateReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.ReceiptURL == "" {
		http.Error(w, "receipt_url is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateReceipt(r.Context(), id, req.ReceiptURL); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "failed to update receipt", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

type searchReceiptResponse struct {
	Found      bool   `json:"found"`
	ReceiptURL string `json:"receipt_url,omitempty"`
}

func (h *Handler) searchReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	url, err := h.locator.Find(r.Context(), tx)
	if err != nil {
		http.Error(w, "receipt search failed", http.StatusInternalServerError)
		return
	}

	resp := searchReceiptResponse{}

	if url != "" {
		if err := h.svc.UpdateReceipt(r.Context(), id, url); err != nil {
			http.Error(w, "failed to update receipt", http.StatusInternalServerError)
			return
		}

		resp.Found = true
		resp.ReceiptURL = url
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}
	query := r.URL.Query()

	if s := query.Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := query.Get("direction"); s != "" {
		filter.Direction = new(transaction.Direction(s))
	}

	if s := query.Get("category"); s != "" {
		filter.Category = &s
	}

	if s := query.Get("vendor"); s != "" {
		filter.Vendor = &s
	}

	if s := query.Get("account"); s != "" {
		filter.Account = &s
	}

	if s := query.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := query.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "failed to list transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
