package categorize

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmartins/centsible/internal/categorize"
	"github.com/mmartins/centsible/internal/transaction"
)

type Handler struct {
	catSvc *categorize.Service
	txSvc  *transaction.Service
}

func NewHandler(catSvc *categorize.Service, txSvc *transaction.Service) *Handler {
	return &Handler{catSvc: catSvc, txSvc: txSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/{id}", h.categorize)
}

// FinalizeRoutes mounts the manual override endpoint.
func (h *Handler) FinalizeRoutes(r chi.Router) {
	r.Post("/{id}", h.finalize)
}

type categorizeResponse struct {
	ID          int64              `json:"id"`
	Category    string             `json:"category"`
	Subcategory string             `json:"subcategory,omitempty"`
	Confidence  float64            `json:"confidence"`
	Status      transaction.Status `json:"status"`
}

func (h *Handler) categorize(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.txSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	result, err := h.catSvc.Categorize(r.Context(), tx)
	if err != nil {
		slog.Error("categorization failed", "transaction_id", id, "error", err)
		http.Error(w, "failed to categorize transaction", http.StatusInternalServerError)

		return
	}

	status := h.catSvc.DecideStatus(result.Confidence, tx.AmountCents)

	// The classifier's vendor only fills a blank; it never overwrites a
	// normalized one.
	var vendor *string
	if tx.CanonicalVendor == "" && result.Vendor != "" {
		vendor = &result.Vendor
	}

	if err := h.txSvc.ApplyCategorization(r.Context(), id, transaction.CategorizationParams{
		Category:        result.Category,
		Subcategory:     result.Subcategory,
		Confidence:      result.Confidence,
		CanonicalVendor: vendor,
		Status:          status,
	}); err != nil {
		http.Error(w, "failed to save categorization", http.StatusInternalServerError)
		return
	}

	slog.Info("transaction categorized",
		"transaction_id", id,
		"category", result.Category,
		"confidence", result.Confidence,
		"status", status)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(categorizeResponse{
		ID:          id,
		Category:    result.Category,
		Subcategory: result.Subcategory,
		Confidence:  result.Confidence.InexactFloat64(),
		Status:      status,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type finalizeRequest struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

type finalizeResponse struct {
	OK bool `json:"ok"`
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req finalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Category == "" {
		http.Error(w, "category is required", http.StatusBadRequest)
		return
	}

	if err := h.txSvc.Finalize(r.Context(), id, req.Category, req.Subcategory); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "failed to finalize transaction", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(finalizeResponse{OK: true}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
