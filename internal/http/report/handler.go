package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmartins/centsible/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := report.Query{
		Month:    query.Get("month"),
		Category: query.Get("category"),
		Vendor:   query.Get("vendor"),
		Account:  query.Get("account"),
		// Summaries cover settled transactions unless asked otherwise.
		Status: "finalized",
	}

	if s := query.Get("status"); s != "" {
		q.Status = s
	}

	if s := query.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		q.StartDate = new(t)
	}

	if s := query.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		q.EndDate = new(t)
	}

	summary, err := h.svc.Summary(r.Context(), q)
	if err != nil {
		if errors.Is(err, report.ErrInvalidPeriod) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("summary report failed", "error", err)
		http.Error(w, "failed to generate summary report", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(summary); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
