package alerts

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmartins/centsible/internal/anomaly"
)

type Handler struct {
	detector *anomaly.Detector
	// defaultLookbackDays applies when the request does not pick a window.
	defaultLookbackDays int
}

func NewHandler(detector *anomaly.Detector, defaultLookbackDays int) *Handler {
	return &Handler{detector: detector, defaultLookbackDays: defaultLookbackDays}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type alertsResponse struct {
	Alerts []*anomaly.Alert `json:"alerts"`
	Count  int              `json:"count"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lookbackDays := h.defaultLookbackDays

	if s := query.Get("lookback_days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "lookback_days must be a positive integer", http.StatusBadRequest)
			return
		}
		lookbackDays = n
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)

	if s := query.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		end = t
	}

	start := end.AddDate(0, 0, -lookbackDays)

	if s := query.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		start = t
	}

	if start.After(end) {
		http.Error(w, "start_date must be before end_date", http.StatusBadRequest)
		return
	}

	alerts, err := h.detector.DetectRange(r.Context(), start, end)
	if err != nil {
		slog.Error("anomaly detection failed", "error", err)
		http.Error(w, "failed to detect anomalies", http.StatusInternalServerError)

		return
	}

	if s := query.Get("severity"); s != "" {
		filtered := alerts[:0]

		for _, a := range alerts {
			if a.Severity == anomaly.Severity(s) {
				filtered = append(filtered, a)
			}
		}

		alerts = filtered
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(alertsResponse{Alerts: alerts, Count: len(alerts)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
