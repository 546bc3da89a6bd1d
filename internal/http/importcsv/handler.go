package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmartins/centsible/internal/importer"
	"github.com/mmartins/centsible/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{importSvc: importSvc, txSvc: txSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/{source}", h.importCSV)
}

type importResponse struct {
	Imported       int     `json:"imported"`
	Skipped        int     `json:"skipped"`
	TransactionIDs []int64 `json:"transaction_ids"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	source := importer.Source(chi.URLParam(r, "source"))

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	account := r.FormValue("account")
	if account == "" {
		http.Error(w, "account field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(source, account, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{TransactionIDs: make([]int64, 0, len(params))}

	// Each row lands on its own upsert; a bad row costs that row only.
	for _, p := range params {
		tx, err := h.txSvc.Ingest(r.Context(), p)
		if err != nil {
			slog.Error("failed to ingest imported row", "descriptor", p.RawDescriptor, "error", err)
			resp.Skipped++

			continue
		}

		resp.Imported++
		resp.TransactionIDs = append(resp.TransactionIDs, tx.ID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
