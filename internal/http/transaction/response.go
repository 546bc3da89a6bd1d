package transaction

import (
	"time"

	"github.com/mmartins/centsible/internal/transaction"
)

type transactionResponse struct {
	ID              int64                 `json:"id"`
	Date            time.Time             `json:"date"`
	PostedAt        time.Time             `json:"posted_at"`
	AmountCents     int64                 `json:"amount_cents"`
	Currency        string                `json:"currency"`
	Direction       transaction.Direction `json:"direction"`
	RawDescriptor   string                `json:"raw_descriptor"`
	CanonicalVendor string                `json:"canonical_vendor,omitempty"`
	MCC             string                `json:"mcc,omitempty"`
	Memo            string                `json:"memo,omitempty"`
	SourceAccount   string                `json:"source_account,omitempty"`
	HashID          string                `json:"hash_id"`
	ReceiptURL      string                `json:"receipt_url,omitempty"`
	Category        string                `json:"category,omitempty"`
	Subcategory     string                `json:"subcategory,omitempty"`
	Confidence      *float64              `json:"confidence,omitempty"`
	Status          transaction.Status    `json:"status"`
	Notes           string                `json:"notes,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:              tx.ID,
		Date:            tx.Date,
		PostedAt:        tx.PostedAt,
		AmountCents:     tx.AmountCents,
		Currency:        tx.Currency,
		Direction:       tx.Direction,
		RawDescriptor:   tx.RawDescriptor,
		CanonicalVendor: tx.CanonicalVendor,
		MCC:             tx.MCC,
		Memo:            tx.Memo,
		SourceAccount:   tx.SourceAccount,
		HashID:          tx.HashID,
		ReceiptURL:      tx.ReceiptURL,
		Category:        tx.Category,
		Subcategory:     tx.Subcategory,
		Status:          tx.Status,
		Notes:           tx.Notes,
	}

	if tx.Confidence != nil {
		resp.Confidence = new(tx.Confidence.InexactFloat64())
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
