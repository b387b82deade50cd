package models

import "time"

// BatchSnapshot is copied into every dispute because the case-management
// service has no access to the batch record afterwards.
type BatchSnapshot struct {
	BatchID         string `json:"lote_id"`
	BatchNumber     string `json:"numero_lote"`
	BillingPeriod   string `json:"competencia"`
	PayerName       string `json:"operadora_nome"`
	PayerRegistryID string `json:"operadora_registro_ans"`
}

// MissingFields lists the snapshot fields that are still blank.
func (s BatchSnapshot) MissingFields() []string {
	var missing []string
	if s.BatchID == "" {
		missing = append(missing, "lote_id")
	}
	if s.BatchNumber == "" {
		missing = append(missing, "numero_lote")
	}
	if s.BillingPeriod == "" {
		missing = append(missing, "competencia")
	}
	if s.PayerName == "" {
		missing = append(missing, "operadora_nome")
	}
	if s.PayerRegistryID == "" {
		missing = append(missing, "operadora_registro_ans")
	}
	return missing
}

type DisputeRequest struct {
	ClaimID         string        `json:"guia_id"`
	ClaimNumber     string        `json:"numero_guia_prestador"`
	ItemID          string        `json:"item_id,omitempty"`
	ItemCode        string        `json:"item_codigo,omitempty"`
	ItemDescription string        `json:"item_descricao,omitempty"`
	DisputedAmount  string        `json:"valor_glosado"`
	Batch           BatchSnapshot `json:"lote"`
}

type DisputeCase struct {
	ID        string        `json:"id"`
	ClaimID   string        `json:"guia_id"`
	ItemID    string        `json:"item_id,omitempty"`
	Status    string        `json:"status"`
	Batch     BatchSnapshot `json:"lote"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`
}
