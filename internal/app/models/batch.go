package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BatchStatus string

const (
	BatchStatusReceived   BatchStatus = "recebido"
	BatchStatusProcessing BatchStatus = "em_processamento"
	BatchStatusSent       BatchStatus = "enviado"
	BatchStatusClosed     BatchStatus = "finalizado"
)

// Batch (lote) is the canonical batch record. Repository adapters normalize
// every stored shape into this type before it reaches the billing core.
type Batch struct {
	ID                 string          `json:"id"`
	BatchNumber        string          `json:"numero_lote"`
	PayerName          string          `json:"operadora_nome"`
	PayerRegistryID    string          `json:"operadora_registro_ans"`
	BillingPeriod      string          `json:"competencia"`
	DeclaredTotal      decimal.Decimal `json:"valor_total"`
	DeclaredClaimCount int             `json:"quantidade_guias"`
	Status             BatchStatus     `json:"status"`
	SubmittedAt        *time.Time      `json:"data_envio,omitempty"`
	BillingFileKey     string          `json:"arquivo_xml,omitempty"`
}
