package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemKind string

const (
	ItemKindClaimHeader ItemKind = "guia"
	ItemKindProcedure   ItemKind = "procedimento"
	ItemKindMedication  ItemKind = "medicamento"
	ItemKindMaterial    ItemKind = "material"
	ItemKindFee         ItemKind = "taxa"
)

func (k ItemKind) IsClaimHeader() bool {
	return k == ItemKindClaimHeader
}

// Item is one row of a batch's flat item list. Rows of kind ItemKindClaimHeader
// stand for the claim itself and carry the claim-level fields; every other row
// points to its claim header through ParentID.
type Item struct {
	ID            string          `json:"id"`
	BatchID       string          `json:"lote_id"`
	ParentID      string          `json:"parent_id,omitempty"`
	Kind          ItemKind        `json:"tipo"`
	Code          string          `json:"codigo"`
	Description   string          `json:"descricao"`
	Amount        decimal.Decimal `json:"valor_total"`
	PaymentStatus PaymentStatus   `json:"status_pagamento"`

	ProviderClaimNumber   string     `json:"numero_guia_prestador,omitempty"`
	PayerClaimNumber      string     `json:"numero_guia_operadora,omitempty"`
	BeneficiaryCardNumber string     `json:"numero_carteira,omitempty"`
	AuthorizationDate     *time.Time `json:"data_autorizacao,omitempty"`
	ExecutionDate         *time.Time `json:"data_execucao,omitempty"`
}

// EffectiveStatus treats an empty stored status as pendente.
func (i Item) EffectiveStatus() PaymentStatus {
	if i.PaymentStatus == "" {
		return PaymentStatusPending
	}
	return i.PaymentStatus
}
