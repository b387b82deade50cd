package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Claim (guia) is rebuilt from the flat item list on every load. Subtotals are
// derived and never persisted as a source of truth.
type Claim struct {
	ID                    string            `json:"id"`
	BatchID               string            `json:"lote_id"`
	ProviderClaimNumber   string            `json:"numero_guia_prestador"`
	PayerClaimNumber      string            `json:"numero_guia_operadora"`
	BeneficiaryCardNumber string            `json:"numero_carteira"`
	AuthorizationDate     *time.Time        `json:"data_autorizacao,omitempty"`
	ExecutionDate         *time.Time        `json:"data_execucao,omitempty"`
	DeclaredTotal         decimal.Decimal   `json:"valor_total"`
	PaymentStatus         PaymentStatus     `json:"status_pagamento"`
	Items                 []ClassifiedItem  `json:"itens"`
	Subtotals             CategorySubtotals `json:"subtotais"`
}

type ClassifiedItem struct {
	Item
	Category Category `json:"categoria"`
}

// CategorySubtotals is a best-effort decomposition of a claim's declared
// total. When Estimated is true the non-procedure values come from the fixed
// ratio fallback and must not be used for payment decisions.
type CategorySubtotals struct {
	Procedure  decimal.Decimal `json:"procedimentos"`
	Medication decimal.Decimal `json:"medicamentos"`
	Material   decimal.Decimal `json:"materiais"`
	Fee        decimal.Decimal `json:"taxas"`
	Estimated  bool            `json:"estimado"`
}

func (s CategorySubtotals) Sum() decimal.Decimal {
	return s.Procedure.Add(s.Medication).Add(s.Material).Add(s.Fee)
}

func (s CategorySubtotals) ByCategory(category Category) decimal.Decimal {
	switch category {
	case CategoryMedication:
		return s.Medication
	case CategoryMaterial:
		return s.Material
	case CategoryFee:
		return s.Fee
	default:
		return s.Procedure
	}
}

// ClaimFromHeader copies the claim-level fields of a claim-header item.
func ClaimFromHeader(header Item) Claim {
	return Claim{
		ID:                    header.ID,
		BatchID:               header.BatchID,
		ProviderClaimNumber:   header.ProviderClaimNumber,
		PayerClaimNumber:      header.PayerClaimNumber,
		BeneficiaryCardNumber: header.BeneficiaryCardNumber,
		AuthorizationDate:     header.AuthorizationDate,
		ExecutionDate:         header.ExecutionDate,
		DeclaredTotal:         header.Amount,
		PaymentStatus:         header.EffectiveStatus(),
		Items:                 []ClassifiedItem{},
	}
}
