package responses

import (
	"oncobilling-service/internal/app/models"
	"time"

	"github.com/shopspring/decimal"
)

type BatchHeader struct {
	ID                 string             `json:"id"`
	BatchNumber        string             `json:"numero_lote"`
	BillingPeriod      string             `json:"competencia"`
	PayerName          string             `json:"operadora_nome"`
	PayerRegistryID    string             `json:"operadora_registro_ans"`
	DeclaredTotal      decimal.Decimal    `json:"valor_total"`
	DeclaredClaimCount int                `json:"quantidade_guias"`
	Status             models.BatchStatus `json:"status"`
}

type BatchClaims struct {
	Batch      BatchHeader    `json:"lote"`
	Claims     []models.Claim `json:"guias"`
	Orphans    []models.Item  `json:"itens_orfaos"`
	ClaimCount int            `json:"total_guias"`
	ItemCount  int            `json:"total_itens"`
}

// BatchSummary compares what the batch declares with what its items add up
// to.
type BatchSummary struct {
	Batch               BatchHeader                  `json:"lote"`
	ClaimsDeclaredTotal decimal.Decimal              `json:"soma_valor_guias"`
	ComputedTotal       decimal.Decimal              `json:"soma_subtotais"`
	Subtotals           models.CategorySubtotals     `json:"subtotais"`
	ClaimCount          int                          `json:"total_guias"`
	ClaimCountMatches   bool                         `json:"quantidade_guias_confere"`
	TotalMatches        bool                         `json:"valor_total_confere"`
	OrphanCount         int                          `json:"total_itens_orfaos"`
	EstimatedClaimCount int                          `json:"total_guias_estimadas"`
	StatusCounts        map[models.PaymentStatus]int `json:"status_pagamento"`
}

type ResolvedClaim struct {
	Claim          models.Claim          `json:"guia"`
	ResolvedFrom   string                `json:"resolvido_por"`
	DisputeRequest models.DisputeRequest `json:"recurso"`
}

type StatusTransition struct {
	BatchID        string               `json:"lote_id"`
	TargetKind     models.TargetKind    `json:"target_kind"`
	TargetID       string               `json:"target_id"`
	PreviousStatus models.PaymentStatus `json:"previous_status"`
	NewStatus      models.PaymentStatus `json:"new_status"`
	Dispute        *Dispute             `json:"recurso,omitempty"`
}

type Attachment struct {
	ObjectName      string     `json:"object_name"`
	OriginalName    string     `json:"original_name"`
	ContentType     string     `json:"content_type"`
	Size            int64      `json:"size"`
	UploadedAt      *time.Time `json:"uploaded_at,omitempty"`
	AttachmentCount int        `json:"attachment_count,omitempty"`
}

type Dispute struct {
	ID        string               `json:"id"`
	ClaimID   string               `json:"guia_id"`
	ItemID    string               `json:"item_id,omitempty"`
	Status    string               `json:"status"`
	Batch     models.BatchSnapshot `json:"lote"`
	CreatedAt *time.Time           `json:"created_at,omitempty"`
}
